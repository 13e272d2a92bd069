package notification

import (
	"context"
	"strings"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// Dispatcher routes a verification code to email or SMS based on the
// identifier's shape. It satisfies the auth package's CodeSender and
// ResetLinkSender interfaces.
type Dispatcher struct {
	email *EmailService
	sms   *SMSService
}

// NewDispatcher creates a channel-routing dispatcher.
func NewDispatcher(email *EmailService, sms *SMSService) *Dispatcher {
	return &Dispatcher{email: email, sms: sms}
}

// SendVerificationCode routes the code by identifier shape: '@' goes to
// email, anything else is an E.164 phone and goes to SMS.
func (d *Dispatcher) SendVerificationCode(ctx context.Context, identifier, code string, purpose domain.CodePurpose, region domain.Region) error {
	if strings.Contains(identifier, "@") {
		return d.email.SendVerificationCode(ctx, identifier, code, purpose, region)
	}
	return d.sms.SendVerificationCode(ctx, identifier, code, purpose, region)
}

// SendPasswordResetLink delivers a reset link by email.
func (d *Dispatcher) SendPasswordResetLink(ctx context.Context, email, token string, region domain.Region) error {
	return d.email.SendPasswordResetLink(ctx, email, token, region)
}
