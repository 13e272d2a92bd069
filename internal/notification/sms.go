package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// SMSConfig holds SMS gateway settings. The provider credentials map to
// Aliyun SMS in the china region and Twilio in the us region.
type SMSConfig struct {
	Enabled   bool
	AccessKey string
	SecretKey string
	SignName  string
}

// SMSService sends verification codes over the regional SMS gateway.
type SMSService struct {
	config SMSConfig
	logger *slog.Logger
}

// NewSMSService creates a new SMS service.
func NewSMSService(config SMSConfig, logger *slog.Logger) *SMSService {
	return &SMSService{config: config, logger: logger}
}

var smsTemplates = map[domain.CodePurpose]string{
	domain.PurposeRegister:      "Your registration code is %s. Valid for 10 minutes.",
	domain.PurposeLogin:         "Your login code is %s. Valid for 10 minutes.",
	domain.PurposeResetPassword: "Your password reset code is %s. Valid for 10 minutes.",
	domain.PurposeChangePhone:   "Your phone change code is %s. Valid for 10 minutes.",
}

// SendVerificationCode delivers a numeric code to an E.164 phone number via
// the gateway for the number's region.
func (s *SMSService) SendVerificationCode(ctx context.Context, to, code string, purpose domain.CodePurpose, region domain.Region) error {
	template, ok := smsTemplates[purpose]
	if !ok {
		template = "Your verification code is %s. Valid for 10 minutes."
	}
	message := fmt.Sprintf(template, code)

	if !s.config.Enabled {
		// Dev mode: log instead of dispatching. The code row is already
		// stored, so flows remain testable without a gateway account.
		s.logger.Info("sms gateway disabled, skipping dispatch",
			slog.String("region", string(region)),
			slog.String("purpose", string(purpose)))
		return nil
	}

	switch region {
	case domain.RegionChina:
		return s.sendAliyun(ctx, to, message)
	default:
		return s.sendTwilio(ctx, to, message)
	}
}

// TODO: replace the gateway stubs with real Aliyun/Twilio API calls once
// the ops team provisions the accounts.
func (s *SMSService) sendAliyun(ctx context.Context, to, message string) error {
	return fmt.Errorf("aliyun sms gateway not configured")
}

func (s *SMSService) sendTwilio(ctx context.Context, to, message string) error {
	return fmt.Errorf("twilio sms gateway not configured")
}
