package notification

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// EmailConfig holds SMTP settings.
type EmailConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	FromName   string
	AppBaseURL string
}

// EmailService sends verification codes and password reset links over SMTP.
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service.
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

var codeSubjects = map[domain.CodePurpose]string{
	domain.PurposeRegister:      "Your Registration Code",
	domain.PurposeLogin:         "Your Login Code",
	domain.PurposeResetPassword: "Your Password Reset Code",
	domain.PurposeChangeEmail:   "Confirm Your New Email Address",
	domain.PurposeChangePhone:   "Confirm Your Phone Number Change",
}

// SendVerificationCode emails a numeric verification code.
func (s *EmailService) SendVerificationCode(ctx context.Context, to, code string, purpose domain.CodePurpose, region domain.Region) error {
	subject, ok := codeSubjects[purpose]
	if !ok {
		subject = "Your Verification Code"
	}
	body := fmt.Sprintf(`<html><body>
		<h2>%s</h2>
		<p>Your verification code is:</p>
		<p style="font-size:28px;font-weight:bold;letter-spacing:4px;">%s</p>
		<p>This code will expire in 10 minutes.</p>
		<p>If you did not request this code, please ignore this email.</p>
	</body></html>`, subject, code)
	return s.sendEmail(to, subject, body)
}

// SendPasswordResetLink emails a password reset link built from the opaque
// reset token.
func (s *EmailService) SendPasswordResetLink(ctx context.Context, to, token string, region domain.Region) error {
	resetURL := fmt.Sprintf("%s/auth/reset-password/confirm?token=%s", s.config.AppBaseURL, token)
	subject := "Reset Your Password"
	body := fmt.Sprintf(`<html><body>
		<h2>Reset Your Password</h2>
		<p>A password reset has been requested for your account.</p>
		<p><a href="%s">Click here to reset your password</a></p>
		<p>Or copy this link to your browser: %s</p>
		<p>This link will expire in 30 minutes.</p>
		<p>If you did not request this password reset, please ignore this email.</p>
	</body></html>`, resetURL, resetURL)
	return s.sendEmail(to, subject, body)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	return smtp.SendMail(addr, auth, s.config.From, []string{to}, []byte(msg))
}
