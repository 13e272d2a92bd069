package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// Verification code defaults, matching the product's contact-proof policy.
const (
	DefaultCodeLength      = 6
	DefaultCodeTTL         = 10 * time.Minute
	DefaultCodeMaxAttempts = 3
	DefaultCodeIssueWindow = 60 * time.Second
)

// CodeStore is the persistence surface the verification service needs.
// *repository.VerificationCodesRepository satisfies it.
type CodeStore interface {
	Replace(ctx context.Context, code *domain.VerificationCode) error
	LatestActive(ctx context.Context, identifier string, purpose domain.CodePurpose, now time.Time) (*domain.VerificationCode, error)
	IssuedSince(ctx context.Context, identifier string, purpose domain.CodePurpose, since time.Time) (bool, error)
	IncrementAttempts(ctx context.Context, id uuid.UUID) (int, error)
	IncrementLatestAttempts(ctx context.Context, identifier string, purpose domain.CodePurpose) error
	Consume(ctx context.Context, id uuid.UUID) (bool, error)
}

// CodeSender delivers a verification code to an identifier over the channel
// the identifier's shape implies.
type CodeSender interface {
	SendVerificationCode(ctx context.Context, identifier string, code string, purpose domain.CodePurpose, region domain.Region) error
}

// VerificationCodeConfig tunes the verification code service. Zero values
// select the defaults.
type VerificationCodeConfig struct {
	CodeLength  int
	TTL         time.Duration
	MaxAttempts int
	IssueWindow time.Duration
}

// VerificationCodeService issues and verifies time-boxed numeric codes that
// prove control of an email address or phone number.
type VerificationCodeService struct {
	store  CodeStore
	sender CodeSender
	config VerificationCodeConfig
	logger *slog.Logger
}

// NewVerificationCodeService creates a verification code service.
func NewVerificationCodeService(store CodeStore, sender CodeSender, config VerificationCodeConfig, logger *slog.Logger) *VerificationCodeService {
	if config.CodeLength == 0 {
		config.CodeLength = DefaultCodeLength
	}
	if config.TTL == 0 {
		config.TTL = DefaultCodeTTL
	}
	if config.MaxAttempts == 0 {
		config.MaxAttempts = DefaultCodeMaxAttempts
	}
	if config.IssueWindow == 0 {
		config.IssueWindow = DefaultCodeIssueWindow
	}
	return &VerificationCodeService{store: store, sender: sender, config: config, logger: logger}
}

// Issue generates a fresh code for the identifier and purpose, invalidates
// any prior unused code, and dispatches it. At most one code per identifier,
// purpose and issue window; a second request inside the window returns
// ErrCodeRateLimited.
//
// Delivery failure returns ErrDeliveryFailed but the stored code stays
// valid: a code that arrives late is still honored.
func (s *VerificationCodeService) Issue(ctx context.Context, identifier string, purpose domain.CodePurpose, region domain.Region) error {
	if !purpose.Valid() {
		return domain.ErrInvalidPurpose
	}

	now := time.Now()
	recent, err := s.store.IssuedSince(ctx, identifier, purpose, now.Add(-s.config.IssueWindow))
	if err != nil {
		return fmt.Errorf("failed to check issue window: %w", err)
	}
	if recent {
		return domain.ErrCodeRateLimited
	}

	value, err := GenerateNumericCode(s.config.CodeLength)
	if err != nil {
		return err
	}

	code := &domain.VerificationCode{
		ID:          uuid.New(),
		Identifier:  identifier,
		Code:        value,
		Purpose:     purpose,
		Attempts:    0,
		MaxAttempts: s.config.MaxAttempts,
		Region:      region,
		ExpiresAt:   now.Add(s.config.TTL),
		CreatedAt:   now,
	}
	if err := s.store.Replace(ctx, code); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	if err := s.sender.SendVerificationCode(ctx, identifier, value, purpose, region); err != nil {
		s.logger.Error("verification code delivery failed",
			slog.String("purpose", string(purpose)),
			slog.String("error", err.Error()))
		return domain.ErrDeliveryFailed
	}

	s.logger.Info("verification code issued",
		slog.String("purpose", string(purpose)),
		slog.String("region", string(region)))
	return nil
}

// Verify checks a submitted code against the active code for the identifier
// and purpose. Every call against an active code counts as an attempt,
// successful or not. A matching code is consumed exactly once; once the
// attempt cap is reached the code is consumed and no further submission can
// succeed, correct or not.
func (s *VerificationCodeService) Verify(ctx context.Context, identifier, submitted string, purpose domain.CodePurpose) error {
	code, err := s.store.LatestActive(ctx, identifier, purpose, time.Now())
	if errors.Is(err, domain.ErrCodeInvalidOrExpired) {
		// No active code. Still count the attempt against whatever the
		// latest unused row is, so expired-code guessing burns attempts.
		if err := s.store.IncrementLatestAttempts(ctx, identifier, purpose); err != nil {
			s.logger.Error("failed to record attempt", slog.String("error", err.Error()))
		}
		return domain.ErrCodeInvalidOrExpired
	}
	if err != nil {
		return fmt.Errorf("failed to look up verification code: %w", err)
	}

	if code.AttemptsExhausted() {
		if _, err := s.store.Consume(ctx, code.ID); err != nil {
			s.logger.Error("failed to consume exhausted code", slog.String("error", err.Error()))
		}
		return domain.ErrCodeTooManyAttempts
	}

	if _, err := s.store.IncrementAttempts(ctx, code.ID); err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}

	if !subtleEqual(code.Code, submitted) {
		return domain.ErrCodeInvalidOrExpired
	}

	consumed, err := s.store.Consume(ctx, code.ID)
	if err != nil {
		return fmt.Errorf("failed to consume verification code: %w", err)
	}
	if !consumed {
		// Lost the race with a concurrent verify of the same code.
		return domain.ErrCodeInvalidOrExpired
	}
	return nil
}
