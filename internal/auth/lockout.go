package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// Lockout policy defaults.
const (
	DefaultLockoutThreshold = 5
	DefaultLockoutWindow    = time.Hour
	DefaultLockoutDuration  = time.Hour
)

// AttemptStore is the audit-log surface the lockout policy needs.
// *repository.LoginAttemptsRepository satisfies it.
type AttemptStore interface {
	Create(ctx context.Context, attempt *domain.LoginAttempt) error
	CountFailuresForIdentifiersSince(ctx context.Context, identifiers []string, since time.Time) (int, error)
	LastSuccess(ctx context.Context, identifiers []string) (*time.Time, error)
}

// LockStore is the lock persistence surface.
// *repository.AccountLocksRepository satisfies it.
type LockStore interface {
	Create(ctx context.Context, lock *domain.AccountLock) error
	ActiveLock(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.AccountLock, error)
}

// LockoutConfig tunes the brute-force lockout policy. Zero values select the
// defaults.
type LockoutConfig struct {
	Threshold int
	Window    time.Duration
	Duration  time.Duration
}

// LockoutPolicy records login attempts and locks accounts that accumulate
// too many failures inside the trailing window. Failures are counted across
// all of a user's identifiers so switching from username to email does not
// reset the budget.
type LockoutPolicy struct {
	attempts AttemptStore
	locks    LockStore
	config   LockoutConfig
	logger   *slog.Logger
}

// NewLockoutPolicy creates a lockout policy.
func NewLockoutPolicy(attempts AttemptStore, locks LockStore, config LockoutConfig, logger *slog.Logger) *LockoutPolicy {
	if config.Threshold == 0 {
		config.Threshold = DefaultLockoutThreshold
	}
	if config.Window == 0 {
		config.Window = DefaultLockoutWindow
	}
	if config.Duration == 0 {
		config.Duration = DefaultLockoutDuration
	}
	return &LockoutPolicy{attempts: attempts, locks: locks, config: config, logger: logger}
}

// RecordAttempt appends an audit row. Audit failures are logged, never
// surfaced: a broken audit log must not block login.
func (p *LockoutPolicy) RecordAttempt(ctx context.Context, identifier, ipAddress, userAgent string, success bool, failureReason string) {
	attempt := &domain.LoginAttempt{
		ID:            uuid.New(),
		Identifier:    identifier,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
		Success:       success,
		FailureReason: failureReason,
		CreatedAt:     time.Now(),
	}
	if err := p.attempts.Create(ctx, attempt); err != nil {
		p.logger.Error("failed to record login attempt", slog.String("error", err.Error()))
	}
}

// CheckLock reports whether the user is currently locked and until when.
func (p *LockoutPolicy) CheckLock(ctx context.Context, userID uuid.UUID) (bool, *time.Time, error) {
	lock, err := p.locks.ActiveLock(ctx, userID, time.Now())
	if err != nil {
		return false, nil, fmt.Errorf("failed to check account lock: %w", err)
	}
	if lock == nil {
		return false, nil, nil
	}
	until := lock.LockedUntil
	return true, &until, nil
}

// EvaluateAndLock counts the user's failures across all identifiers inside
// the trailing window and, at or past the threshold, writes a new lock row
// for the configured duration. Locks are additive: continued failures during
// a lock extend the denial with fresh rows.
func (p *LockoutPolicy) EvaluateAndLock(ctx context.Context, userID uuid.UUID, identifiers []string) error {
	now := time.Now()
	failures, err := p.attempts.CountFailuresForIdentifiersSince(ctx, identifiers, now.Add(-p.config.Window))
	if err != nil {
		return fmt.Errorf("failed to count login failures: %w", err)
	}
	if failures < p.config.Threshold {
		return nil
	}

	lock := &domain.AccountLock{
		ID:          uuid.New(),
		UserID:      userID,
		LockType:    domain.LockTypeLoginAttempts,
		LockReason:  fmt.Sprintf("%d failed login attempts within %s", failures, p.config.Window),
		LockedUntil: now.Add(p.config.Duration),
		Active:      true,
		CreatedAt:   now,
	}
	if err := p.locks.Create(ctx, lock); err != nil {
		return fmt.Errorf("failed to create account lock: %w", err)
	}
	p.logger.Warn("account locked",
		slog.String("user_id", userID.String()),
		slog.Int("failures", failures),
		slog.Time("locked_until", lock.LockedUntil))
	return nil
}

// LastLogin returns the most recent successful login across the identifiers,
// or nil.
func (p *LockoutPolicy) LastLogin(ctx context.Context, identifiers []string) (*time.Time, error) {
	return p.attempts.LastSuccess(ctx, identifiers)
}
