package domain

import (
	"time"

	"github.com/google/uuid"
)

// LoginAttempt is an append-only audit record of an authentication attempt.
// Rows are never mutated or deleted; lockout decisions and last-login queries
// read them as a rolling window.
type LoginAttempt struct {
	ID            uuid.UUID
	Identifier    string
	IPAddress     string
	UserAgent     string
	Success       bool
	FailureReason string
	CreatedAt     time.Time
}

// Failure reasons recorded on login attempts.
const (
	FailureWrongCredentials = "wrong_credentials"
	FailureAccountLocked    = "account_locked"
	FailureAccountInactive  = "account_inactive"
	FailurePolicyDenied     = "policy_denied"
)

// AccountLockType categorizes why an account was locked.
type AccountLockType string

const (
	LockTypeLoginAttempts     AccountLockType = "login_attempts"
	LockTypeSecurityViolation AccountLockType = "security_violation"
)

// AccountLock is a temporal denial record. A user is locked iff an active
// lock with LockedUntil in the future exists; expired locks become inert
// without any sweeping job because checks are always time-gated.
type AccountLock struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	LockType    AccountLockType
	LockReason  string
	LockedUntil time.Time
	Active      bool
	CreatedAt   time.Time
}

// InEffect reports whether the lock currently blocks login.
func (l *AccountLock) InEffect(now time.Time) bool {
	return l.Active && now.Before(l.LockedUntil)
}
