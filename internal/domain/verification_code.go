package domain

import (
	"time"

	"github.com/google/uuid"
)

// CodePurpose is the business reason a verification code was issued.
type CodePurpose string

const (
	PurposeRegister      CodePurpose = "register"
	PurposeLogin         CodePurpose = "login"
	PurposeResetPassword CodePurpose = "reset_password"
	PurposeChangeEmail   CodePurpose = "change_email"
	PurposeChangePhone   CodePurpose = "change_phone"
)

// Valid reports whether the purpose is one of the supported values.
func (p CodePurpose) Valid() bool {
	switch p {
	case PurposeRegister, PurposeLogin, PurposeResetPassword, PurposeChangeEmail, PurposeChangePhone:
		return true
	}
	return false
}

// VerificationCode is an ephemeral proof-of-contact record bound to an
// identifier (email or phone) and a purpose. At most one unused, unexpired
// code exists per (identifier, purpose) pair; issuing a new one invalidates
// prior unused codes. Rows are retained for audit, never deleted.
type VerificationCode struct {
	ID          uuid.UUID
	Identifier  string
	Code        string
	Purpose     CodePurpose
	Used        bool
	Attempts    int
	MaxAttempts int
	Region      Region
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// Expired reports whether the code is past its expiry at the given instant.
func (c *VerificationCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// AttemptsExhausted reports whether the attempt cap has been reached.
func (c *VerificationCode) AttemptsExhausted() bool {
	return c.Attempts >= c.MaxAttempts
}
