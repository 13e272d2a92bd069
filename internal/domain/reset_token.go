package domain

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken is a one-time credential-reset capability. Only the
// SHA-256 hash of the opaque token is stored; the cleartext is returned to
// the caller exactly once at creation.
type PasswordResetToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	Used      bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Redeemable reports whether the token can still be consumed.
func (t *PasswordResetToken) Redeemable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
