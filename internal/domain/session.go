package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// UserSession backs a refresh token's validity. Only the SHA-256 hash of the
// refresh token is persisted; validity checks are hash comparisons. Sessions
// are deactivated on logout, password reset and refresh rotation, never
// deleted.
type UserSession struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TokenHash  string
	DeviceInfo json.RawMessage
	IPAddress  string
	Active     bool
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// DeviceInfo holds optional client context captured at login.
type DeviceInfo struct {
	UserAgent string `json:"user_agent,omitempty"`
	LoginType string `json:"login_type,omitempty"`
}

// Live reports whether the session is active and unexpired.
func (s *UserSession) Live(now time.Time) bool {
	return s.Active && now.Before(s.ExpiresAt)
}

// TokenPair is the access/refresh token pair returned to the caller. Both
// tokens are caller-opaque bearer strings.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
