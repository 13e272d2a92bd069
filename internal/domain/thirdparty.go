package domain

import (
	"time"

	"github.com/google/uuid"
)

// ThirdPartyAuth links a local user to an external provider identity.
type ThirdPartyAuth struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Provider       string
	ProviderUserID string
	Username       *string
	Email          *string
	AvatarURL      *string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProviderProfile is the identity summary returned by a provider exchange.
type ProviderProfile struct {
	Provider string `json:"provider"`
	UserID   string `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}
