package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked due to too many failed login attempts")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrPermissionDenied   = errors.New("action not permitted")
)

// Token errors. Verification distinguishes a bad signature, an expired
// token, and a well-formed token of the wrong type.
var (
	ErrTokenInvalid      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenTypeMismatch = errors.New("unexpected token type")
)

// Verification code errors
var (
	ErrCodeRateLimited      = errors.New("verification code requested too frequently")
	ErrCodeInvalidOrExpired = errors.New("verification code invalid or expired")
	ErrCodeTooManyAttempts  = errors.New("too many verification attempts, request a new code")
	ErrDeliveryFailed       = errors.New("failed to deliver verification code")
)

// Password reset errors
var (
	ErrResetTokenInvalid = errors.New("reset token invalid or expired")
)

// Duplicate identity errors
var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
	ErrPhoneTaken    = errors.New("phone number already registered")
)

// Validation errors
var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrInvalidRegion    = errors.New("unsupported region")
	ErrInvalidLoginType = errors.New("unsupported login type")
	ErrInvalidPurpose   = errors.New("unsupported code purpose")
	ErrMissingContact   = errors.New("email or phone is required")
	ErrWeakPassword     = errors.New("password does not meet requirements")
)

// Third-party errors
var (
	ErrProviderExchange      = errors.New("third-party provider exchange failed")
	ErrIdentityAlreadyLinked = errors.New("identity already linked to another user")
)
