package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// TokenType discriminates the token kinds issued by the service. A token of
// one type presented where another is expected is rejected even if otherwise
// valid.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
	TokenTypeBind    TokenType = "bind"
)

// Default token lifetimes. The 24h access token is a deliberate deployment
// policy for this product, not an oversight; both are configurable.
const (
	DefaultAccessTokenTTL  = 24 * time.Hour
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
	DefaultBindTokenTTL    = 10 * time.Minute
)

// TokenConfig holds token issuance configuration.
type TokenConfig struct {
	Secret          []byte
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BindTokenTTL    time.Duration
}

// Claims is the fixed record carried by every token, validated on decode.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType     `json:"type"`
	Username  string        `json:"username,omitempty"`
	Region    domain.Region `json:"region,omitempty"`

	// Provider identity, present on bind tokens only.
	Provider       string `json:"provider,omitempty"`
	ProviderUserID string `json:"provider_user_id,omitempty"`
	ProviderEmail  string `json:"provider_email,omitempty"`
}

// TokenService issues and validates self-contained signed tokens. Tokens are
// stateless: revocation of refresh tokens is enforced at the session layer,
// and access tokens simply expire.
type TokenService struct {
	config TokenConfig
}

// NewTokenService creates a token service, applying lifetime defaults.
func NewTokenService(config TokenConfig) *TokenService {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if config.RefreshTokenTTL == 0 {
		config.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	if config.BindTokenTTL == 0 {
		config.BindTokenTTL = DefaultBindTokenTTL
	}
	return &TokenService{config: config}
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *TokenService) AccessTokenTTL() time.Duration {
	return s.config.AccessTokenTTL
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func (s *TokenService) RefreshTokenTTL() time.Duration {
	return s.config.RefreshTokenTTL
}

// IssueAccess creates a signed access token embedding user id, username and
// region.
func (s *TokenService) IssueAccess(userID uuid.UUID, username string, region domain.Region) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTokenTTL)),
			ID:        uuid.NewString(),
		},
		TokenType: TokenTypeAccess,
		Username:  username,
		Region:    region,
	}
	return s.sign(claims)
}

// IssueRefresh creates a signed refresh token carrying the subject only.
func (s *TokenService) IssueRefresh(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.RefreshTokenTTL)),
			ID:        uuid.NewString(),
		},
		TokenType: TokenTypeRefresh,
	}
	return s.sign(claims)
}

// IssueBind creates a short-lived token carrying an unbound provider
// identity, handed to the client between third-party login and the bind
// step. Self-contained, so no provider profile needs temporary storage.
func (s *TokenService) IssueBind(profile *domain.ProviderProfile) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.BindTokenTTL)),
			ID:        uuid.NewString(),
		},
		TokenType:      TokenTypeBind,
		Provider:       profile.Provider,
		ProviderUserID: profile.UserID,
		ProviderEmail:  profile.Email,
	}
	return s.sign(claims)
}

func (s *TokenService) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.config.Secret)
}

// Verify validates signature, expiry, and token type as distinct outcomes:
// ErrTokenExpired, ErrTokenInvalid, or ErrTokenTypeMismatch.
func (s *TokenService) Verify(tokenString string, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return s.config.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if claims.TokenType != expected {
		return nil, domain.ErrTokenTypeMismatch
	}
	return claims, nil
}

// Subject parses the user id carried in the claims subject.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
