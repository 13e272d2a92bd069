package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// SessionStore is the persistence surface the session manager needs.
// *repository.SessionsRepository satisfies it.
type SessionStore interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetActiveByTokenHash(ctx context.Context, userID uuid.UUID, tokenHash string, now time.Time) (*domain.UserSession, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.UserSession, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	DeactivateByTokenHash(ctx context.Context, userID uuid.UUID, tokenHash string) error
	DeactivateAllByUser(ctx context.Context, userID uuid.UUID) error
}

// SessionManager tracks which refresh tokens are live. A refresh token is
// honored only while its session row is active and unexpired, which is what
// makes stateless JWT refresh tokens revocable.
type SessionManager struct {
	store SessionStore
}

// NewSessionManager creates a session manager.
func NewSessionManager(store SessionStore) *SessionManager {
	return &SessionManager{store: store}
}

// Open records a new session for a freshly issued refresh token.
func (m *SessionManager) Open(ctx context.Context, userID uuid.UUID, refreshToken string, device domain.DeviceInfo, ipAddress string, ttl time.Duration) (*domain.UserSession, error) {
	deviceJSON, err := json.Marshal(device)
	if err != nil {
		return nil, fmt.Errorf("failed to encode device info: %w", err)
	}
	now := time.Now()
	session := &domain.UserSession{
		ID:         uuid.New(),
		UserID:     userID,
		TokenHash:  HashToken(refreshToken),
		DeviceInfo: deviceJSON,
		IPAddress:  ipAddress,
		Active:     true,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}
	if err := m.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Validate returns the live session backing a refresh token, or
// ErrSessionNotFound.
func (m *SessionManager) Validate(ctx context.Context, userID uuid.UUID, refreshToken string) (*domain.UserSession, error) {
	return m.store.GetActiveByTokenHash(ctx, userID, HashToken(refreshToken), time.Now())
}

// Rotate atomically retires the session behind the old refresh token and
// opens one for the new token, preserving device context. The old token is
// dead the moment this returns.
func (m *SessionManager) Rotate(ctx context.Context, userID uuid.UUID, oldToken, newToken string, ttl time.Duration) (*domain.UserSession, error) {
	current, err := m.store.GetActiveByTokenHash(ctx, userID, HashToken(oldToken), time.Now())
	if err != nil {
		return nil, err
	}
	if err := m.store.Deactivate(ctx, current.ID); err != nil {
		return nil, err
	}

	now := time.Now()
	session := &domain.UserSession{
		ID:         uuid.New(),
		UserID:     userID,
		TokenHash:  HashToken(newToken),
		DeviceInfo: current.DeviceInfo,
		IPAddress:  current.IPAddress,
		Active:     true,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}
	if err := m.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create rotated session: %w", err)
	}
	return session, nil
}

// List returns the user's live sessions, newest first.
func (m *SessionManager) List(ctx context.Context, userID uuid.UUID) ([]*domain.UserSession, error) {
	return m.store.ListActiveByUser(ctx, userID, time.Now())
}

// Revoke ends a single session by id.
func (m *SessionManager) Revoke(ctx context.Context, id uuid.UUID) error {
	return m.store.Deactivate(ctx, id)
}

// RevokeByToken ends the session behind a refresh token. Revoking an already
// dead token is a no-op.
func (m *SessionManager) RevokeByToken(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	return m.store.DeactivateByTokenHash(ctx, userID, HashToken(refreshToken))
}

// RevokeAll ends every live session for a user.
func (m *SessionManager) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return m.store.DeactivateAllByUser(ctx, userID)
}
