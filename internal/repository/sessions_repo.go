package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// SessionsRepository handles user session persistence. Sessions are keyed by
// the SHA-256 hash of the refresh token; the raw token is never stored.
type SessionsRepository struct {
	db *sql.DB
}

// NewSessionsRepository creates a new sessions repository.
func NewSessionsRepository(db *sql.DB) *SessionsRepository {
	return &SessionsRepository{db: db}
}

const sessionColumns = `id, user_id, token_hash, device_info, ip_address, is_active, expires_at, created_at`

// Create inserts a new session row.
func (r *SessionsRepository) Create(ctx context.Context, session *domain.UserSession) error {
	query := `
		INSERT INTO user_sessions (id, user_id, token_hash, device_info, ip_address, is_active, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.TokenHash, session.DeviceInfo,
		session.IPAddress, session.Active, session.ExpiresAt, session.CreatedAt,
	)
	return err
}

// GetActiveByTokenHash retrieves the active, unexpired session for a user
// matching the token hash.
func (r *SessionsRepository) GetActiveByTokenHash(ctx context.Context, userID uuid.UUID, tokenHash string, now time.Time) (*domain.UserSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM user_sessions
		WHERE user_id = $1 AND token_hash = $2 AND is_active = TRUE AND expires_at > $3
	`
	session := &domain.UserSession{}
	err := r.db.QueryRowContext(ctx, query, userID, tokenHash, now).Scan(
		&session.ID, &session.UserID, &session.TokenHash, &session.DeviceInfo,
		&session.IPAddress, &session.Active, &session.ExpiresAt, &session.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ListActiveByUser returns all active, unexpired sessions for a user, newest
// first.
func (r *SessionsRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.UserSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM user_sessions
		WHERE user_id = $1 AND is_active = TRUE AND expires_at > $2
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.UserSession
	for rows.Next() {
		session := &domain.UserSession{}
		err := rows.Scan(
			&session.ID, &session.UserID, &session.TokenHash, &session.DeviceInfo,
			&session.IPAddress, &session.Active, &session.ExpiresAt, &session.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// Deactivate revokes a single session. Revocation is irreversible for the
// row; a later login opens a new row.
func (r *SessionsRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE user_sessions
		SET is_active = FALSE
		WHERE id = $1 AND is_active = TRUE
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// DeactivateByTokenHash revokes the session matching a token hash, if any.
func (r *SessionsRepository) DeactivateByTokenHash(ctx context.Context, userID uuid.UUID, tokenHash string) error {
	query := `
		UPDATE user_sessions
		SET is_active = FALSE
		WHERE user_id = $1 AND token_hash = $2 AND is_active = TRUE
	`
	_, err := r.db.ExecContext(ctx, query, userID, tokenHash)
	return err
}

// DeactivateAllByUser revokes every active session for a user.
func (r *SessionsRepository) DeactivateAllByUser(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE user_sessions
		SET is_active = FALSE
		WHERE user_id = $1 AND is_active = TRUE
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
