package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// LoginAttemptsRepository handles the append-only login attempt audit log.
type LoginAttemptsRepository struct {
	db *sql.DB
}

// NewLoginAttemptsRepository creates a new login attempts repository.
func NewLoginAttemptsRepository(db *sql.DB) *LoginAttemptsRepository {
	return &LoginAttemptsRepository{db: db}
}

// Create appends a login attempt row. Rows are never mutated or deleted.
func (r *LoginAttemptsRepository) Create(ctx context.Context, attempt *domain.LoginAttempt) error {
	query := `
		INSERT INTO login_attempts (id, identifier, ip_address, user_agent, success, failure_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		attempt.ID, attempt.Identifier, attempt.IPAddress, attempt.UserAgent,
		attempt.Success, attempt.FailureReason, attempt.CreatedAt,
	)
	return err
}

// CountFailuresForIdentifiersSince counts failed attempts across any of the
// given identifiers (a user's username, email and phone) within the window.
func (r *LoginAttemptsRepository) CountFailuresForIdentifiersSince(ctx context.Context, identifiers []string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM login_attempts
		WHERE identifier = ANY($1) AND success = FALSE AND created_at > $2
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, pq.Array(identifiers), since).Scan(&count)
	return count, err
}

// LastSuccess returns the timestamp of the most recent successful attempt
// across the given identifiers, or nil if none exists.
func (r *LoginAttemptsRepository) LastSuccess(ctx context.Context, identifiers []string) (*time.Time, error) {
	query := `
		SELECT created_at
		FROM login_attempts
		WHERE identifier = ANY($1) AND success = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`
	var at time.Time
	err := r.db.QueryRowContext(ctx, query, pq.Array(identifiers)).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &at, nil
}
