package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// ResetTokensRepository handles password reset token persistence. Only token
// hashes are stored.
type ResetTokensRepository struct {
	db *sql.DB
}

// NewResetTokensRepository creates a new reset tokens repository.
func NewResetTokensRepository(db *sql.DB) *ResetTokensRepository {
	return &ResetTokensRepository{db: db}
}

// Create inserts a new reset token record.
func (r *ResetTokensRepository) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, is_used, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.UserID, token.TokenHash, token.Used, token.ExpiresAt, token.CreatedAt,
	)
	return err
}

// Redeem consumes an unused, unexpired token by hash in a single conditional
// update, so a token is redeemable exactly once even under concurrent
// requests. Returns ErrResetTokenInvalid when no redeemable row matches.
func (r *ResetTokensRepository) Redeem(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordResetToken, error) {
	query := `
		UPDATE password_reset_tokens
		SET is_used = TRUE
		WHERE token_hash = $1 AND is_used = FALSE AND expires_at > $2
		RETURNING id, user_id, token_hash, is_used, expires_at, created_at
	`
	token := &domain.PasswordResetToken{}
	err := r.db.QueryRowContext(ctx, query, tokenHash, now).Scan(
		&token.ID, &token.UserID, &token.TokenHash, &token.Used, &token.ExpiresAt, &token.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrResetTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}
