package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// VerificationCodesRepository handles verification code persistence. Rows are
// retained for audit: state transitions flip is_used or bump attempts, never
// delete.
type VerificationCodesRepository struct {
	db *sql.DB
}

// NewVerificationCodesRepository creates a new verification codes repository.
func NewVerificationCodesRepository(db *sql.DB) *VerificationCodesRepository {
	return &VerificationCodesRepository{db: db}
}

const codeColumns = `id, identifier, code, code_type, is_used, attempts, max_attempts, region, expires_at, created_at`

func scanCode(row *sql.Row) (*domain.VerificationCode, error) {
	code := &domain.VerificationCode{}
	err := row.Scan(
		&code.ID, &code.Identifier, &code.Code, &code.Purpose, &code.Used,
		&code.Attempts, &code.MaxAttempts, &code.Region, &code.ExpiresAt, &code.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCodeInvalidOrExpired
	}
	if err != nil {
		return nil, err
	}
	return code, nil
}

// Replace invalidates all prior unused codes for the (identifier, purpose)
// pair and inserts the new code, in one transaction, preserving the
// at-most-one-active-code invariant under concurrent issues.
func (r *VerificationCodesRepository) Replace(ctx context.Context, code *domain.VerificationCode) error {
	return Tx(ctx, r.db, func(tx *sql.Tx) error {
		invalidate := `
			UPDATE verification_codes
			SET is_used = TRUE
			WHERE identifier = $1 AND code_type = $2 AND is_used = FALSE
		`
		if _, err := tx.ExecContext(ctx, invalidate, code.Identifier, code.Purpose); err != nil {
			return err
		}

		insert := `
			INSERT INTO verification_codes (id, identifier, code, code_type, is_used, attempts, max_attempts, region, expires_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := tx.ExecContext(ctx, insert,
			code.ID, code.Identifier, code.Code, code.Purpose, code.Used,
			code.Attempts, code.MaxAttempts, code.Region, code.ExpiresAt, code.CreatedAt,
		)
		return err
	})
}

// LatestActive returns the most recent unused, unexpired code for the pair.
func (r *VerificationCodesRepository) LatestActive(ctx context.Context, identifier string, purpose domain.CodePurpose, now time.Time) (*domain.VerificationCode, error) {
	query := `
		SELECT ` + codeColumns + `
		FROM verification_codes
		WHERE identifier = $1 AND code_type = $2 AND is_used = FALSE AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanCode(r.db.QueryRowContext(ctx, query, identifier, purpose, now))
}

// IssuedSince reports whether any code for the pair was created after the
// given instant, used or not. Backs the 60-second issue rate limit.
func (r *VerificationCodesRepository) IssuedSince(ctx context.Context, identifier string, purpose domain.CodePurpose, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM verification_codes
			WHERE identifier = $1 AND code_type = $2 AND created_at > $3
		)
	`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, identifier, purpose, since).Scan(&exists)
	return exists, err
}

// IncrementAttempts bumps the attempt counter of a specific unused code and
// returns the new count.
func (r *VerificationCodesRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		UPDATE verification_codes
		SET attempts = attempts + 1
		WHERE id = $1 AND is_used = FALSE
		RETURNING attempts
	`
	var attempts int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrCodeInvalidOrExpired
	}
	return attempts, err
}

// IncrementLatestAttempts bumps the attempt counter of the latest unused code
// for the pair, if one exists. Used for audit when a presented code matches
// no active row.
func (r *VerificationCodesRepository) IncrementLatestAttempts(ctx context.Context, identifier string, purpose domain.CodePurpose) error {
	query := `
		UPDATE verification_codes
		SET attempts = attempts + 1
		WHERE id = (
			SELECT id FROM verification_codes
			WHERE identifier = $1 AND code_type = $2 AND is_used = FALSE
			ORDER BY created_at DESC
			LIMIT 1
		)
	`
	_, err := r.db.ExecContext(ctx, query, identifier, purpose)
	return err
}

// Consume marks a code used. Returns false if it was already consumed, so
// concurrent verifies of the same code succeed at most once.
func (r *VerificationCodesRepository) Consume(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE verification_codes
		SET is_used = TRUE
		WHERE id = $1 AND is_used = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
