package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// AccountLocksRepository handles account lock persistence. Locks are
// additive: a new row per threshold breach, never an update of a prior lock.
type AccountLocksRepository struct {
	db *sql.DB
}

// NewAccountLocksRepository creates a new account locks repository.
func NewAccountLocksRepository(db *sql.DB) *AccountLocksRepository {
	return &AccountLocksRepository{db: db}
}

// Create inserts a new lock row.
func (r *AccountLocksRepository) Create(ctx context.Context, lock *domain.AccountLock) error {
	query := `
		INSERT INTO account_locks (id, user_id, lock_type, lock_reason, locked_until, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		lock.ID, lock.UserID, lock.LockType, lock.LockReason,
		lock.LockedUntil, lock.Active, lock.CreatedAt,
	)
	return err
}

// ActiveLock returns the active lock with the latest locked_until still in
// the future, or nil if the user is not locked. Expired rows are inert by
// construction; no sweeping job exists.
func (r *AccountLocksRepository) ActiveLock(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.AccountLock, error) {
	query := `
		SELECT id, user_id, lock_type, lock_reason, locked_until, is_active, created_at
		FROM account_locks
		WHERE user_id = $1 AND is_active = TRUE AND locked_until > $2
		ORDER BY locked_until DESC
		LIMIT 1
	`
	lock := &domain.AccountLock{}
	err := r.db.QueryRowContext(ctx, query, userID, now).Scan(
		&lock.ID, &lock.UserID, &lock.LockType, &lock.LockReason,
		&lock.LockedUntil, &lock.Active, &lock.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lock, nil
}
