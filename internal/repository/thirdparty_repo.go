package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// ThirdPartyRepository handles provider identity links.
type ThirdPartyRepository struct {
	db *sql.DB
}

// NewThirdPartyRepository creates a new third-party auth repository.
func NewThirdPartyRepository(db *sql.DB) *ThirdPartyRepository {
	return &ThirdPartyRepository{db: db}
}

// Create inserts a new provider link. A unique violation on
// (provider, provider_user_id) means the identity is already bound.
func (r *ThirdPartyRepository) Create(ctx context.Context, link *domain.ThirdPartyAuth) error {
	query := `
		INSERT INTO third_party_auths (id, user_id, provider, provider_user_id, provider_username, provider_email, provider_avatar, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		link.ID, link.UserID, link.Provider, link.ProviderUserID,
		link.Username, link.Email, link.AvatarURL, link.Active,
		link.CreatedAt, link.UpdatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrIdentityAlreadyLinked
	}
	return err
}

// GetActiveByProviderIdentity returns the active link for a provider
// identity, or ErrUserNotFound when the identity is unbound.
func (r *ThirdPartyRepository) GetActiveByProviderIdentity(ctx context.Context, provider, providerUserID string) (*domain.ThirdPartyAuth, error) {
	query := `
		SELECT id, user_id, provider, provider_user_id, provider_username, provider_email, provider_avatar, is_active, created_at, updated_at
		FROM third_party_auths
		WHERE provider = $1 AND provider_user_id = $2 AND is_active = TRUE
	`
	link := &domain.ThirdPartyAuth{}
	err := r.db.QueryRowContext(ctx, query, provider, providerUserID).Scan(
		&link.ID, &link.UserID, &link.Provider, &link.ProviderUserID,
		&link.Username, &link.Email, &link.AvatarURL, &link.Active,
		&link.CreatedAt, &link.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

// DeactivateByUserAndProvider unlinks a provider identity from a user.
// Returns ErrUserNotFound when no active link for the provider exists.
func (r *ThirdPartyRepository) DeactivateByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) error {
	query := `
		UPDATE third_party_auths
		SET is_active = FALSE, updated_at = $3
		WHERE user_id = $1 AND provider = $2 AND is_active = TRUE
	`
	result, err := r.db.ExecContext(ctx, query, userID, provider, time.Now())
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
