package auth

import (
	"context"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// ProviderClient exchanges a third-party authorization code for the
// provider's view of the user. Implementations wrap each provider's OAuth
// token and profile endpoints.
type ProviderClient interface {
	Exchange(ctx context.Context, provider, code, state string) (*domain.ProviderProfile, error)
}

// ProviderClientFunc adapts a function to the ProviderClient interface.
type ProviderClientFunc func(ctx context.Context, provider, code, state string) (*domain.ProviderProfile, error)

func (f ProviderClientFunc) Exchange(ctx context.Context, provider, code, state string) (*domain.ProviderProfile, error) {
	return f(ctx, provider, code, state)
}
