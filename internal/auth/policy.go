package auth

import (
	"context"

	"github.com/google/uuid"
)

// Actions submitted to the access policy.
const (
	ActionLogin   = "login"
	ActionRefresh = "refresh"
)

// AccessPolicy decides whether a user may perform an action. The product has
// no roles today, so the default permits everything; deployments with
// entitlement rules implement this without touching the flows.
type AccessPolicy interface {
	Allow(ctx context.Context, userID uuid.UUID, action string) (bool, error)
}

// AllowAll is the default policy: every action is permitted.
type AllowAll struct{}

func (AllowAll) Allow(ctx context.Context, userID uuid.UUID, action string) (bool, error) {
	return true, nil
}

// AccessPolicyFunc adapts a function to the AccessPolicy interface.
type AccessPolicyFunc func(ctx context.Context, userID uuid.UUID, action string) (bool, error)

func (f AccessPolicyFunc) Allow(ctx context.Context, userID uuid.UUID, action string) (bool, error) {
	return f(ctx, userID, action)
}
