package auth

import (
	"context"

	"github.com/spec-kit/storefront-service/internal/domain"
)

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the authenticated user.
func WithIdentity(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, identityKey{}, user)
}

// IdentityFromContext retrieves the user attached by the auth gate.
func IdentityFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(identityKey{}).(*domain.User)
	return user, ok && user != nil
}
