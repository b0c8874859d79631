package auth

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/storefront-service/internal/domain"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// Authorizer gates privileged operations. The privilege flag is re-read from storage on
// every call so that revoking admin rights takes effect without a new login.
type Authorizer struct {
	users         UserLookup
	lookupTimeout time.Duration
}

// NewAuthorizer constructs an Authorizer.
func NewAuthorizer(users UserLookup, lookupTimeout time.Duration) *Authorizer {
	return &Authorizer{users: users, lookupTimeout: lookupTimeout}
}

// CheckAdmin returns the current state of identity if it is an administrator.
func (a *Authorizer) CheckAdmin(ctx context.Context, identity *domain.User) (*domain.User, error) {
	if identity == nil {
		return nil, apperrors.NewUnauthorized()
	}

	lookupCtx, cancel := withOptionalTimeout(ctx, a.lookupTimeout)
	defer cancel()

	current, err := a.users.GetByID(lookupCtx, identity.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("User", nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !current.IsAdmin {
		return nil, apperrors.NewForbidden()
	}
	return current, nil
}

// RequireAdmin ensures the authenticated caller is an administrator. It must run after
// AuthMiddleware.Handle.
func (a *Authorizer) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		identity, ok := IdentityFromContext(ctx)
		if !ok {
			return apperrors.NewUnauthorized()
		}
		current, err := a.CheckAdmin(ctx, identity)
		if err != nil {
			return err
		}
		c.SetUserContext(WithIdentity(ctx, current))
		return c.Next()
	}
}
