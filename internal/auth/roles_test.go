package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/storefront-service/internal/domain"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

func newAdminApp(t *testing.T, tm *TokenManager, users *fakeUsers) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	gate := NewAuthMiddleware(tm, users, nil)
	authz := NewAuthorizer(users, 0)
	app.Get("/me", gate.Handle, authz.RequireAdmin(), func(c *fiber.Ctx) error {
		user, _ := IdentityFromContext(c.UserContext())
		return c.JSON(fiber.Map{"id": user.ID, "admin": user.IsAdmin})
	})
	return app
}

func TestRequireAdmin(t *testing.T) {
	tm := newTestTokenManager(t, "secret")
	users := newFakeUsers(
		&domain.User{ID: "admin", IsAdmin: true},
		&domain.User{ID: "shopper"},
	)
	app := newAdminApp(t, tm, users)

	adminToken, _, err := tm.Issue("admin")
	require.NoError(t, err)
	shopperToken, _, err := tm.Issue("shopper")
	require.NoError(t, err)

	status, body := doGet(t, app, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["admin"])

	status, body = doGet(t, app, "Bearer "+shopperToken)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Forbidden", body["message"])
}

func TestRequireAdminSeesRevokedPrivilege(t *testing.T) {
	tm := newTestTokenManager(t, "secret")
	users := newFakeUsers(&domain.User{ID: "admin", IsAdmin: true})
	app := newAdminApp(t, tm, users)

	token, _, err := tm.Issue("admin")
	require.NoError(t, err)

	status, _ := doGet(t, app, "Bearer "+token)
	require.Equal(t, http.StatusOK, status)

	users.mu.Lock()
	users.users["admin"].IsAdmin = false
	users.mu.Unlock()

	status, _ = doGet(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCheckAdmin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("no identity", func(t *testing.T) {
		_, err := NewAuthorizer(newFakeUsers(), 0).CheckAdmin(ctx, nil)
		assert.Equal(t, http.StatusUnauthorized, apperrors.ToDomainError(err).HTTPStatus)
	})

	t.Run("identity deleted since the gate ran", func(t *testing.T) {
		_, err := NewAuthorizer(newFakeUsers(), 0).CheckAdmin(ctx, &domain.User{ID: "gone", IsAdmin: true})
		de := apperrors.ToDomainError(err)
		assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
		assert.Equal(t, "User not found", de.Message)
	})

	t.Run("stale flag in the identity is ignored", func(t *testing.T) {
		users := newFakeUsers(&domain.User{ID: "u1", IsAdmin: false})
		_, err := NewAuthorizer(users, 0).CheckAdmin(ctx, &domain.User{ID: "u1", IsAdmin: true})
		assert.Equal(t, http.StatusForbidden, apperrors.ToDomainError(err).HTTPStatus)
	})

	t.Run("lookup failure", func(t *testing.T) {
		users := newFakeUsers()
		users.err = errors.New("timeout")
		_, err := NewAuthorizer(users, 0).CheckAdmin(ctx, &domain.User{ID: "u1"})
		assert.Equal(t, http.StatusInternalServerError, apperrors.ToDomainError(err).HTTPStatus)
	})
}
