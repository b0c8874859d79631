package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/storefront-service/internal/domain"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
	err   error
	calls int
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{users: map[string]*domain.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

type countingRecorder struct {
	mu      sync.Mutex
	reasons []domain.AuthFailure
}

func (r *countingRecorder) RecordAuthFailure(reason domain.AuthFailure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
}

func (r *countingRecorder) last() domain.AuthFailure {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.reasons) == 0 {
		return ""
	}
	return r.reasons[len(r.reasons)-1]
}

func testErrorHandler(c *fiber.Ctx, err error) error {
	de := apperrors.ToDomainError(err)
	return c.Status(de.HTTPStatus).JSON(fiber.Map{"message": de.Message})
}

func newGateApp(t *testing.T, tm *TokenManager, users *fakeUsers, rec *countingRecorder) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	gate := NewAuthMiddleware(tm, users, nil, WithFailureRecorder(rec))
	app.Get("/me", gate.Handle, func(c *fiber.Ctx) error {
		user, ok := IdentityFromContext(c.UserContext())
		if !ok {
			return errors.New("identity missing")
		}
		return c.JSON(fiber.Map{"id": user.ID})
	})
	return app
}

func doGet(t *testing.T, app *fiber.App, header string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	tm := newTestTokenManager(t, "secret")
	users := newFakeUsers(&domain.User{ID: "u1", Email: "a@x.com"})
	app := newGateApp(t, tm, users, &countingRecorder{})

	token, _, err := tm.Issue("u1")
	require.NoError(t, err)

	status, body := doGet(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u1", body["id"])

	status, _ = doGet(t, app, "bearer "+token)
	assert.Equal(t, http.StatusOK, status)
}

func TestAuthMiddlewareRejectsMissingOrMalformedHeader(t *testing.T) {
	tm := newTestTokenManager(t, "secret")
	users := newFakeUsers(&domain.User{ID: "u1"})
	rec := &countingRecorder{}
	app := newGateApp(t, tm, users, rec)

	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic dXNlcjpwYXNz", "token-without-scheme"} {
		t.Run(header, func(t *testing.T) {
			status, body := doGet(t, app, header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, map[string]any{"message": "Unauthorized"}, body)
			assert.Equal(t, domain.AuthFailureNoToken, rec.last())
		})
	}
	assert.Zero(t, users.calls, "no lookup may happen without a token")
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	tm := newTestTokenManager(t, "secret")
	users := newFakeUsers(&domain.User{ID: "u1"})
	rec := &countingRecorder{}
	app := newGateApp(t, tm, users, rec)

	good, _, err := tm.Issue("u1")
	require.NoError(t, err)
	forged, _, err := newTestTokenManager(t, "other-secret").Issue("u1")
	require.NoError(t, err)

	for name, token := range map[string]string{
		"truncated": good[:len(good)-1],
		"forged":    forged,
		"garbage":   "abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			status, body := doGet(t, app, "Bearer "+token)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "Unauthorized", body["message"])
			assert.Equal(t, domain.AuthFailureInvalidToken, rec.last())
		})
	}
	assert.Zero(t, users.calls)
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	tm := newTestTokenManager(t, "secret")
	rec := &countingRecorder{}
	app := newGateApp(t, tm, newFakeUsers(&domain.User{ID: "u1"}), rec)

	issuer := newTestTokenManager(t, "secret")
	issuer.now = func() time.Time { return time.Now().Add(-2 * TokenTTL) }
	token, _, err := issuer.Issue("u1")
	require.NoError(t, err)

	status, body := doGet(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["message"])
	assert.Equal(t, domain.AuthFailureExpiredToken, rec.last())
}

func TestAuthMiddlewareRejectsDeletedUser(t *testing.T) {
	tm := newTestTokenManager(t, "secret")
	rec := &countingRecorder{}
	app := newGateApp(t, tm, newFakeUsers(), rec)

	token, _, err := tm.Issue("gone")
	require.NoError(t, err)

	status, body := doGet(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["message"])
	assert.Equal(t, domain.AuthFailureUnknownSubject, rec.last())
}

func TestAuthMiddlewareSurfacesLookupFailure(t *testing.T) {
	tm := newTestTokenManager(t, "secret")
	users := newFakeUsers(&domain.User{ID: "u1"})
	users.err = errors.New("connection reset by peer")
	rec := &countingRecorder{}
	app := newGateApp(t, tm, users, rec)

	token, _, err := tm.Issue("u1")
	require.NoError(t, err)

	status, body := doGet(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body["message"])
	assert.Empty(t, rec.reasons)
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"BEARER abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Token abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		token, ok := bearerToken(tc.header)
		assert.Equal(t, tc.ok, ok, tc.header)
		assert.Equal(t, tc.token, token, tc.header)
	}
}
