package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-service/internal/domain"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// UserLookup loads users by id. It returns pgx.ErrNoRows when the user does not exist.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// FailureRecorder counts rejected requests by reason.
type FailureRecorder interface {
	RecordAuthFailure(reason domain.AuthFailure)
}

// AuthMiddleware validates bearer tokens and loads the calling user.
type AuthMiddleware struct {
	tokens        *TokenManager
	users         UserLookup
	logger        *zap.Logger
	failures      FailureRecorder
	lookupTimeout time.Duration
}

// MiddlewareOption customizes an AuthMiddleware.
type MiddlewareOption func(*AuthMiddleware)

// WithFailureRecorder reports each rejection reason to r.
func WithFailureRecorder(r FailureRecorder) MiddlewareOption {
	return func(m *AuthMiddleware) { m.failures = r }
}

// WithLookupTimeout bounds the user lookup made for each request.
func WithLookupTimeout(d time.Duration) MiddlewareOption {
	return func(m *AuthMiddleware) { m.lookupTimeout = d }
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users UserLookup, logger *zap.Logger, opts ...MiddlewareOption) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &AuthMiddleware{tokens: tokens, users: users, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return m.reject(c, domain.AuthFailureNoToken)
	}

	subjectID, err := m.tokens.Verify(token)
	if errors.Is(err, ErrTokenExpired) {
		return m.reject(c, domain.AuthFailureExpiredToken)
	}
	if err != nil {
		return m.reject(c, domain.AuthFailureInvalidToken)
	}

	ctx := c.UserContext()
	lookupCtx, cancel := withOptionalTimeout(ctx, m.lookupTimeout)
	defer cancel()

	user, err := m.users.GetByID(lookupCtx, subjectID)
	if errors.Is(err, pgx.ErrNoRows) {
		return m.reject(c, domain.AuthFailureUnknownSubject)
	}
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	c.SetUserContext(WithIdentity(ctx, user))
	return c.Next()
}

func (m *AuthMiddleware) reject(c *fiber.Ctx, reason domain.AuthFailure) error {
	if m.failures != nil {
		m.failures.RecordAuthFailure(reason)
	}
	m.logger.Debug("request rejected",
		zap.String("reason", string(reason)),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()))
	return apperrors.NewUnauthorized()
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
