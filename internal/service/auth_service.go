package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-service/internal/auth"
	"github.com/spec-kit/storefront-service/internal/config"
	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

const (
	msgMissingFields      = "Please enter all fields"
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgTooManyAttempts    = "Too many login attempts, try again later"
	msgPasswordTooLong    = "Password must be at most 72 bytes"

	// bcrypt only reads the first 72 bytes and rejects longer input.
	maxPasswordBytes = 72
)

// RegisterInput carries registration fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	hasher     *auth.Hasher
	tokenMgr   *auth.TokenManager
	throttle   *auth.LoginThrottle
	dispatcher events.Dispatcher
	logger     *zap.Logger

	// compared against when the email is unknown so both paths cost one bcrypt run
	dummyHash string
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Throttle   *auth.LoginThrottle
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service. It fails when the signing secret is missing.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) (*AuthService, error) {
	tokens, err := auth.NewTokenManager(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	hasher := auth.NewHasher(cfg.BcryptCost, cfg.HashConcurrency, cfg.HashTimeout())
	dummy, err := hasher.Hash(context.Background(), uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &AuthService{
		users:      deps.UserRepo,
		hasher:     hasher,
		tokenMgr:   tokens,
		throttle:   deps.Throttle,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		dummyHash:  dummy,
	}, nil
}

// Register creates a regular user account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.register(ctx, in, false)
}

// RegisterAdmin creates an administrator account.
func (s *AuthService) RegisterAdmin(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.register(ctx, in, true)
}

func (s *AuthService) register(ctx context.Context, in RegisterInput, admin bool) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, apperrors.NewBadRequest(msgMissingFields)
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, apperrors.NewBadRequest(msgPasswordTooLong)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict(msgUserExists, nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      admin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict(msgUserExists, nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserRegistered, "", user.ID,
		events.UserRegisteredPayload{Email: user.Email, IsAdmin: user.IsAdmin}))
	return user, nil
}

// Login authenticates a user and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", time.Time{}, apperrors.NewBadRequest(msgMissingFields)
	}
	if !s.throttle.Allowed(ctx, email) {
		return "", time.Time{}, apperrors.NewTooManyRequests(msgTooManyAttempts)
	}

	user, err := s.users.GetByEmail(ctx, email)
	hash := s.dummyHash
	switch {
	case err == nil:
		hash = user.PasswordHash
	case !errors.Is(err, pgx.ErrNoRows):
		return "", time.Time{}, apperrors.NewInternalError(err)
	}

	ok, err := s.hasher.Verify(ctx, password, hash)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	if !ok || user == nil {
		s.throttle.RecordFailure(ctx, email)
		return "", time.Time{}, apperrors.NewBadRequest(msgInvalidCredentials)
	}
	s.throttle.Reset(ctx, email)

	token, exp, err := s.tokenMgr.Issue(user.ID)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}

// EnsureAdmin creates the bootstrap administrator unless the email is already registered.
func (s *AuthService) EnsureAdmin(ctx context.Context, seed config.AdminSeed) error {
	if !seed.Enabled() {
		return nil
	}
	existing, err := s.users.GetByEmail(ctx, normalizeEmail(seed.Email))
	if err == nil {
		if !existing.IsAdmin {
			s.logger.Warn("bootstrap admin email belongs to a non-admin user", zap.String("user_id", existing.ID))
		}
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	user, err := s.RegisterAdmin(ctx, RegisterInput{Name: seed.Name, Email: seed.Email, Password: seed.Password})
	if err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("user_id", user.ID))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
