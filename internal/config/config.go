package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret            string
	BcryptCost           int
	HashConcurrency      int
	HashTimeoutSeconds   int
	LookupTimeoutSeconds int
	LoginMaxAttempts     int
	LoginWindowSeconds   int
	BootstrapAdmin       AdminSeed
}

// AdminSeed describes an optional administrator created at startup.
type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

// Enabled reports whether a bootstrap admin was configured.
func (s AdminSeed) Enabled() bool {
	return s.Email != "" && s.Password != ""
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

var (
	ErrMissingJWTSecret   = errors.New("AUTH_JWT_SECRET is required")
	ErrMissingPostgresDSN = errors.New("POSTGRES_DSN is required")
)

// Load reads configuration from environment variables, applying defaults where possible.
// The returned config has been validated.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "storefront-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", getEnv("PORT", "3000")),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:            getEnv("AUTH_JWT_SECRET", os.Getenv("SECRET_KEY")),
			BcryptCost:           getEnvAsInt("AUTH_BCRYPT_COST", 12),
			HashConcurrency:      getEnvAsInt("AUTH_HASH_CONCURRENCY", runtime.NumCPU()),
			HashTimeoutSeconds:   getEnvAsInt("AUTH_HASH_TIMEOUT_SECONDS", 5),
			LookupTimeoutSeconds: getEnvAsInt("AUTH_LOOKUP_TIMEOUT_SECONDS", 3),
			LoginMaxAttempts:     getEnvAsInt("AUTH_LOGIN_MAX_ATTEMPTS", 5),
			LoginWindowSeconds:   getEnvAsInt("AUTH_LOGIN_WINDOW_SECONDS", 900),
			BootstrapAdmin: AdminSeed{
				Name:     getEnv("AUTH_BOOTSTRAP_ADMIN_NAME", "admin"),
				Email:    os.Getenv("AUTH_BOOTSTRAP_ADMIN_EMAIL"),
				Password: os.Getenv("AUTH_BOOTSTRAP_ADMIN_PASSWORD"),
			},
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot safely start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}
	if c.Postgres.DSN == "" {
		errs = append(errs, ErrMissingPostgresDSN)
	}
	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// HashTimeout bounds a single hash or verify call.
func (a AuthConfig) HashTimeout() time.Duration {
	return seconds(a.HashTimeoutSeconds)
}

// LookupTimeout bounds the identity lookups made by the auth gate.
func (a AuthConfig) LookupTimeout() time.Duration {
	return seconds(a.LookupTimeoutSeconds)
}

// LoginWindow is the period over which failed logins are counted.
func (a AuthConfig) LoginWindow() time.Duration {
	return seconds(a.LoginWindowSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
