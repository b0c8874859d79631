package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginThrottle counts failed logins per email in Redis and blocks further attempts once
// the limit is reached within the window. Redis errors fail open.
type LoginThrottle struct {
	client      redis.UniversalClient
	maxAttempts int
	window      time.Duration
	prefix      string
	logger      *zap.Logger
}

// NewLoginThrottle builds a throttle. It returns nil, which disables throttling, when the
// client is nil or the limits are not positive.
func NewLoginThrottle(client redis.UniversalClient, maxAttempts int, window time.Duration, logger *zap.Logger) *LoginThrottle {
	if client == nil || maxAttempts <= 0 || window <= 0 {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginThrottle{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
		prefix:      "login:failures",
		logger:      logger,
	}
}

// Allowed reports whether another login attempt for email may proceed.
func (t *LoginThrottle) Allowed(ctx context.Context, email string) bool {
	if t == nil {
		return true
	}
	count, err := t.client.Get(ctx, t.key(email)).Int()
	if errors.Is(err, redis.Nil) {
		return true
	}
	if err != nil {
		t.logger.Warn("login throttle unavailable", zap.Error(err))
		return true
	}
	return count < t.maxAttempts
}

// recordFailureScript increments the counter and gives it a TTL whenever it has none, in
// one atomic step. A counter therefore never outlives its window.
var recordFailureScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RecordFailure counts a failed attempt. The window starts at the first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) {
	if t == nil {
		return
	}
	err := recordFailureScript.Run(ctx, t.client, []string{t.key(email)}, t.window.Milliseconds()).Err()
	if err != nil {
		t.logger.Warn("login throttle record failed", zap.Error(err))
	}
}

// Reset clears the failure count after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if t == nil {
		return
	}
	if err := t.client.Del(ctx, t.key(email)).Err(); err != nil {
		t.logger.Warn("login throttle reset failed", zap.Error(err))
	}
}

func (t *LoginThrottle) key(email string) string {
	return fmt.Sprintf("%s:%s", t.prefix, strings.ToLower(strings.TrimSpace(email)))
}
