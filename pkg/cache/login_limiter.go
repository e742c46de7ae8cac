package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed logins per email in a fixed window.
// A nil client disables throttling.
type LoginLimiter struct {
	rdb         *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewLoginLimiter(rdb *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLimiter{rdb: rdb, maxAttempts: maxAttempts, window: window}
}

// incrementScript sets the expiry only on the first failure of a window.
const incrementScript = `
local c = redis.call("INCR", KEYS[1])
if c == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return c
`

// Allowed reports whether another attempt for email may be checked.
func (l *LoginLimiter) Allowed(ctx context.Context, email string) (bool, time.Duration, error) {
	if l.rdb == nil || l.maxAttempts <= 0 {
		return true, 0, nil
	}

	key := l.key(email)
	count, err := l.rdb.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return true, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("login limiter get: %w", err)
	}
	if count < l.maxAttempts {
		return true, 0, nil
	}

	ttl, err := l.rdb.PTTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = l.window
	}
	return false, ttl, nil
}

// Fail records one failed attempt and returns the count in the current window.
func (l *LoginLimiter) Fail(ctx context.Context, email string) (int, error) {
	if l.rdb == nil {
		return 0, nil
	}

	count, err := l.rdb.Eval(ctx, incrementScript, []string{l.key(email)}, l.window.Milliseconds()).Int()
	if err != nil {
		return 0, fmt.Errorf("login limiter incr: %w", err)
	}
	return count, nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	if l.rdb == nil {
		return nil
	}
	if err := l.rdb.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(email string) string {
	return "login:fail:" + strings.ToLower(strings.TrimSpace(email))
}
