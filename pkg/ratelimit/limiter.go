// Package ratelimit implements a Redis backed fixed window limiter.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/liftmate/liftmate/pkg/config"
	"github.com/redis/go-redis/v9"
)

// KEYS[1] counter key, ARGV[1] window in ms.
// Returns {count, ttl_ms}.
const fixedWindowScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`

// Result is the outcome of a single Allow call
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	Key        string
}

// Allower decides whether a client may perform another action in scope
type Allower interface {
	Allow(ctx context.Context, scope, identity string) (Result, error)
}

// Limiter is a fixed window counter stored in Redis
type Limiter struct {
	client redis.Scripter
	cfg    config.RateLimitConfig
	script *redis.Script
	now    func() time.Time
}

// NewLimiter creates a limiter over the given Redis client
func NewLimiter(client redis.Scripter, cfg config.RateLimitConfig) *Limiter {
	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = "rl"
	}
	return &Limiter{
		client: client,
		cfg:    cfg,
		script: redis.NewScript(fixedWindowScript),
		now:    time.Now,
	}
}

// WithNow overrides the clock, used by tests
func (l *Limiter) WithNow(now func() time.Time) *Limiter {
	l.now = now
	return l
}

func (l *Limiter) window() time.Duration {
	if l.cfg.WindowSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(l.cfg.WindowSeconds) * time.Second
}

// Key returns the Redis key for a scope and identity in the current window
func (l *Limiter) Key(scope, identity string) string {
	bucket := l.now().Unix() / int64(l.window()/time.Second)
	return fmt.Sprintf("%s:%s:%s:%d", l.cfg.RedisPrefix, scope, identity, bucket)
}

// Allow increments the counter for identity and reports whether it is still within the limit
func (l *Limiter) Allow(ctx context.Context, scope, identity string) (Result, error) {
	limit := l.cfg.PostLimit
	if !l.cfg.Enabled || limit <= 0 {
		return Result{Allowed: true, Limit: limit, Remaining: limit}, nil
	}

	key := l.Key(scope, identity)
	window := l.window()

	raw, err := l.script.Run(ctx, l.client, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(raw) != 2 {
		return Result{}, fmt.Errorf("rate limit script: unexpected reply %v", raw)
	}

	count, ttl := int(raw[0]), time.Duration(raw[1])*time.Millisecond
	if ttl < 0 {
		ttl = window
	}

	res := Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(limit-count, 0),
		Key:       key,
	}
	if !res.Allowed {
		res.RetryAfter = ttl
		if res.RetryAfter < time.Second {
			res.RetryAfter = time.Second
		}
	}
	return res, nil
}
