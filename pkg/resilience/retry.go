package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryConfig controls Retry
type RetryConfig struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	EnableJitter      bool
	// IsRetryable decides whether an error is worth another attempt.
	// Nil retries everything except context and breaker errors.
	IsRetryable func(error) bool
}

// DefaultRetryConfig is used for selfie uploads
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    200 * time.Millisecond,
		MaxBackoff:        2 * time.Second,
		BackoffMultiplier: 2.0,
		EnableJitter:      true,
	}
}

// Retry runs op until it succeeds, returns a non retryable error or runs out of attempts
func Retry(ctx context.Context, cfg RetryConfig, op func(context.Context) (interface{}, error)) (interface{}, error) {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		res, err := op(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if attempt == attempts || !shouldRetry(err, cfg) {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(calculateBackoff(attempt, cfg)):
		}
	}

	return nil, lastErr
}

func shouldRetry(err error, cfg RetryConfig) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrCircuitOpen) {
		return false
	}
	if cfg.IsRetryable != nil {
		return cfg.IsRetryable(err)
	}
	return true
}

func calculateBackoff(attempt int, cfg RetryConfig) time.Duration {
	backoff := float64(cfg.InitialBackoff) * math.Pow(cfg.BackoffMultiplier, float64(attempt-1))
	if ceiling := float64(cfg.MaxBackoff); cfg.MaxBackoff > 0 && backoff > ceiling {
		backoff = ceiling
	}
	d := time.Duration(backoff)
	if cfg.EnableJitter {
		d = addJitter(d)
	}
	return d
}

// addJitter spreads d by up to 25% either way
func addJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	spread := float64(d) * 0.25
	return time.Duration(float64(d) - spread + rand.Float64()*2*spread)
}
