// Package resilience wraps calls to the row store and the selfie bucket in
// circuit breakers and retries.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/liftmate/liftmate/pkg/logger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned when a breaker rejects a call
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Settings tunes a circuit breaker. Zero fields take the row store defaults:
// counts reset every minute, five straight failures open the breaker for
// 30 seconds and one probe closes it again.
type Settings struct {
	Name             string
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
	SuccessThreshold uint32
}

func (s Settings) withDefaults() Settings {
	if s.Interval <= 0 {
		s.Interval = time.Minute
	}
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.SuccessThreshold == 0 {
		s.SuccessThreshold = 1
	}
	return s
}

// Breaker is a named gobreaker instance that records Prometheus metrics
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker creates a breaker that opens after FailureThreshold consecutive failures.
// Errors for which isSuccessful returns true do not count as failures.
func NewBreaker(s Settings, isSuccessful func(error) bool) *Breaker {
	s = s.withDefaults()
	name := nextBreakerName(s.Name)
	b := &Breaker{name: name}

	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: s.SuccessThreshold,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			recordBreakerStateChange(name, from, to)
		},
		IsSuccessful: isSuccessful,
	})
	recordBreakerState(name, gobreaker.StateClosed)

	return b
}

// Name returns the breaker name used in metrics
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current breaker state
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Execute runs fn through the breaker. When the breaker is open the fallback
// runs instead; a nil fallback yields ErrCircuitOpen.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) (interface{}, error), fallback FallbackFunc) (interface{}, error) {
	recordBreakerRequest(b.name)

	res, err := b.cb.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	if err == nil {
		return res, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		recordBreakerFallback(b.name)
		if fallback == nil {
			return nil, ErrCircuitOpen
		}
		return fallback(ctx, err)
	}

	recordBreakerFailure(b.name)
	return nil, err
}
