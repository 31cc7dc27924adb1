package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/abhichtrvd/1goli-sub001/internal/domain"
	"github.com/abhichtrvd/1goli-sub001/internal/metrics"
)

// Resolver resolves a media reference to a URL.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// BreakerConfig holds circuit breaker and timeout settings.
type BreakerConfig struct {
	Name             string
	CallTimeout      time.Duration // per-resolution deadline; 0 disables
	MaxRequests      uint32        // requests allowed in half-open state
	Interval         time.Duration // closed-state count reset period
	OpenTimeout      time.Duration // open-state duration before half-open
	FailureThreshold float64       // failure ratio that trips the breaker
	MinRequests      uint32        // requests before the ratio is considered
}

// DefaultBreakerConfig returns the defaults used when config omits them.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "media-resolver",
		CallTimeout:      500 * time.Millisecond,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		OpenTimeout:      30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      10,
	}
}

// Guarded wraps a Resolver with a per-call timeout and a circuit breaker.
// An open breaker fails fast with domain.ErrMediaUnavailable.
type Guarded struct {
	next    Resolver
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewGuarded decorates next with cfg.
func NewGuarded(next Resolver, cfg BreakerConfig, logger *zap.Logger) *Guarded {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		// Unknown references and caller cancellation say nothing about resolver health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrMediaNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.MediaBreakerState.Set(float64(to))
			logger.Warn("Circuit breaker state changed",
				zap.String("circuit", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &Guarded{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
		timeout: cfg.CallTimeout,
	}
}

// Resolve runs the wrapped resolver through the breaker.
func (g *Guarded) Resolve(ctx context.Context, ref string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.Resolve(ctx, ref)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %w", domain.ErrMediaUnavailable, err)
		}
		return "", err
	}
	return out.(string), nil
}

// State returns the breaker state.
func (g *Guarded) State() gobreaker.State {
	return g.breaker.State()
}

// Check reports an open breaker as unhealthy.
func (g *Guarded) Check(_ context.Context) error {
	if g.breaker.State() == gobreaker.StateOpen {
		return domain.ErrMediaUnavailable
	}
	return nil
}
