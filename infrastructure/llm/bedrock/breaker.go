package bedrock

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/application/ports"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

// BreakerConfig holds configuration for the circuit breaker
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration

	// Trip once at least MinRequests were seen and the failure ratio
	// reaches FailureThreshold.
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the default configuration
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakingGenerator stops calling the model while it keeps failing
type BreakingGenerator struct {
	next ports.TextGenerator
	cb   *gobreaker.CircuitBreaker
}

// NewBreakingGenerator wraps next with a circuit breaker
func NewBreakingGenerator(next ports.TextGenerator, config BreakerConfig, logger *zap.Logger) *BreakingGenerator {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// A cancelled caller says nothing about the model's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &BreakingGenerator{next: next, cb: cb}
}

// Complete delegates to the wrapped generator unless the breaker is open
func (g *BreakingGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := g.cb.Execute(func() (interface{}, error) {
		return g.next.Complete(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", pkgerrors.NewUnavailableError(g.cb.Name()).WithCause(err)
		}
		return "", err
	}
	return out.(string), nil
}

// State reports the breaker state
func (g *BreakingGenerator) State() gobreaker.State {
	return g.cb.State()
}
