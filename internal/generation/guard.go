package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskpilot-api/internal/platform/logger"
	"github.com/sony/gobreaker"
)

// GuardConfig bounds calls made through a guarded provider.
type GuardConfig struct {
	// Timeout is the deadline applied to every Generate call.
	Timeout time.Duration

	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32

	// OpenTimeout is how long the circuit stays open before a trial call is let through.
	OpenTimeout time.Duration
}

// GuardedProvider decorates a Provider with a deadline and a circuit breaker.
// It never retries.
type GuardedProvider struct {
	next    Provider
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

var _ Provider = (*GuardedProvider)(nil)

// NewGuardedProvider wraps next. Zero config values fall back to
// a 30s timeout, 5 failures and a 30s open period.
func NewGuardedProvider(next Provider, cfg GuardConfig, log *slog.Logger) (*GuardedProvider, error) {
	if next == nil {
		return nil, fmt.Errorf("%w: provider cannot be nil", ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	log = log.With(
		slog.String("component", "provider_guard"),
		slog.String("provider", next.Name()),
	)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// A caller going away says nothing about the backend's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("provider circuit state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return &GuardedProvider{
		next:    next,
		timeout: cfg.Timeout,
		breaker: breaker,
		logger:  log,
	}, nil
}

// Name implements Provider.
func (g *GuardedProvider) Name() string {
	return g.next.Name()
}

// Generate implements Provider.
func (g *GuardedProvider) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.Generate(callCtx, prompt)
	})
	elapsed := time.Since(start)

	if err != nil {
		classified := g.classify(ctx, callCtx, err)
		log.Warn("provider call failed",
			slog.String("provider", g.next.Name()),
			slog.Int64("duration_ms", elapsed.Milliseconds()),
			slog.String("error", classified.Error()))
		return "", classified
	}

	log.Debug("provider call succeeded",
		slog.String("provider", g.next.Name()),
		slog.Int64("duration_ms", elapsed.Milliseconds()))

	text, _ := out.(string)
	return text, nil
}

// State returns the current circuit state.
func (g *GuardedProvider) State() gobreaker.State {
	return g.breaker.State()
}

func (g *GuardedProvider) classify(parent, callCtx context.Context, err error) error {
	name := g.next.Name()

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return NewProviderError(name, "generate", ErrProviderUnavailable, err)
	}

	// Our own deadline fired while the caller was still waiting.
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return NewProviderError(name, "generate", ErrProviderTimeout,
			fmt.Errorf("no response within %s", g.timeout))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewProviderError(name, "generate", ErrProviderTimeout, err)
	}

	if IsProviderError(err) {
		return err
	}
	return NewProviderError(name, "generate", ErrProviderFailure, err)
}
