// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/autoban/internal/detection"
	"github.com/tomtom215/autoban/internal/logging"
	"github.com/tomtom215/autoban/internal/metrics"
)

// GuardConfig configures rate limiting and circuit breaking for a notifier.
type GuardConfig struct {
	// Rate is the sustained sends per second; Burst the bucket size.
	// Discord allows roughly 5 requests per 2 seconds per webhook.
	Rate  float64
	Burst int

	// ConsecutiveFailures opens the circuit; OpenTimeout is how long it
	// stays open before a half-open probe.
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// DefaultGuardConfig returns limits suitable for a Discord webhook.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		Rate:                2.5,
		Burst:               5,
		ConsecutiveFailures: 5,
		OpenTimeout:         time.Minute,
	}
}

// Guarded wraps a Notifier with a rate limiter and a circuit breaker.
type Guarded struct {
	next    Notifier
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[struct{}]
	name    string
}

// NewGuarded wraps n. Zero fields in cfg take their defaults.
func NewGuarded(n Notifier, cfg GuardConfig) *Guarded {
	def := DefaultGuardConfig()
	if cfg.Rate <= 0 {
		cfg.Rate = def.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = def.ConsecutiveFailures
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}

	name := "notify-" + n.Name()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation says nothing about the endpoint.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.RecordCircuitBreakerState(name, int(to), from.String(), to.String())
		},
	})

	return &Guarded{
		next:    n,
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		cb:      cb,
		name:    name,
	}
}

// Name returns the wrapped notifier's name.
func (g *Guarded) Name() string { return g.next.Name() }

// Enabled reports whether the wrapped notifier is enabled.
func (g *Guarded) Enabled() bool { return g.next.Enabled() }

// MinSeverity returns the wrapped notifier's minimum severity.
func (g *Guarded) MinSeverity() detection.Severity { return g.next.MinSeverity() }

// State returns the current circuit breaker state.
func (g *Guarded) State() gobreaker.State { return g.cb.State() }

// Send waits for a rate-limit token, then delivers through the breaker.
// While the circuit is open Send fails fast with gobreaker.ErrOpenState.
func (g *Guarded) Send(ctx context.Context, alert detection.Alert) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limit: %w", g.next.Name(), err)
	}

	_, err := g.cb.Execute(func() (struct{}, error) {
		return struct{}{}, g.next.Send(ctx, alert)
	})
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "failure").Inc()
	}
	return err
}
