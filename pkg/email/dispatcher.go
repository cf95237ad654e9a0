package email

import (
	"anduber-forms-backend/pkg/logger"
	"anduber-forms-backend/pkg/metrics"
	"anduber-forms-backend/pkg/retry"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// DispatcherConfig tunes retries, per-attempt timeout and the circuit breaker.
type DispatcherConfig struct {
	Policy             retry.Policy
	AttemptTimeout     time.Duration
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		Policy:             retry.DefaultPolicy(),
		AttemptTimeout:     10 * time.Second,
		BreakerMaxFailures: 5,
		BreakerTimeout:     30 * time.Second,
	}
}

// Dispatcher delivers composed messages through a Provider with bounded
// retry. A nil provider means email is not configured.
type Dispatcher struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker
	policy   retry.Policy
	timeout  time.Duration
}

func NewDispatcher(provider Provider, cfg DispatcherConfig) *Dispatcher {
	d := &Dispatcher{
		provider: provider,
		policy:   cfg.Policy,
		timeout:  cfg.AttemptTimeout,
	}
	if provider == nil {
		return d
	}

	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	d.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "email-" + provider.Name(),
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Log.Warn("Email circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return d
}

// IsConfigured reports whether a provider is wired in.
func (d *Dispatcher) IsConfigured() bool {
	return d.provider != nil
}

// ProviderName returns the provider name, or "none".
func (d *Dispatcher) ProviderName() string {
	if d.provider == nil {
		return "none"
	}
	return d.provider.Name()
}

// Send delivers msg. It never returns an error; the result carries the
// failure and the number of provider calls made.
func (d *Dispatcher) Send(ctx context.Context, msg Message) DispatchResult {
	if d.provider == nil {
		logger.Log.Error("Email provider is not configured, message will NOT be sent", "subject", msg.Subject)
		return failed(ErrNotConfigured, 0)
	}

	start := time.Now()
	attempts := 0

	id, err := retry.Do(ctx, d.policy, func(ctx context.Context, attempt int) (string, error) {
		attempts = attempt
		return d.attempt(ctx, msg)
	}, func(attempt int, err error, wait time.Duration) {
		logger.Log.Warn("Email attempt failed, retrying",
			"provider", d.provider.Name(),
			"attempt", attempt,
			"retry_in", wait.String(),
			"error", err,
		)
	})

	status := "success"
	if err != nil {
		status = "failed"
	}
	metrics.RecordEmailDispatchDuration(d.provider.Name(), status, time.Since(start))

	if err != nil {
		logger.Log.Error("Email dispatch failed after retries",
			"provider", d.provider.Name(),
			"attempts", attempts,
			"error", err,
		)
		return failed(err, attempts)
	}

	logger.Log.Info("Email dispatched", "provider", d.provider.Name(), "id", id, "attempts", attempts)
	return DispatchResult{Success: true, ID: id, Attempts: attempts}
}

func (d *Dispatcher) attempt(ctx context.Context, msg Message) (string, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	out, err := d.breaker.Execute(func() (interface{}, error) {
		return d.provider.Send(ctx, msg)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.IncrementEmailAttempt(d.provider.Name(), "breaker_open")
			return "", retry.Permanent(fmt.Errorf("breaker (%s): %w", d.breaker.Name(), err))
		}
		metrics.IncrementEmailAttempt(d.provider.Name(), "failed")
		return "", err
	}

	metrics.IncrementEmailAttempt(d.provider.Name(), "success")
	id, _ := out.(string)
	return id, nil
}
