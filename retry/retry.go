// Package retry implements the bounded retry policy applied to every call
// against the hosted platform: exponential backoff with jitter, and a
// StopError escape hatch for errors that must not be retried.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Config controls retry behaviour.
type Config struct {
	MaxRetries int           // Retries after the initial attempt.
	BaseDelay  time.Duration // Delay before the first retry; doubles each attempt.
	MaxDelay   time.Duration // Upper bound on any single delay.
	Jitter     bool          // Add ±10% random jitter to each delay.
}

// DefaultConfig returns the policy used for platform calls: 3 retries,
// backoff starting at 1s, capped at 30s, with jitter.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Jitter:     true,
	}
}

// StopError wraps an error to signal that retrying should stop immediately.
// The platform client uses it for terminal failures such as 4xx responses
// and client-side validation errors.
type StopError struct {
	Err error
}

func (e *StopError) Error() string { return e.Err.Error() }
func (e *StopError) Unwrap() error { return e.Err }

// Stop wraps err so that Do returns it without further retries.
func Stop(err error) error {
	return &StopError{Err: err}
}

// sleeper is an interface for waiting, allowing tests to override time.After.
type sleeper interface {
	sleep(ctx context.Context, d time.Duration) error
}

type realSleeper struct{}

func (realSleeper) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do executes fn, retrying up to cfg.MaxRetries times with exponentially
// increasing delay between failures. It returns nil on the first successful
// call, or the last error unchanged once retries are exhausted. A StopError
// returned by fn ends the loop at once, surfacing the wrapped error. If the
// context is cancelled, ctx.Err() is returned immediately.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	return doWithSleeper(ctx, cfg, fn, realSleeper{})
}

func doWithSleeper(ctx context.Context, cfg Config, fn func() error, s sleeper) error {
	attempts := cfg.MaxRetries + 1

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var stop *StopError
		if errors.As(lastErr, &stop) {
			return stop.Err
		}

		if attempt < attempts-1 {
			if err := s.sleep(ctx, delayFor(cfg, attempt)); err != nil {
				return err
			}
		}
	}
	return lastErr
}

// delayFor computes the sleep duration before retry number attempt+1.
func delayFor(cfg Config, attempt int) time.Duration {
	delay := cfg.BaseDelay * (1 << attempt)
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	if cfg.Jitter && delay > 0 {
		// Uniform in [0.9*delay, 1.1*delay). Delays under 10ns have no
		// tenth to draw from and are returned as-is.
		if tenth := int64(delay) / 10; tenth > 0 {
			delay += time.Duration(rand.Int63n(2*tenth) - tenth)
		}
	}
	return delay
}
