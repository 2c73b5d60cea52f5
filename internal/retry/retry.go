// Package retry provides a typed retry policy with exponential backoff.
// Failures are tagged transient or terminal by the caller; only transient
// failures are retried, and retry exhaustion is an explicit error carrying
// the last failure.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMaxAttemptsExceeded is returned when every attempt failed transiently.
	ErrMaxAttemptsExceeded = errors.New("max retry attempts exceeded")
	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled during retry")
)

// TransientError marks a failure that is expected to clear on its own, such
// as rate limiting or a gateway timeout. Any other error is terminal.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err so the retry loop treats it as retryable.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err is tagged as transient.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// Config configures retry behavior.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the backoff base: the sleep after attempt i (0-based)
	// is BaseDelay * 2^i.
	BaseDelay time.Duration
	// MaxDelay caps the backoff sleep. Zero means no cap.
	MaxDelay time.Duration
	// Sleep is the waiting function, injectable for tests. When nil, a
	// context-aware time.After is used.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultConfig returns the default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
	case <-time.After(d):
		return nil
	}
}

// Do runs fn until it succeeds, returns a terminal error, or exhausts
// cfg.MaxAttempts. A nil return from fn is success. A transient error (see
// Transient) triggers a backoff sleep and another attempt; any other error
// is returned immediately. After exhaustion the returned error wraps both
// ErrMaxAttemptsExceeded and the last transient failure.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		}

		err := fn()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		lastErr = err

		// No sleep after the final attempt.
		if attempt < cfg.MaxAttempts-1 {
			delay := cfg.BaseDelay << uint(attempt)
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
			if sleepErr := sleep(ctx, delay); sleepErr != nil {
				return sleepErr
			}
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrMaxAttemptsExceeded, cfg.MaxAttempts, lastErr)
}
