// Package imagegen turns prompts into downloaded image artifacts.
//
// retry.go implements the bounded-retry combinator shared by the generation
// providers and the downloader.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMaxRetriesExceeded is returned when all retry attempts are exhausted.
var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	// MaxAttempts bounds how many times an operation runs, first try
	// included.
	MaxAttempts int
	// BaseDelay is the pause before the second attempt; it doubles after
	// every retryable failure.
	BaseDelay time.Duration
}

// DefaultRetryConfig returns sensible defaults for retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
	}
}

// RetryableError wraps an error with retry attempt information.
type RetryableError struct {
	Err         error
	Attempt     int
	MaxAttempts int
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("attempt %d/%d: %v", e.Attempt, e.MaxAttempts, e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// retryWithBackoff runs op until it succeeds, fails terminally, or exhausts
// cfg.MaxAttempts. op reports whether its failure merits another attempt;
// non-retryable errors return unchanged. Waits respect ctx cancellation.
func retryWithBackoff(ctx context.Context, cfg RetryConfig, op func() (retryable bool, err error)) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := cfg.BaseDelay

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		retryable, err := op()
		if err == nil {
			return nil
		}
		if !retryable {
			return err
		}
		lastErr = &RetryableError{Err: err, Attempt: attempt, MaxAttempts: attempts}

		// Don't sleep after the last attempt
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%w: %v", ErrMaxRetriesExceeded, lastErr)
}
