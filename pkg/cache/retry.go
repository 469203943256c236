package cache

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure worth another attempt, such as a timeout or
// a 5xx response while fetching a report.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError. A nil error stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff configures Retry.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff makes three attempts, waiting 1s and then 2s.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second}

// Retry calls fn until it succeeds, returns a non-retryable error or the
// attempts run out. The delay doubles after each failure.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
