package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is wrapped by lookups of unknown datasets.
	ErrNotFound = errors.New("not found")

	// ErrNetwork marks a cache backend that could not be reached.
	ErrNetwork = errors.New("network error")
)

// Backoff used by RetryWithBackoff. Redis failures are usually a restart or
// a failover, which settles within a few seconds.
var (
	retryAttempts = 3
	retryDelay    = time.Second
)

// RetryableError marks a cache failure worth another attempt.
type RetryableError struct{ Err error }

// Retryable wraps err so that RetryWithBackoff retries it. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff runs fn until it succeeds, fails with an error not
// wrapped by Retryable, or runs out of attempts. The delay doubles after
// every retryable failure.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}
