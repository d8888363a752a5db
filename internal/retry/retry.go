// Package retry runs an operation under a bounded retry policy with a
// pluggable error classifier and backoff.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

const DefaultMaxAttempts = 3

// Policy decides how often and when an operation is retried. The zero
// value retries nothing.
type Policy struct {
	MaxAttempts int
	Retryable   func(error) bool
	Backoff     func(attempt int) time.Duration
	Sleep       func(ctx context.Context, d time.Duration) error
	// OnRetry is called before each backoff sleep.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// ExponentialJitter returns 2^attempt seconds plus up to one second of jitter.
// attempt starts at 0.
func ExponentialJitter(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	return base + time.Duration(rand.Int63n(int64(time.Second)))
}

// Do calls fn until it succeeds, returns a non-retryable error or the
// attempts run out. The last error is returned unchanged.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := p.Backoff
	if backoff == nil {
		backoff = ExponentialJitter
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if p.Retryable == nil || !p.Retryable(err) || attempt == attempts-1 {
			return zero, err
		}

		wait := backoff(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, wait, err)
		}
		if err := sleep(ctx, wait); err != nil {
			return zero, fmt.Errorf("retry: cancelled after %d attempts: %w", attempt+1, err)
		}
	}
	return zero, lastErr
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
