package fakturoid

import (
	"context"
	"time"
)

// DefaultMaxRetries bounds WithRetry's rate-limit retries.
const DefaultMaxRetries = 3

// retrySleep is swapped out in tests to avoid real backoff waits.
var retrySleep = sleepContext

// WithRetry calls fn, retrying with exponential backoff (1s, 2s, 4s) when
// the error is a rate-limit rejection. Any other error is returned
// immediately; after maxRetries rate-limited attempts the last error is
// returned. maxRetries <= 0 falls back to DefaultMaxRetries.
func WithRetry[T any](ctx context.Context, fn func(ctx context.Context) (T, error), maxRetries int) (T, error) {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	var zero T
	for attempt := 0; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !IsRateLimited(err) || attempt >= maxRetries {
			return zero, err
		}

		backoff := time.Duration(1<<attempt) * time.Second
		if err := retrySleep(ctx, backoff); err != nil {
			return zero, err
		}
	}
}

// sleepContext sleeps for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
