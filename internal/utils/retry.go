package utils

import (
	"context"
	"time"
)

// RetryPolicy bounds how often and how patiently an operation is retried.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultImagePolicy is two attempts, three seconds apart.
var DefaultImagePolicy = RetryPolicy{MaxAttempts: 2, Backoff: 3 * time.Second}

// OnFailure is called after every failed attempt (1-based).
type OnFailure func(attempt int, err error)

// Attempt runs fn until it succeeds or the policy is exhausted. The backoff is
// only slept between attempts. It never returns an error: ok is false when every
// attempt failed or ctx was cancelled.
func Attempt[T any](ctx context.Context, policy RetryPolicy, fn func(context.Context) (T, error), onFailure OnFailure) (result T, ok bool) {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 1; i <= attempts; i++ {
		if ctx.Err() != nil {
			return result, false
		}
		v, err := fn(ctx)
		if err == nil {
			return v, true
		}
		if onFailure != nil {
			onFailure(i, err)
		}
		if i == attempts || policy.Backoff <= 0 {
			continue
		}
		timer := time.NewTimer(policy.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, false
		case <-timer.C:
		}
	}
	return result, false
}
