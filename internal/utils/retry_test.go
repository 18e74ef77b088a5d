package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttempt_FailsOnceThenSucceeds(t *testing.T) {
	calls := 0
	failures := 0
	got, ok := Attempt(context.Background(), RetryPolicy{MaxAttempts: 2, Backoff: time.Millisecond},
		func(context.Context) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("boom")
			}
			return "image", nil
		},
		func(int, error) { failures++ },
	)

	require.True(t, ok)
	assert.Equal(t, "image", got)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, failures)
}

func TestAttempt_AlwaysFails(t *testing.T) {
	calls := 0
	got, ok := Attempt(context.Background(), RetryPolicy{MaxAttempts: 2, Backoff: time.Millisecond},
		func(context.Context) (string, error) {
			calls++
			return "", errors.New("boom")
		}, nil)

	assert.False(t, ok)
	assert.Empty(t, got)
	assert.Equal(t, 2, calls)
}

func TestAttempt_ZeroAttemptsStillTriesOnce(t *testing.T) {
	calls := 0
	_, ok := Attempt(context.Background(), RetryPolicy{}, func(context.Context) (int, error) {
		calls++
		return 1, nil
	}, nil)

	assert.True(t, ok)
	assert.Equal(t, 1, calls)
}

func TestAttempt_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	start := time.Now()
	_, ok := Attempt(ctx, RetryPolicy{MaxAttempts: 3, Backoff: time.Minute}, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("boom")
	}, nil)

	assert.False(t, ok)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDetermineMIMEType(t *testing.T) {
	cases := map[string]string{
		"hero.png":   "image/png",
		"HERO.PNG":   "image/png",
		"about.webp": "image/webp",
		"g.gif":      "image/gif",
		"g.jpg":      "image/jpeg",
		"noext":      "image/jpeg",
	}
	for name, want := range cases {
		assert.Equal(t, want, DetermineMIMEType(name), name)
	}
}

func TestShouldRetryAndAuth(t *testing.T) {
	assert.False(t, ShouldRetry(nil))
	assert.True(t, ShouldRetry(errors.New("Rate limit reached")))
	assert.False(t, ShouldRetry(errors.New("invalid argument")))

	assert.True(t, IsAuthError(errors.New("Requested entity was not found.")))
	assert.False(t, IsAuthError(errors.New("quota exceeded")))
}
