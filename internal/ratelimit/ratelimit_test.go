package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		requestsPerMinute int
		wantRate          float64
		wantBurst         int
	}{
		{
			name:              "default v2 rate",
			requestsPerMinute: DefaultV2PerMinute,
			wantRate:          float64(DefaultV2PerMinute) / 60.0,
			wantBurst:         DefaultV2PerMinute,
		},
		{
			name:              "100 requests per minute",
			requestsPerMinute: 100,
			wantRate:          100.0 / 60.0,
			wantBurst:         100,
		},
		{
			name:              "60 requests per minute (1 per second)",
			requestsPerMinute: 60,
			wantRate:          1.0,
			wantBurst:         60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			limiter := NewRateLimiter(tt.requestsPerMinute)
			require.NotNil(t, limiter)

			assert.InDelta(t, tt.wantRate, float64(limiter.Limit()), 1e-9)
			assert.Equal(t, tt.wantBurst, limiter.Burst())
		})
	}
}

func TestNewRateLimiterDisabled(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewRateLimiter(0))
	assert.Nil(t, NewRateLimiter(-1))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 700, Resolve(0, 700))
	assert.Equal(t, 0, Resolve(-5, 700))
	assert.Equal(t, 30, Resolve(30, 700))
}

func TestRateLimiterAllowsBurst(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(60)
	ctx := context.Background()

	for i := range 60 {
		require.NoError(t, limiter.Wait(ctx), "request %d", i)
	}
}

func TestRateLimiterThrottles(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(60)
	ctx := context.Background()

	for range 60 {
		require.NoError(t, limiter.Wait(ctx))
	}

	start := time.Now()
	require.NoError(t, limiter.Wait(ctx))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 900*time.Millisecond)
	assert.LessOrEqual(t, elapsed, 1100*time.Millisecond)
}

func TestRateLimiterContextCancellation(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(1)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, limiter.Wait(ctx))

	cancel()

	err := limiter.Wait(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func BenchmarkRateLimiterAllow(b *testing.B) {
	limiter := NewRateLimiter(10000)

	for b.Loop() {
		limiter.Allow()
	}
}
