package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/lexfrei/go-klaviyo/internal/middleware"
)

func okServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	return server
}

func roundTrip(t *testing.T, transport http.RoundTripper, ctx context.Context, url string) (time.Duration, error) {
	t.Helper()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	require.NoError(t, err)

	start := time.Now()
	resp, err := transport.RoundTrip(req)
	if resp != nil {
		resp.Body.Close()
	}

	return time.Since(start), err
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	t.Run("single limiter", func(t *testing.T) {
		t.Parallel()

		server := okServer(t)
		metrics := &recordingMetrics{}

		transport := middleware.RateLimit(middleware.RateLimitConfig{
			Limiter: rate.NewLimiter(2, 2),
			Metrics: metrics,
		})(http.DefaultTransport)

		for i := range 2 {
			duration, err := roundTrip(t, transport, context.Background(), server.URL)
			require.NoError(t, err)
			assert.Less(t, duration, 100*time.Millisecond, "request %d should complete quickly", i+1)
		}

		duration, err := roundTrip(t, transport, context.Background(), server.URL)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, duration, 100*time.Millisecond, "third request should be rate limited")
		assert.Equal(t, 1, metrics.rateLimitCount())
	})

	t.Run("nil limiter - no rate limiting", func(t *testing.T) {
		t.Parallel()

		server := okServer(t)
		transport := middleware.RateLimit(middleware.RateLimitConfig{})(http.DefaultTransport)

		duration, err := roundTrip(t, transport, context.Background(), server.URL)
		require.NoError(t, err)
		assert.Less(t, duration, 50*time.Millisecond)
	})

	t.Run("context cancellation", func(t *testing.T) {
		t.Parallel()

		server := okServer(t)

		limiter := rate.NewLimiter(0.1, 1)
		limiter.Allow()

		transport := middleware.RateLimit(middleware.RateLimitConfig{
			Limiter: limiter,
		})(http.DefaultTransport)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := roundTrip(t, transport, ctx, server.URL)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}

func TestGenerationSelector(t *testing.T) {
	t.Parallel()

	public := rate.NewLimiter(1, 1)
	v1 := rate.NewLimiter(2, 2)
	v2 := rate.NewLimiter(3, 3)
	selector := middleware.GenerationSelector(public, v1, v2)

	tests := []struct {
		path        string
		wantLimiter *rate.Limiter
		wantName    string
	}{
		{path: "/api/v1/metrics", wantLimiter: v1, wantName: "v1"},
		{path: "/api/v1", wantLimiter: v1, wantName: "v1"},
		{path: "/api/v2/list/XyZ123/members", wantLimiter: v2, wantName: "v2"},
		{path: "/api/track", wantLimiter: public, wantName: "public"},
		{path: "/api/identify", wantLimiter: public, wantName: "public"},
		{path: "/api/v10/other", wantLimiter: public, wantName: "public"},
		{path: "/custom/v2/lists", wantLimiter: v2, wantName: "v2"},
		{path: "/api/v2/list/v1/members", wantLimiter: v2, wantName: "v2"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "https://a.klaviyo.com"+tt.path, http.NoBody)
			limiter, name := selector(req)

			assert.Same(t, tt.wantLimiter, limiter)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestGenerationSelectorPacesIndependently(t *testing.T) {
	t.Parallel()

	server := okServer(t)

	slow := rate.NewLimiter(1, 1)
	transport := middleware.RateLimit(middleware.RateLimitConfig{
		Selector: middleware.GenerationSelector(nil, slow, nil),
	})(http.DefaultTransport)

	_, err := roundTrip(t, transport, context.Background(), server.URL+"/api/v1/metrics")
	require.NoError(t, err)

	// v2 and public are unlimited while v1 is exhausted.
	for _, path := range []string{"/api/v2/lists", "/api/track"} {
		duration, err := roundTrip(t, transport, context.Background(), server.URL+path)
		require.NoError(t, err)
		assert.Less(t, duration, 50*time.Millisecond, path)
	}

	duration, err := roundTrip(t, transport, context.Background(), server.URL+"/api/v1/metrics")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, duration, 500*time.Millisecond)
}
