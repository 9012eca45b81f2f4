package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/lexfrei/go-klaviyo/observability"
)

// RateLimiterSelector chooses which rate limiter to use for a given request.
// Returns the rate limiter and a descriptive name for logging/metrics.
// A nil limiter disables limiting for that request.
type RateLimiterSelector func(*http.Request) (*rate.Limiter, string)

// RateLimitConfig configures the rate limit middleware.
type RateLimitConfig struct {
	Limiter  *rate.Limiter       // Single limiter (used if Selector is nil)
	Selector RateLimiterSelector // Optional: select limiter based on request
	Logger   observability.Logger
	Metrics  observability.MetricsRecorder
}

// GenerationSelector routes paths whose first "v1" or "v2" segment names a
// private API generation to that limiter and everything else to public.
// Any limiter may be nil.
func GenerationSelector(public, v1, v2 *rate.Limiter) RateLimiterSelector {
	return func(req *http.Request) (*rate.Limiter, string) {
		for segment := range strings.SplitSeq(req.URL.Path, "/") {
			switch segment {
			case "v1":
				return v1, "v1"
			case "v2":
				return v2, "v2"
			}
		}
		return public, "public"
	}
}

// RateLimit returns a middleware that applies rate limiting to requests.
//
// Two modes of operation:
// 1. Single limiter: Set cfg.Limiter for uniform rate limiting
// 2. Selector mode: Set cfg.Selector to choose limiter per request (e.g. per API generation)
func RateLimit(cfg RateLimitConfig) func(http.RoundTripper) http.RoundTripper {
	if cfg.Logger == nil {
		cfg.Logger = observability.NoopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NoopMetricsRecorder()
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return &rateLimitTransport{
			next:     next,
			limiter:  cfg.Limiter,
			selector: cfg.Selector,
			logger:   cfg.Logger,
			metrics:  cfg.Metrics,
		}
	}
}

type rateLimitTransport struct {
	next     http.RoundTripper
	limiter  *rate.Limiter
	selector RateLimiterSelector
	logger   observability.Logger
	metrics  observability.MetricsRecorder
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	limiter := t.limiter
	endpoint := "default"

	if t.selector != nil {
		limiter, endpoint = t.selector(req)
	}

	if limiter == nil {
		return t.next.RoundTrip(req)
	}

	if err := t.wait(req.Context(), limiter, endpoint, normalizePath(req.URL.Path)); err != nil {
		return nil, err
	}

	return t.next.RoundTrip(req)
}

func (t *rateLimitTransport) wait(ctx context.Context, limiter *rate.Limiter, endpoint, path string) error {
	reservation := limiter.Reserve()
	if !reservation.OK() {
		return errors.New("rate limit reservation failed")
	}

	delay := reservation.Delay()
	if delay <= 0 {
		return nil
	}

	t.logger.Debug("rate limit delay",
		observability.F("endpoint", endpoint),
		observability.F("delay", delay),
		observability.F("path", path),
	)
	t.metrics.RecordRateLimit(endpoint, delay)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		reservation.Cancel()
		return errors.Wrap(ctx.Err(), "context done during rate limit wait")
	}
}
