// Package middleware provides http.RoundTripper layers for the transport chain.
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lexfrei/go-klaviyo/internal/redact"
	"github.com/lexfrei/go-klaviyo/observability"
)

// Observability returns a middleware that logs and records metrics for HTTP requests.
// Logged URLs have credentials redacted; headers and bodies are never logged.
func Observability(logger observability.Logger, metrics observability.MetricsRecorder) func(http.RoundTripper) http.RoundTripper {
	if logger == nil {
		logger = observability.NoopLogger()
	}
	if metrics == nil {
		metrics = observability.NoopMetricsRecorder()
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return &observabilityTransport{
			next:    next,
			logger:  logger,
			metrics: metrics,
		}
	}
}

type observabilityTransport struct {
	next    http.RoundTripper
	logger  observability.Logger
	metrics observability.MetricsRecorder
}

func (t *observabilityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	log := t.logger.With(
		observability.F("request_id", uuid.NewString()),
		observability.F("method", req.Method),
		observability.F("url", redact.URL(req.URL.String())),
	)
	path := normalizePath(req.URL.Path)

	log.Debug("http request started")

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		log.Error("http request failed",
			observability.F("duration", duration),
			observability.F("error", redact.URL(err.Error())),
		)

		t.metrics.RecordHTTPRequest(req.Method, path, 0, duration)
		t.metrics.RecordError("http_request", "transport")

		//nolint:wrapcheck // Observability middleware logs error but passes it through unchanged
		return nil, err
	}

	fields := []observability.Field{
		observability.F("status", resp.StatusCode),
		observability.F("duration", duration),
	}

	if resp.StatusCode >= http.StatusBadRequest {
		log.Warn("http request completed with error", fields...)
	} else {
		log.Debug("http request completed", fields...)
	}

	t.metrics.RecordHTTPRequest(req.Method, path, resp.StatusCode, duration)

	return resp, nil
}

// idParents are path segments whose next segment is a resource id.
var idParents = map[string]bool{
	"list":           true,
	"group":          true,
	"person":         true,
	"metric":         true,
	"email-template": true,
	"campaign":       true,
}

// normalizedPathCache caches normalized paths; most traffic hits a small set of endpoints.
var normalizedPathCache sync.Map

// normalizePath replaces resource ids with placeholders to keep metric
// cardinality bounded.
//
// Examples:
//   - /api/v2/list/XyZ123/members → /api/v2/list/:id/members
//   - /api/v1/person/01GDDKASAP8TKDDA2GRZDSVP4H/metric/AbC123/timeline → /api/v1/person/:id/metric/:id/timeline
//   - /api/v1/metrics/timeline → /api/v1/metrics/timeline
func normalizePath(path string) string {
	if cached, ok := normalizedPathCache.Load(path); ok {
		//nolint:forcetypeassert // Cache only stores strings
		return cached.(string)
	}

	segments := strings.Split(path, "/")
	for i := 1; i < len(segments); i++ {
		if segments[i] != "" && idParents[segments[i-1]] {
			segments[i] = ":id"
		}
	}
	normalized := strings.Join(segments, "/")

	normalizedPathCache.Store(path, normalized)

	return normalized
}
