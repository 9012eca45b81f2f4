package observability_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lexfrei/go-klaviyo/observability"
)

func TestNoopImplementations(t *testing.T) {
	t.Parallel()

	logger := observability.NoopLogger().With(observability.F("request_id", "r1"))
	assert.NotPanics(t, func() {
		logger.Debug("http request started", observability.F("method", "GET"))
		logger.Info("info")
		logger.Warn("http request completed with error", observability.F("status", 429))
		logger.Error("http request failed")
	})

	metrics := observability.NoopMetricsRecorder()
	assert.NotPanics(t, func() {
		metrics.RecordHTTPRequest("GET", "/api/v2/list/:id", 200, time.Millisecond)
		metrics.RecordRetry(1, "lists")
		metrics.RecordRateLimit("/api/v1/metrics", 80*time.Millisecond)
		metrics.RecordError("request_v2", "rate_limited")
	})
}

func TestF(t *testing.T) {
	t.Parallel()

	assert.Equal(t, observability.Field{Key: "status", Value: 404}, observability.F("status", 404))
	assert.Equal(t, observability.Field{Key: "error"}, observability.F("error", nil))
}

func BenchmarkNoopLogger(b *testing.B) {
	logger := observability.NoopLogger()
	fields := []observability.Field{
		observability.F("method", "GET"),
		observability.F("status", 200),
	}

	for b.Loop() {
		logger.With(observability.F("request_id", "r1")).Debug("http request completed", fields...)
	}
}
