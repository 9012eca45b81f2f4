package observability

import "time"

// MetricsRecorder receives counters and timings from the client.
type MetricsRecorder interface {
	// RecordHTTPRequest is called once per HTTP exchange. path has IDs
	// replaced by ":id", e.g. "/api/v2/list/:id/members". statusCode is 0
	// when no response arrived.
	RecordHTTPRequest(method, path string, statusCode int, duration time.Duration)

	// RecordRetry is called by klaviyo.Retry before each new attempt.
	RecordRetry(attempt int, endpoint string)

	// RecordRateLimit is called when the client-side limiter delays a request.
	RecordRateLimit(endpoint string, wait time.Duration)

	// RecordError is called for failed calls. operation is "request_public",
	// "request_v1", "request_v2" or "http_request"; errorType is the error
	// kind, e.g. "rate_limited" or "transport".
	RecordError(operation, errorType string)
}

type noopMetricsRecorder struct{}

// NoopMetricsRecorder returns the recorder used when ClientConfig.Metrics is nil.
//
//nolint:ireturn // callers hold the interface
func NoopMetricsRecorder() MetricsRecorder {
	return noopMetricsRecorder{}
}

func (noopMetricsRecorder) RecordHTTPRequest(string, string, int, time.Duration) {}
func (noopMetricsRecorder) RecordRetry(int, string)                              {}
func (noopMetricsRecorder) RecordRateLimit(string, time.Duration)                {}
func (noopMetricsRecorder) RecordError(string, string)                           {}
