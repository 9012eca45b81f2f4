// Package observability provides interfaces for logging and metrics collection
// in the go-klaviyo library.
//
// # Logger Interface
//
// The Logger interface supports structured logging with key-value pairs:
//
//	client, err := klaviyo.NewWithConfig(&klaviyo.ClientConfig{
//		PrivateKey: privateKey,
//		Logger:     observability.NewZapLogger(zapLogger),
//	})
//
// Request logs carry the method, the URL with credentials redacted, the status
// code, the duration and a per-request id. Headers and bodies are never logged.
//
// # MetricsRecorder Interface
//
// The MetricsRecorder interface tracks HTTP request counts and durations,
// client-side rate limit waits, retry attempts and errors by kind.
//
// # Default Behavior
//
// If no logger or metrics recorder is provided, the client uses no-op
// implementations that discard all events.
package observability
