package middleware_test

import (
	"sync"
	"time"

	"github.com/lexfrei/go-klaviyo/observability"
)

type logEntry struct {
	level  string
	msg    string
	fields map[string]any
}

// recordingLogger captures every entry, including fields added through With.
type recordingLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
	base    []observability.Field
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (l *recordingLogger) log(level, msg string, fields []observability.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m := make(map[string]any, len(l.base)+len(fields))
	for _, f := range append(append([]observability.Field{}, l.base...), fields...) {
		m[f.Key] = f.Value
	}
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, fields: m})
}

func (l *recordingLogger) Debug(msg string, fields ...observability.Field) {
	l.log("debug", msg, fields)
}
func (l *recordingLogger) Info(msg string, fields ...observability.Field) { l.log("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields ...observability.Field) { l.log("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields ...observability.Field) {
	l.log("error", msg, fields)
}

//nolint:ireturn // satisfies observability.Logger
func (l *recordingLogger) With(fields ...observability.Field) observability.Logger {
	return &recordingLogger{
		mu:      l.mu,
		entries: l.entries,
		base:    append(append([]observability.Field{}, l.base...), fields...),
	}
}

func (l *recordingLogger) all() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]logEntry{}, *l.entries...)
}

type httpRecord struct {
	method string
	path   string
	status int
}

type recordingMetrics struct {
	mu         sync.Mutex
	requests   []httpRecord
	rateLimits int
	errors     []string
}

func (m *recordingMetrics) RecordHTTPRequest(method, path string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, httpRecord{method: method, path: path, status: status})
}

func (m *recordingMetrics) RecordRetry(int, string) {}

func (m *recordingMetrics) RecordRateLimit(string, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rateLimits++
}

func (m *recordingMetrics) RecordError(_, errorType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, errorType)
}

func (m *recordingMetrics) rateLimitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rateLimits
}
