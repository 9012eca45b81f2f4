package observability

// Field is one structured key/value attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger receives the client's request logs.
//
// The client logs each HTTP exchange at Debug, responses with status >= 400
// at Warn and transport failures at Error. Entries carry a request_id, the
// method and the URL with api_key and data parameters masked; headers and
// bodies are never passed to the logger.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger that adds fields to every entry.
	With(fields ...Field) Logger
}

type noopLogger struct{}

// NoopLogger returns the Logger used when ClientConfig.Logger is nil.
//
//nolint:ireturn // callers hold the interface
func NoopLogger() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...Field) {}
func (noopLogger) Info(string, ...Field)  {}
func (noopLogger) Warn(string, ...Field)  {}
func (noopLogger) Error(string, ...Field) {}

//nolint:ireturn // satisfies Logger
func (l noopLogger) With(...Field) Logger { return l }
