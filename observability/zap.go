package observability

import "go.uber.org/zap"

// zapLogger adapts a *zap.Logger to Logger.
type zapLogger struct {
	log *zap.Logger
}

// NewZapLogger wraps log as a Logger. A nil log yields NoopLogger.
//
//nolint:ireturn // Factory function must return interface for dependency injection pattern
func NewZapLogger(log *zap.Logger) Logger {
	if log == nil {
		return NoopLogger()
	}

	return &zapLogger{log: log}
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.log.Debug(msg, zapFields(fields)...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.log.Info(msg, zapFields(fields)...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.log.Warn(msg, zapFields(fields)...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.log.Error(msg, zapFields(fields)...) }

//nolint:ireturn // Method must return interface to satisfy Logger interface
func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{log: l.log.With(zapFields(fields)...)}
}

func zapFields(fields []Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.NamedError(f.Key, err))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}

	return out
}
