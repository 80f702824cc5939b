package api

// RequestLogger is the interface used by the client for logging HTTP
// requests, retries, and realtime connection events. Implement it to
// integrate with your logging library. Implementations should redact
// credentials before persisting log output.
type RequestLogger interface {
	Errorf(format string, v ...any)
	Warnf(format string, v ...any)
	Debugf(format string, v ...any)
}

// NoopLogger is a RequestLogger that silently discards all log messages.
// It is the default when no logger is supplied.
type NoopLogger struct{}

func (l *NoopLogger) Errorf(_ string, _ ...any) {}
func (l *NoopLogger) Warnf(_ string, _ ...any)  {}
func (l *NoopLogger) Debugf(_ string, _ ...any) {}
