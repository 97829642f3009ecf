package logger

import (
	"context"
	"log/slog"
)

// loggerContextKey is an unexported type for the context key to prevent
// collisions with keys defined in other packages.
type loggerContextKey struct{}

// WithLogger returns a new context carrying the provided logger.
// Handlers and middleware use this to propagate a request-scoped logger
// (typically one enriched with a trace ID) down the call chain.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext retrieves the logger stored in the context, or slog.Default()
// if none is present.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger stored in the context, falling
// back to the provided default rather than the global default. A nil
// fallback behaves like FromContext.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
