package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// With returns a context whose logger carries the extra fields, layered
// on whatever logger the context already holds.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, contextKey{}, From(ctx).With(fields...))
}

// From returns the context's logger, falling back to the process logger
// when none was attached.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return LoggerWrapper()
}
