package logger

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type contextKey string

const (
	loggerKey contextKey = "gridboot.logger"
	bootIDKey contextKey = "gridboot.boot_id"
)

// NewBootID returns a fresh, time-ordered boot identifier.
func NewBootID() string {
	return ulid.Make().String()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithBootID adds a boot ID to the context.
func WithBootID(ctx context.Context, bootID string) context.Context {
	return context.WithValue(ctx, bootIDKey, bootID)
}

// BootIDFromContext extracts the boot ID from context.
func BootIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(bootIDKey).(string); ok {
		return id
	}
	return ""
}

// L is a shorthand for FromContext that also enriches the logger with the
// boot ID from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if id := BootIDFromContext(ctx); id != "" {
		l = l.With("boot_id", id)
	}
	return l
}
