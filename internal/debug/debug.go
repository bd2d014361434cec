// Package debug provides context-based debug mode with structured logging.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type contextKey string

const debugKey contextKey = "debug_enabled"

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(debugKey).(bool); ok {
		return v
	}
	return false
}

// SetupLogger configures the default slog logger on stderr.
func SetupLogger(debugEnabled bool) {
	SetupLoggerTo(os.Stderr, debugEnabled, false)
}

// SetupLoggerTo installs a default logger writing to w at debug level when
// debugEnabled, warn otherwise. jsonFormat selects JSON lines so logs stay
// machine-readable next to JSON output.
func SetupLoggerTo(w io.Writer, debugEnabled, jsonFormat bool) *slog.Logger {
	level := slog.LevelWarn
	if debugEnabled {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// MaskSecret keeps the first and last four characters of a credential.
func MaskSecret(s string) string {
	if len(s) <= 8 {
		if s == "" {
			return ""
		}
		return "********"
	}
	return s[:4] + "…" + s[len(s)-4:]
}
