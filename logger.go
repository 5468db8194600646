package flatfs

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with flatfs-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

// WithName adds a filename field to the logger.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{Logger: l.Logger.With("name", name)}
}

// LogCreate logs a create operation.
func (l *Logger) LogCreate(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "create failed",
			"name", name,
			"size", size,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "create completed",
			"name", name,
			"size", size,
		)
	}
}

// LogRead logs a read operation.
func (l *Logger) LogRead(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "read failed",
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "read completed",
			"name", name,
			"size", size,
		)
	}
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "delete completed",
			"name", name,
		)
	}
}

// LogFormat logs a format operation.
func (l *Logger) LogFormat(ctx context.Context, capacity int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "format failed",
			"capacity", capacity,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "volume formatted",
			"capacity", capacity,
		)
	}
}
