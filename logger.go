package blindbench

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with benchmark-specific helpers, keeping field
// names consistent across the engine and the CLI.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. If handler is nil, a
// text handler to stderr at Info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger with human-readable output at the given level.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger with JSON output at the given level.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

// logMode logs one mode execution outcome.
func (l *Logger) logMode(ctx context.Context, mode Mode, res *Result, err error) {
	if err != nil {
		l.ErrorContext(ctx, "mode failed",
			"mode", string(mode),
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "mode completed",
		"mode", string(mode),
		"total_ms", res.TotalMs,
		"result_count", res.ResultCount,
		"hits", len(res.Hits),
	)
}
