package rabitq

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with quantizer-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithClusterID adds a cluster_id field to the logger.
func (l *Logger) WithClusterID(id uint32) *Logger {
	return &Logger{
		Logger: l.Logger.With("cluster_id", id),
	}
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogQuantize logs a quantize operation.
func (l *Logger) LogQuantize(ctx context.Context, dimension, bits int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "quantize failed",
			"dimension", dimension,
			"bits", bits,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "quantize completed",
			"dimension", dimension,
			"bits", bits,
		)
	}
}

// LogScan logs a scan over a set of clusters. Attach k with WithK.
func (l *Logger) LogScan(ctx context.Context, clusters, codes, resultsFound int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "scan failed",
			"clusters", clusters,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "scan completed",
			"clusters", clusters,
			"codes", codes,
			"results", resultsFound,
			"elapsed", elapsed,
		)
	}
}

// LogClusterScan logs the scan of a single cluster. Attach the cluster with
// WithClusterID.
func (l *Logger) LogClusterScan(ctx context.Context, codes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cluster scan failed",
			"codes", codes,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "cluster scan completed",
			"codes", codes,
		)
	}
}
