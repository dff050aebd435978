package kmersim

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/kmersim/metric"
)

// Logger wraps slog.Logger with registry-specific helpers.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000),
		})),
	}
}

// WithMetric adds a metric field to the logger.
func (l *Logger) WithMetric(id metric.ID) *Logger {
	return &Logger{
		Logger: l.Logger.With("metric", id.String()),
	}
}

// LogRegister logs a registration call.
func (l *Logger) LogRegister(ctx context.Context, ids metric.ID, kind CompositionKind, added int, err error) {
	if err != nil {
		l.WarnContext(ctx, "register rejected",
			"metric_id", uint64(ids),
			"kind", int(kind),
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "metrics registered",
		"metrics", ids.String(),
		"kind", kind.String(),
		"added", added,
	)
}

// LogCalibrate logs a calibration pass.
func (l *Logger) LogCalibrate(ctx context.Context, pairs, metrics int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "calibration failed",
			"pairs", pairs,
			"metrics", metrics,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "calibration completed",
		"pairs", pairs,
		"metrics", metrics,
		"duration", d,
	)
}

// LogFallback logs a degenerate normalization.
func (l *Logger) LogFallback(ctx context.Context, id metric.ID, raw, lo, hi float64) {
	l.DebugContext(ctx, "normalization fallback",
		"metric", id.String(),
		"raw", raw,
		"min", lo,
		"max", hi,
	)
}
