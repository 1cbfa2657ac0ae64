package cqt

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with cqt-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithImage tags the logger with an image name.
func (l *Logger) WithImage(name string) *Logger {
	return &Logger{Logger: l.Logger.With("image", name)}
}

// WithDimensions adds width and height fields.
func (l *Logger) WithDimensions(width, height int) *Logger {
	return &Logger{Logger: l.Logger.With("width", width, "height", height)}
}

// LogQuantizeStart logs the beginning of a quantization run.
func (l *Logger) LogQuantizeStart(ctx context.Context, pixels, target int, source string) {
	l.DebugContext(ctx, "quantize started",
		"pixels", pixels,
		"target_colors", target,
		"palette_source", source,
	)
}

// LogPartition logs the outcome of palette construction.
func (l *Logger) LogPartition(ctx context.Context, clusters, target, trainingPixels int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "partition failed",
			"target_colors", target,
			"error", err,
		)
		return
	}
	if clusters < target {
		l.InfoContext(ctx, "partition stopped early",
			"clusters", clusters,
			"target_colors", target,
			"training_pixels", trainingPixels,
			"duration", d,
		)
		return
	}
	l.DebugContext(ctx, "partition completed",
		"clusters", clusters,
		"training_pixels", trainingPixels,
		"duration", d,
	)
}

// LogPalette logs the palette as hex colors at debug level.
func (l *Logger) LogPalette(ctx context.Context, hex []string) {
	l.DebugContext(ctx, "palette", "size", len(hex), "colors", hex)
}

// LogMapping logs how many palette entries the remapped image uses.
func (l *Logger) LogMapping(ctx context.Context, used, size int, dithered bool, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "mapping failed",
			"dithered", dithered,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "mapping completed",
		"colors_used", used,
		"palette_size", size,
		"dithered", dithered,
		"duration", d,
	)
}

// LogDecode logs an image decode.
func (l *Logger) LogDecode(ctx context.Context, name, format string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "decode failed",
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "decoded",
			"name", name,
			"format", format,
		)
	}
}

// LogEncode logs an image encode.
func (l *Logger) LogEncode(ctx context.Context, name, format string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "encode failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "saved",
			"name", name,
			"format", format,
		)
	}
}
