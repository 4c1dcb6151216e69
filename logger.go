package easystore

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with storage-specific fields.
// Failure records always carry the disk, operation and error keys.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger on top of handler.
// A nil handler logs text at info level to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		return NewTextLogger(slog.LevelInfo)
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON records to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes key=value records to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewWriterLogger(os.Stderr, level)
}

// NewWriterLogger creates a text Logger that writes to w.
func NewWriterLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithDisk adds a disk field to the logger.
func (l *Logger) WithDisk(name string) *Logger {
	return &Logger{Logger: l.Logger.With("disk", name)}
}

// WithOperation adds an operation field to the logger.
func (l *Logger) WithOperation(op string) *Logger {
	return &Logger{Logger: l.Logger.With("operation", op)}
}

// LogFailure writes one error record for a failed driver call.
func (l *Logger) LogFailure(ctx context.Context, disk, op string, err error) {
	l.WithDisk(disk).WithOperation(op).ErrorContext(ctx, "storage operation failed", "error", err)
}

// LogUnsupported writes one error record for an operation the disk lacks.
func (l *Logger) LogUnsupported(ctx context.Context, disk, op string, err error) {
	l.WithDisk(disk).WithOperation(op).ErrorContext(ctx, "storage operation not supported", "error", err)
}
