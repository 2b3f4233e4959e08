// Package log wraps log/slog with the structured fields used across the bot.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a slog.Logger that always carries a component attribute so log
// lines can be traced back to the layer that emitted them.
type Logger struct {
	*slog.Logger
}

// New creates a logger writing text-formatted records to w.
func New(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// Default returns an info-level logger writing to stdout.
func Default() *Logger {
	return New(os.Stdout, slog.LevelInfo)
}

// Discard returns a logger that drops every record. Used in tests.
func Discard() *Logger {
	return New(io.Discard, slog.LevelError+1)
}

// WithComponent returns a logger tagged with the given component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Logger: l.Logger.With(FieldComponent, name)}
}

// With returns a logger with extra attributes attached to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}
