// Package logger provides the leveled, structured logging used across the
// analyzer. It is a thin wrapper over log/slog so the graph SDK, the
// commands and the report pipeline all log through one interface.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the logging interface passed around the application. The
// signatures follow slog's message-plus-attributes convention.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoopLogger discards everything. Used in tests and when logging is off.
type NoopLogger struct{}

func (NoopLogger) Debug(msg string, args ...any) {}
func (NoopLogger) Info(msg string, args ...any)  {}
func (NoopLogger) Warn(msg string, args ...any)  {}
func (NoopLogger) Error(msg string, args ...any) {}

// SlogLogger writes structured text logs via log/slog.
type SlogLogger struct {
	logger *slog.Logger
}

// New creates a SlogLogger writing to w at the given level.
func New(w io.Writer, level slog.Level) *SlogLogger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &SlogLogger{logger: slog.New(handler)}
}

// NewDefault creates a stderr logger at Info level, or Debug when debug
// mode is on.
func NewDefault(debug bool) Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return New(os.Stderr, level)
}

func (l *SlogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *SlogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *SlogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *SlogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }
