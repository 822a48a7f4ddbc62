package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelInfo)

	l.Debug("hidden", "k", "v")
	l.Info("shown", "site", "s1")
	l.Warn("warned")
	l.Error("failed", "error", "boom")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "site=s1")
	assert.Contains(t, out, "warned")
	assert.Contains(t, out, "failed")
}

func TestDebugLevelEnabled(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelDebug)

	l.Debug("visible now")
	assert.Contains(t, buf.String(), "visible now")
}

func TestNoopLoggerIsSilent(t *testing.T) {
	// Must not panic regardless of arguments.
	var l NoopLogger
	l.Debug("a")
	l.Info("b", "k", 1)
	l.Warn("c")
	l.Error("d", "err", nil)
}
