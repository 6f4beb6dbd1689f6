// Package testutil provides structured-logging helpers for tests.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// NewCaptureLogger returns a logger whose records can be inspected after
// the code under test ran. Writers degrade by logging rather than
// failing; the capture lets tests assert the degradation was reported.
func NewCaptureLogger() (*slog.Logger, *LogCapture) {
	c := &LogCapture{}
	return slog.New(c), c
}

// LogCapture is a slog.Handler that records every message it receives.
type LogCapture struct {
	mu      sync.Mutex
	records []slog.Record
}

func (c *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
	return nil
}

func (c *LogCapture) WithAttrs([]slog.Attr) slog.Handler { return c }
func (c *LogCapture) WithGroup(string) slog.Handler      { return c }

// Messages returns the captured log messages in arrival order.
func (c *LogCapture) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := make([]string, len(c.records))
	for i, r := range c.records {
		msgs[i] = r.Message
	}
	return msgs
}

// Contains reports whether any captured message contains the substring.
func (c *LogCapture) Contains(substr string) bool {
	for _, msg := range c.Messages() {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}
