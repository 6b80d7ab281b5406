package mock

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// TestingHandler captures logs for testing
type TestingHandler struct {
	mu    sync.Mutex
	Logs  []LogEntry
	TB    testing.TB
	attrs []slog.Attr
	root  *TestingHandler
}

type LogEntry struct {
	Level   slog.Level
	Message string
	Attrs   []slog.Attr
}

func (h *TestingHandler) Enabled(_ context.Context, level slog.Level) bool {
	return true
}

func (h *TestingHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, attr)
		return true
	})

	target := h.target()
	target.mu.Lock()
	defer target.mu.Unlock()
	target.Logs = append(target.Logs, LogEntry{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	return nil
}

func (h *TestingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	combined := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	combined = append(combined, h.attrs...)
	combined = append(combined, attrs...)
	return &TestingHandler{TB: h.TB, attrs: combined, root: h.target()}
}

func (h *TestingHandler) WithGroup(name string) slog.Handler {
	return h
}

func (h *TestingHandler) target() *TestingHandler {
	if h.root != nil {
		return h.root
	}
	return h
}

// Entries returns a copy of the captured entries.
func (h *TestingHandler) Entries() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]LogEntry, len(h.Logs))
	copy(out, h.Logs)
	return out
}

// HasMessage reports whether a log entry with the given level and message was captured.
func (h *TestingHandler) HasMessage(level slog.Level, msg string) bool {
	for _, e := range h.Entries() {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}

// Attr returns the value of the named attribute on the entry.
func (e LogEntry) Attr(key string) (slog.Value, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return slog.Value{}, false
}

// NewTestLogger creates a new test logger
func NewTestLogger(tb testing.TB) (*slog.Logger, *TestingHandler) {
	handler := &TestingHandler{TB: tb}
	return slog.New(handler), handler
}
