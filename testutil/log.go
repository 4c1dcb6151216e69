package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// Record is a captured log record with its attributes flattened into a map.
type Record struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogRecorder is a slog.Handler that keeps every record in memory.
// It is safe for concurrent use.
type LogRecorder struct {
	state *recorderState
	attrs []slog.Attr
}

type recorderState struct {
	mu      sync.Mutex
	records []Record
}

// NewLogRecorder creates an empty recorder that accepts all levels.
func NewLogRecorder() *LogRecorder {
	return &LogRecorder{state: &recorderState{}}
}

func (h *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (h *LogRecorder) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	h.state.records = append(h.state.records, Record{Level: r.Level, Message: r.Message, Attrs: attrs})
	return nil
}

func (h *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogRecorder{
		state: h.state,
		attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

// WithGroup is not needed by easystore; groups are ignored.
func (h *LogRecorder) WithGroup(string) slog.Handler { return h }

// Records returns a copy of the captured records.
func (h *LogRecorder) Records() []Record {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	return append([]Record(nil), h.state.records...)
}

// Len returns the number of captured records.
func (h *LogRecorder) Len() int {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	return len(h.state.records)
}

// Reset drops all captured records.
func (h *LogRecorder) Reset() {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	h.state.records = nil
}
