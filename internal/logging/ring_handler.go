package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// sink is shared by every RingHandler so loggers created before Setup
// still reach the buffer and the current callback.
type sink struct {
	buffer *RingBuffer

	mu       sync.RWMutex
	callback func(LogEntry)
}

func (s *sink) setCallback(fn func(LogEntry)) {
	s.mu.Lock()
	s.callback = fn
	s.mu.Unlock()
}

func (s *sink) write(entry LogEntry) {
	s.buffer.Write(entry)

	s.mu.RLock()
	fn := s.callback
	s.mu.RUnlock()
	if fn != nil {
		fn(entry)
	}
}

// RingHandler is a slog.Handler that records entries for the logs stream.
type RingHandler struct {
	sink   *sink
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewRingHandler creates a handler writing into s.
func NewRingHandler(s *sink, level slog.Leveler) *RingHandler {
	return &RingHandler{sink: s, level: level}
}

// Enabled implements slog.Handler.
func (h *RingHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *RingHandler) Handle(_ context.Context, r slog.Record) error {
	entry := LogEntry{
		Timestamp:  r.Time,
		Level:      levelName(r.Level),
		Module:     "app",
		Message:    r.Message,
		Attributes: make(map[string]any, len(h.attrs)+r.NumAttrs()),
	}

	collect := func(a slog.Attr) bool {
		if a.Key == "module" && len(h.groups) == 0 {
			entry.Module = a.Value.String()
			return true
		}
		flatten(entry.Attributes, h.groups, a)
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	h.sink.write(entry)
	return nil
}

// WithAttrs implements slog.Handler.
func (h *RingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup implements slog.Handler.
func (h *RingHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

func flatten(out map[string]any, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		nested := append(append([]string{}, groups...), a.Key)
		for _, ga := range a.Value.Group() {
			flatten(out, nested, ga)
		}
	case slog.KindTime:
		out[key] = a.Value.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		out[key] = a.Value.Duration().String()
	default:
		if err, ok := a.Value.Any().(error); ok {
			out[key] = err.Error()
			return
		}
		out[key] = a.Value.Any()
	}
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
