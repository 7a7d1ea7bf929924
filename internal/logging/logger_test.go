package logging

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleLevelOverride(t *testing.T) {
	Setup(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"resolver": "debug",
			"api":      "warn",
		},
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"resolver", true, true, true},
		{"api", false, false, true},
		{"other", false, true, true},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			h := GetLogger(tt.module).Handler()
			assert.Equal(t, tt.wantDebug, h.Enabled(ctx, slog.LevelDebug), "debug")
			assert.Equal(t, tt.wantInfo, h.Enabled(ctx, slog.LevelInfo), "info")
			assert.Equal(t, tt.wantWarn, h.Enabled(ctx, slog.LevelWarn), "warn")
		})
	}
}

func TestLoggerCreatedBeforeSetupFollowsLevel(t *testing.T) {
	Setup(Config{Level: "info"})
	logger := GetLogger("early")

	Setup(Config{Level: "info", Modules: map[string]string{"early": "error"}})

	assert.False(t, GetLogger("early").Handler().Enabled(context.Background(), slog.LevelWarn))
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelWarn), "previously obtained logger shares the module level")
}

func TestSetModuleLevel(t *testing.T) {
	Setup(Config{Level: "warn"})
	logger := GetLogger("runtime")

	SetModuleLevel("runtime", "debug")
	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestRingBufferReceivesModuleEntries(t *testing.T) {
	Setup(Config{Level: "debug"})

	var mu sync.Mutex
	var got []LogEntry
	SetLogCallback(func(e LogEntry) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})
	defer SetLogCallback(nil)

	GetLogger("buffer-test").Info("resolved", "codec", "libx264", "took", 3*time.Millisecond,
		slog.Group("state", "name", "movie"), "error", errors.New("boom"))

	mu.Lock()
	defer mu.Unlock()

	var entry *LogEntry
	for i := range got {
		if got[i].Module == "buffer-test" {
			entry = &got[i]
		}
	}
	require.NotNil(t, entry, "no entry for module in %+v", got)
	assert.Equal(t, "resolved", entry.Message)
	assert.Equal(t, "info", entry.Level)
	want := map[string]any{"codec": "libx264", "took": "3ms", "state.name": "movie", "error": "boom"}
	for k, v := range want {
		assert.Equal(t, v, entry.Attributes[k], k)
	}

	tail := Buffer().Tail(1)
	require.Len(t, tail, 1)
	assert.Equal(t, "buffer-test", tail[0].Module)
}

func TestRingBufferTail(t *testing.T) {
	rb := NewRingBuffer(3)
	require.Zero(t, rb.Len())
	require.Empty(t, rb.Tail(0))

	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		rb.Write(LogEntry{Message: msg})
	}

	assert.Equal(t, 3, rb.Len())

	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{"c", "d", "e"}},
		{2, []string{"d", "e"}},
		{10, []string{"c", "d", "e"}},
	}
	for _, tt := range tests {
		var got []string
		for _, e := range rb.Tail(tt.n) {
			got = append(got, e.Message)
		}
		assert.Equal(t, tt.want, got, "Tail(%d)", tt.n)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"verbose", slog.LevelWarn},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in, slog.LevelWarn), tt.in)
	}
}

type recordingHandler struct {
	level slog.Level
	count int
	err   error
}

func (h *recordingHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }
func (h *recordingHandler) Handle(context.Context, slog.Record) error {
	h.count++
	return h.err
}
func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestMultiHandler(t *testing.T) {
	debug := &recordingHandler{level: slog.LevelDebug, err: errors.New("closed")}
	warn := &recordingHandler{level: slog.LevelWarn}
	m := NewMultiHandler(debug, warn)

	logger := slog.New(m)
	logger.Info("x")
	logger.Warn("y")

	assert.Equal(t, 2, debug.count)
	assert.Equal(t, 1, warn.count)

	err := m.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "z", 0))
	assert.Error(t, err, "the failing handler is reported")
	assert.Equal(t, 2, warn.count, "a failing handler does not stop the others")
}
