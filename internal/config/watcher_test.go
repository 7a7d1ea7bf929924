package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smazurov/transcodeargs/internal/ffmpeg"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func startProfileWatcher(t *testing.T, content string, opts ...WatcherOption[ffmpeg.Profile]) (string, *Watcher[ffmpeg.Profile]) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	opts = append([]WatcherOption[ffmpeg.Profile]{WithDebounce[ffmpeg.Profile](50 * time.Millisecond)}, opts...)
	w := NewWatcher(path, LoadProfile, newTestLogger(), opts...)
	return path, w
}

func run(t *testing.T, w *Watcher[ffmpeg.Profile]) {
	t.Helper()
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() {
		assert.NoError(t, w.Stop())
	})
	time.Sleep(50 * time.Millisecond)
}

func writeProfile(t *testing.T, path, quality string, cpus int) {
	t.Helper()
	content := fmt.Sprintf("[encoding]\nquality = %q\ncpu_count = %d\n", quality, cpus)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWatcherReloadsProfile(t *testing.T) {
	path, w := startProfileWatcher(t, "[encoding]\nquality = \"high_quality\"\ncpu_count = 2\n")

	received := make(chan ffmpeg.Profile, 1)
	w.OnReload(func(p ffmpeg.Profile) { received <- p })
	run(t, w)

	writeProfile(t, path, "high_speed", 8)

	select {
	case p := <-received:
		assert.Equal(t, ffmpeg.Profile{Quality: ffmpeg.QualityHighSpeed, CPUCount: 8}, p)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload")
	}
}

func TestWatcherReplacedByRename(t *testing.T) {
	path, w := startProfileWatcher(t, "[encoding]\ncpu_count = 2\n")

	received := make(chan ffmpeg.Profile, 4)
	w.OnReload(func(p ffmpeg.Profile) { received <- p })
	run(t, w)

	tmp := path + ".tmp"
	writeProfile(t, tmp, "max_quality", 3)
	require.NoError(t, os.Rename(tmp, path))

	select {
	case p := <-received:
		assert.Equal(t, ffmpeg.Profile{Quality: ffmpeg.QualityMaxQuality, CPUCount: 3}, p)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload after rename")
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	path, w := startProfileWatcher(t, "[encoding]\ncpu_count = 2\n")

	var count atomic.Int32
	w.OnReload(func(ffmpeg.Profile) { count.Add(1) })
	run(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.toml"), []byte("x = 1\n"), 0o644))
	time.Sleep(200 * time.Millisecond)

	assert.Zero(t, count.Load(), "handlers called for an unrelated file")
}

func TestWatcherDebounce(t *testing.T) {
	path, w := startProfileWatcher(t, "[encoding]\ncpu_count = 1\n", WithDebounce[ffmpeg.Profile](200*time.Millisecond))

	var count, last atomic.Int32
	w.OnReload(func(p ffmpeg.Profile) {
		count.Add(1)
		last.Store(int32(p.CPUCount))
	})
	run(t, w)

	for i := 1; i <= 5; i++ {
		writeProfile(t, path, "high_quality", i)
		time.Sleep(40 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)

	assert.Equal(t, int32(1), count.Load(), "debounced reloads")
	assert.Equal(t, int32(5), last.Load(), "last cpu_count")
}

func TestWatcherUnsubscribe(t *testing.T) {
	path, w := startProfileWatcher(t, "[encoding]\ncpu_count = 1\n")

	var first, second atomic.Int32
	w.OnReload(func(ffmpeg.Profile) { first.Add(1) })
	unsubscribe := w.OnReload(func(ffmpeg.Profile) { second.Add(1) })
	run(t, w)

	writeProfile(t, path, "high_quality", 2)
	time.Sleep(250 * time.Millisecond)
	unsubscribe()

	writeProfile(t, path, "high_quality", 3)
	time.Sleep(250 * time.Millisecond)

	assert.Equal(t, int32(2), first.Load(), "first handler calls")
	assert.Equal(t, int32(1), second.Load(), "second handler calls")
}

func TestWatcherErrorKeepsHandlersQuiet(t *testing.T) {
	errs := make(chan error, 1)
	path, w := startProfileWatcher(t, "[encoding]\ncpu_count = 1\n",
		WithErrorHandler[ffmpeg.Profile](func(err error) { errs <- err }))

	received := make(chan ffmpeg.Profile, 1)
	w.OnReload(func(p ffmpeg.Profile) { received <- p })
	run(t, w)

	require.NoError(t, os.WriteFile(path, []byte("[encoding]\nquality = \"bogus\"\n"), 0o644))

	select {
	case <-errs:
	case <-received:
		t.Fatal("handler must not run when the loader fails")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error handler")
	}
}

func TestWatcherStartTwice(t *testing.T) {
	_, w := startProfileWatcher(t, "")
	run(t, w)
	assert.Error(t, w.Start(context.Background()), "second Start")
}

func TestWatcherStopWithoutStart(t *testing.T) {
	_, w := startProfileWatcher(t, "")
	assert.NoError(t, w.Stop())
}
