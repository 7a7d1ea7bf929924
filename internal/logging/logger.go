package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// DefaultBufferSize is the number of entries kept for the logs stream.
const DefaultBufferSize = 1000

// Config holds the global level, output format and per-module overrides.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

type registry struct {
	mu      sync.RWMutex
	config  Config
	loggers map[string]*slog.Logger
	levels  map[string]*slog.LevelVar
	global  *slog.LevelVar
	sink    *sink
}

var reg = &registry{
	loggers: make(map[string]*slog.Logger),
	levels:  make(map[string]*slog.LevelVar),
	global:  &slog.LevelVar{},
	sink:    &sink{buffer: NewRingBuffer(DefaultBufferSize)},
}

// Setup applies cfg to the default logger and every module logger.
func Setup(cfg Config) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.config = cfg
	reg.global.Set(ParseLevel(cfg.Level, slog.LevelInfo))

	for module, lv := range reg.levels {
		lv.Set(reg.moduleLevel(module))
		reg.loggers[module] = slog.New(newHandler(cfg.Format, lv, reg.sink)).With("module", module)
	}

	slog.SetDefault(slog.New(newHandler(cfg.Format, reg.global, reg.sink)))
}

// GetLogger returns the logger for module, creating it on first use.
func GetLogger(module string) *slog.Logger {
	reg.mu.RLock()
	logger, ok := reg.loggers[module]
	reg.mu.RUnlock()
	if ok {
		return logger
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if logger, ok := reg.loggers[module]; ok {
		return logger
	}

	lv := &slog.LevelVar{}
	lv.Set(reg.moduleLevel(module))
	logger = slog.New(newHandler(reg.config.Format, lv, reg.sink)).With("module", module)

	reg.loggers[module] = logger
	reg.levels[module] = lv
	return logger
}

// SetModuleLevel changes a module's level at runtime.
func SetModuleLevel(module, level string) {
	GetLogger(module)

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.config.Modules == nil {
		reg.config.Modules = make(map[string]string)
	}
	reg.config.Modules[module] = level
	reg.levels[module].Set(reg.moduleLevel(module))
}

// Buffer returns the ring buffer that collects recent log entries.
func Buffer() *RingBuffer {
	return reg.sink.buffer
}

// SetLogCallback registers fn to receive every buffered entry. Pass nil to
// stop. The callback runs on the logging goroutine and must not block.
func SetLogCallback(fn func(LogEntry)) {
	reg.sink.setCallback(fn)
}

// moduleLevel must be called with reg.mu held.
func (r *registry) moduleLevel(module string) slog.Level {
	level := ParseLevel(r.config.Level, slog.LevelInfo)
	if override, ok := r.config.Modules[module]; ok {
		level = ParseLevel(override, level)
	}
	return level
}

// newHandler fans out to stdout, the journal when reachable and the ring buffer.
func newHandler(format string, level slog.Leveler, s *sink) slog.Handler {
	handlers := make([]slog.Handler, 0, 3)

	if stdoutAvailable() {
		opts := &slog.HandlerOptions{Level: level}
		if strings.EqualFold(format, "json") {
			handlers = append(handlers, slog.NewJSONHandler(os.Stdout, opts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(os.Stdout, opts))
		}
	}
	if JournalAvailable() {
		handlers = append(handlers, NewJournalHandler(level))
	}
	handlers = append(handlers, NewRingHandler(s, level))

	if len(handlers) == 1 {
		return handlers[0]
	}
	return NewMultiHandler(handlers...)
}

// stdoutAvailable is false when stdout is closed or points at /dev/null.
func stdoutAvailable() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	mode := fi.Mode()
	return mode&(os.ModeCharDevice|os.ModeNamedPipe|os.ModeSocket) != 0 || mode.IsRegular()
}

// ParseLevel converts a level name to slog.Level, returning fallback for
// unknown names.
func ParseLevel(level string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}
