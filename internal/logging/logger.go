package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Config represents logging configuration.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	File    string            `toml:"file"`
	Modules map[string]string `toml:"modules"`
}

var (
	mutex         sync.RWMutex
	globalConfig  Config
	isInitialized bool
	moduleLoggers = make(map[string]*slog.Logger)
	logFile       *os.File
)

// Initialize sets up the logging system. Call once at process start,
// before any component asks for a logger.
func Initialize(config Config) {
	mutex.Lock()
	defer mutex.Unlock()

	globalConfig = config
	isInitialized = true

	if config.File != "" {
		f, err := os.OpenFile(config.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logging: cannot open log file %s: %v\n", config.File, err)
		} else {
			logFile = f
		}
	}

	// Recreate loggers handed out before Initialize so they pick up
	// the configured format, levels, and file output.
	for module := range moduleLoggers {
		moduleLoggers[module] = newModuleLogger(module)
	}

	slog.SetDefault(slog.New(createHandler(globalConfig.Format, moduleLevel(""))))
}

// Close flushes and closes the log file, if one was opened.
// Call at process end.
func Close() {
	mutex.Lock()
	defer mutex.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// GetLogger returns a logger for the specified module, creating it if needed.
// Every record carries a "module" attribute for filtering.
func GetLogger(module string) *slog.Logger {
	mutex.RLock()
	if logger, exists := moduleLoggers[module]; exists {
		mutex.RUnlock()
		return logger
	}
	mutex.RUnlock()

	mutex.Lock()
	defer mutex.Unlock()

	// Another goroutine may have created it between the two locks.
	if logger, exists := moduleLoggers[module]; exists {
		return logger
	}

	logger := newModuleLogger(module)
	moduleLoggers[module] = logger
	return logger
}

func newModuleLogger(module string) *slog.Logger {
	format := "text"
	if isInitialized {
		format = globalConfig.Format
	}
	handler := createHandler(format, moduleLevel(module))
	return slog.New(handler).With("module", module)
}

// moduleLevel resolves the level for a module: module-specific override
// first, then the global level, then info.
func moduleLevel(module string) slog.Level {
	if !isInitialized {
		return slog.LevelInfo
	}
	if levelStr, ok := globalConfig.Modules[module]; ok {
		if parsed, err := parseLevel(levelStr); err == nil {
			return parsed
		}
	}
	if parsed, err := parseLevel(globalConfig.Level); err == nil {
		return parsed
	}
	return slog.LevelInfo
}

// createHandler builds the handler chain: stdout always, systemd journal
// when available, and the configured log file when open.
func createHandler(format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	handlers := []slog.Handler{textOrJSON(format, os.Stdout, opts)}
	if IsJournalAvailable() {
		handlers = append(handlers, NewJournalHandler(level))
	}
	if logFile != nil {
		handlers = append(handlers, textOrJSON(format, logFile, opts))
	}

	if len(handlers) == 1 {
		return handlers[0]
	}
	return NewFanoutHandler(handlers...)
}

func textOrJSON(format string, w *os.File, opts *slog.HandlerOptions) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLevel converts a string level to slog.Level.
func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
