// Package simplelogger builds the process's slog.Logger from the environment.
//
// Logging is off unless MINEDIT_LOG_FILE names a file; records are appended to it in slog's text format. MINEDIT_LOG_LEVEL (debug, info, warn, error) sets the minimum level, default
// info.
package simplelogger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	EnvLogFile  = "MINEDIT_LOG_FILE"
	EnvLogLevel = "MINEDIT_LOG_LEVEL"
)

var mu sync.Mutex

// New returns a logger configured from the environment. It never fails: an unset MINEDIT_LOG_FILE yields a logger that discards everything.
func New() *slog.Logger {
	path := os.Getenv(EnvLogFile)
	if path == "" {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(appendWriter{path: path}, &slog.HandlerOptions{Level: level(os.Getenv(EnvLogLevel))}))
}

func level(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// appendWriter opens path for append on every Write. slog handlers write each record in a single call, so records from concurrent goroutines (and, mostly, processes) don't
// interleave. A path that can't be opened drops the record.
type appendWriter struct {
	path string
}

func (w appendWriter) Write(p []byte) (int, error) {
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return len(p), nil
	}
	defer f.Close()

	if _, err := f.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}
