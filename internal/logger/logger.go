// Package logger provides the process-wide structured logger for meos.
// Output goes to stderr by default so it never mixes with command output.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.RWMutex
	output io.Writer = os.Stderr
	level            = new(slog.LevelVar)
	format           = "text"
	logger           = newLogger(output, format)
)

// Setup configures the level, the format ("text" or "json") and the writer.
// A nil writer keeps the current one.
func Setup(lvl, fmtName string, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w != nil {
		output = w
	}
	level.Set(ParseLevel(lvl))
	format = strings.ToLower(fmtName)
	logger = newLogger(output, format)
}

// SetVerbose switches between debug and info level.
func SetVerbose(v bool) {
	if v {
		level.Set(slog.LevelDebug)
		return
	}
	level.Set(slog.LevelInfo)
}

// IsVerbose reports whether debug messages are emitted.
func IsVerbose() bool {
	return L().Enabled(context.Background(), slog.LevelDebug)
}

// SetOutput sets the output writer. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	logger = newLogger(output, format)
}

// L returns the current logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// With returns a logger tagged with a component name.
func With(component string) *slog.Logger {
	return L().With(slog.String("component", component))
}

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

func newLogger(w io.Writer, f string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if f == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
