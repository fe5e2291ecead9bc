package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLevel maps a level name or its short alias to a slog level. Unknown
// names map to info.
func ParseLevel(s string) (l slog.Level, ok bool) {
	switch strings.ToLower(s) {
	case "debug", "dbg":
		return slog.LevelDebug, true
	case "info", "inf":
		return slog.LevelInfo, true
	case "warn", "wrn":
		return slog.LevelWarn, true
	case "error", "err":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New returns a text logger writing to w
func New(w io.Writer, level string) *slog.Logger {
	loglevel, _ := ParseLevel(level)
	// slog defaults to logging in the order of time, level, msg, and other attributes.
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: loglevel}))
}

// InitLogger opens the log file at path, creating its directory, and
// installs it as the default logger. The caller closes the returned file.
func InitLogger(path, level string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	slog.SetDefault(New(logFile, level))
	return logFile, nil
}
