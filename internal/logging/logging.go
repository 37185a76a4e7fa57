// Package logging configures the converter's slog output: a text handler
// on stderr plus an optional file handler, fanned out through MultiHandler.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ParseLevel converts a string log level to slog.Level. Unknown levels
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds the converter logger. file may be nil, in which case only
// the console handler is installed. Timestamps are rendered RFC3339 UTC.
func Setup(file io.Writer, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	handlers := []slog.Handler{slog.NewTextHandler(os.Stderr, opts)}
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, opts))
	}

	return slog.New(NewMultiHandler(handlers...))
}

// LogFilePath builds a log file path using OS-appropriate path separators.
func LogFilePath(logsDir, toolName string, start time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", toolName, start.Format("20060102_150405")),
	)
}
