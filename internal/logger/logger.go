// Package logger builds the process-wide slog.Logger from configuration.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const DefaultLogFile = "review-bench.log"

// Config holds the logger configuration.
type Config struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// NewLogger creates a text or JSON logger. When output is nil the
// destination comes from cfg.Output: "stdout", "stderr" (default) or "file".
func NewLogger(cfg Config, output io.Writer) *slog.Logger {
	if output == nil {
		output = openOutput(cfg)
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps "debug", "info", "warn" or "error" (any case) to a level.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Open returns the destination named by cfg.Output and a func releasing it.
// Only "file" allocates anything; stdout and stderr are never closed.
func Open(cfg Config) (io.Writer, func(), error) {
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		return os.Stdout, func() {}, nil
	case "file":
		path := cfg.FilePath
		if path == "" {
			path = DefaultLogFile
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		return f, func() { _ = f.Close() }, nil
	default:
		return os.Stderr, func() {}, nil
	}
}

func openOutput(cfg Config) io.Writer {
	w, _, err := Open(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return os.Stderr
	}
	return w
}
