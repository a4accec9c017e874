package diag

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig configures the optional rotating log file.
type FileConfig struct {
	// Path is the log file location. Empty disables file output.
	Path string
	// MaxSizeMB is the size in megabytes before the file is rotated.
	MaxSizeMB int
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int
	// MaxAgeDays is the number of days to keep rotated files.
	MaxAgeDays int
}

// Config configures the diagnostic logger.
type Config struct {
	// Debug lowers the level from warn to debug.
	Debug bool
	// Format is "text" or "json".
	Format string
	// Writer is the console destination (defaults to stderr).
	Writer io.Writer
	// File enables an additional rotating file output.
	File FileConfig
}

type closers []io.Closer

func (c closers) Close() error {
	var errs []error

	for _, closer := range c {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// NewLogger builds a slog logger from cfg.
// The returned closer releases the log file, if any, and must be called on exit.
func NewLogger(cfg Config) (*slog.Logger, io.Closer, error) {
	console := cfg.Writer
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{console}

	var owned closers

	if cfg.File.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}

		file := &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
		}

		writers = append(writers, file)
		owned = append(owned, file)
	}

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	out := io.MultiWriter(writers...)

	var handler slog.Handler

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		handler = slog.NewTextHandler(out, opts)
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	default:
		return nil, nil, fmt.Errorf("invalid log format %q: must be one of [text json]", cfg.Format)
	}

	return slog.New(handler), owned, nil
}
