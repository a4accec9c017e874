// Package config loads dirrank settings from flags, environment and config files.
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
)

// ErrInvalid indicates a configuration value is out of range or malformed.
var ErrInvalid = errors.New("invalid config")

// Outputs lists the accepted output formats.
//
//nolint:gochecknoglobals // Config constant
var Outputs = []string{"table", "json", "yaml", "plain"}

// Log configures the diagnostic logger.
type Log struct {
	// File is the path of a rotating log file (empty = stderr only).
	File string `mapstructure:"file"`
	// Format is the log format: text or json.
	Format string `mapstructure:"format"`
	// MaxSizeMB is the size before the log file is rotated.
	MaxSizeMB int `mapstructure:"max-size-mb"`
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int `mapstructure:"max-backups"`
	// MaxAgeDays is the number of days to keep rotated files.
	MaxAgeDays int `mapstructure:"max-age-days"`
}

// Config holds all settings for a dirrank invocation.
type Config struct {
	// Top is the number of folders to report.
	Top int `mapstructure:"top"`
	// Output is the output format.
	Output string `mapstructure:"output"`
	// Workers bounds concurrent probes (0 = auto).
	Workers int `mapstructure:"workers"`
	// ProbeWorkers is the walk concurrency inside each probe (0 = auto).
	ProbeWorkers int `mapstructure:"probe-workers"`
	// MinSize hides folders smaller than this, e.g. "10MB".
	MinSize string `mapstructure:"min-size"`
	// Interactive starts the terminal UI.
	Interactive bool `mapstructure:"interactive"`
	// Debug enables debug logging.
	Debug bool `mapstructure:"debug"`
	// Log configures diagnostic logging.
	Log Log `mapstructure:"log"`
}

// Validate checks that all values are usable.
func (c Config) Validate() error {
	if c.Top <= 0 {
		return fmt.Errorf("%w: top must be positive, got %d", ErrInvalid, c.Top)
	}

	if !slices.Contains(Outputs, c.Output) {
		return fmt.Errorf("%w: output %q must be one of %v", ErrInvalid, c.Output, Outputs)
	}

	if c.Workers < 0 || c.ProbeWorkers < 0 {
		return fmt.Errorf("%w: worker counts cannot be negative", ErrInvalid)
	}

	if _, err := c.MinSizeBytes(); err != nil {
		return err
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log format %q must be text or json", ErrInvalid, c.Log.Format)
	}

	return nil
}

// MinSizeBytes parses MinSize. An empty value means no threshold.
func (c Config) MinSizeBytes() (uint64, error) {
	if c.MinSize == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(c.MinSize)
	if err != nil {
		return 0, fmt.Errorf("%w: min-size: %w", ErrInvalid, err)
	}

	return size, nil
}
