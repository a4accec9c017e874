package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idelchi/dirrank/internal/config"
)

func isolate(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", filepath.Join(dir, "home"))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Top != 10 || cfg.Output != "table" || cfg.Log.Format != "text" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	if size, _ := cfg.MinSizeBytes(); size != 0 {
		t.Errorf("MinSizeBytes() = %d, want 0", size)
	}
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "dirrank.yaml")
	content := "top: 3\noutput: json\nmin-size: 1KiB\nlog:\n  format: json\n"

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("DIRRANK_WORKERS", "6")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "table", "")

	if err := flags.Parse([]string{"--output", "yaml"}); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}

	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		t.Fatalf("binding flags: %v", err)
	}

	cfg, err := config.Load(v, path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Top != 3 {
		t.Errorf("Top = %d, want 3 from file", cfg.Top)
	}

	if cfg.Workers != 6 {
		t.Errorf("Workers = %d, want 6 from env", cfg.Workers)
	}

	if cfg.Output != "yaml" {
		t.Errorf("Output = %q, want yaml from flag", cfg.Output)
	}

	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}

	if size, _ := cfg.MinSizeBytes(); size != 1024 {
		t.Errorf("MinSizeBytes() = %d, want 1024", size)
	}
}

func TestLoad_DiscoversDefaultFile(t *testing.T) {
	isolate(t)

	if err := os.WriteFile("dirrank.yaml", []byte("top: 7\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := config.Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Top != 7 {
		t.Errorf("Top = %d, want 7", cfg.Top)
	}
}

func TestLoad_Errors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		content string
	}{
		{name: "zero top", content: "top: 0\n"},
		{name: "bad output", content: "output: html\n"},
		{name: "negative workers", content: "workers: -1\n"},
		{name: "bad min size", content: "min-size: lots\n"},
		{name: "bad log format", content: "log:\n  format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dirrank.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("writing config: %v", err)
			}

			if _, err := config.Load(viper.New(), path); !errors.Is(err, config.ErrInvalid) {
				t.Errorf("Load() error = %v, want ErrInvalid", err)
			}
		})
	}

	if _, err := config.Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() with a missing explicit file expected error")
	}
}
