package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/dirrank/internal/config"
	"github.com/idelchi/dirrank/internal/coordinator"
	"github.com/idelchi/dirrank/internal/diag"
	"github.com/idelchi/dirrank/internal/dirsize"
	"github.com/idelchi/dirrank/internal/guard"
	"github.com/idelchi/dirrank/internal/tui"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newLogger builds the diagnostic logger described by cfg, writing to console.
func newLogger(cfg *config.Config, console io.Writer) (*slog.Logger, io.Closer, error) {
	return diag.NewLogger(diag.Config{
		Debug:  cfg.Debug,
		Format: cfg.Log.Format,
		Writer: console,
		File: diag.FileConfig{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		},
	})
}

// scan ranks the children of path and prints them, or starts the terminal UI.
func (c CLI) scan(ctx context.Context, cfg *config.Config, path string) (err error) {
	console := c.stderr
	if cfg.Interactive {
		// The UI owns the terminal; diagnostics only go to the log file.
		console = io.Discard
	}

	logger, closer, err := newLogger(cfg, console)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closer.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing log file: %w", closeErr)
		}
	}()

	ranker := dirsize.Ranker{
		Sink:         diag.NewSlogSink(logger),
		Workers:      cfg.Workers,
		ProbeWorkers: cfg.ProbeWorkers,
	}

	logger.Debug("scan requested", "path", path, "top", cfg.Top, "workers", cfg.Workers)

	if cfg.Interactive {
		return tui.Run(ctx, tui.Options{
			Root:   path,
			TopN:   cfg.Top,
			Ranker: ranker,
			Guard:  guard.New(),
			Logger: logger,
		})
	}

	enableProgress := cfg.Output == "table" && !cfg.Debug && isTerminal(c.stderr)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(c.stderr, "\033[?25l")
		defer fmt.Fprint(c.stderr, "\033[?25h")

		ranker.OnProgress = func(p dirsize.Progress) {
			msg := fmt.Sprintf("Scanning… %d/%d folders, %s", p.Done, p.Total, humanize.IBytes(p.Bytes))
			fmt.Fprintf(c.stderr, "\r\033[2K%s\r", msg)
		}
	}

	report, err := c.awaitScan(ctx, ranker, path, cfg.Top)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(c.stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	minSize, err := cfg.MinSizeBytes()
	if err != nil {
		return err
	}

	report.Folders = filterMinSize(report.Folders, minSize)

	switch cfg.Output {
	case "json":
		return PrintJSON(report, c.stdout)
	case "yaml":
		return PrintYAML(report, c.stdout)
	case "plain":
		return PrintPlain(report, c.stdout)
	case "table":
		return PrintTable(report, c.stdout)
	default:
		return fmt.Errorf("unknown output format: %s", cfg.Output)
	}
}

// awaitScan runs the scan through a coordinator and waits on the calling
// goroutine for its single callback.
func (c CLI) awaitScan(ctx context.Context, analyzer coordinator.Analyzer, path string, topN int) (*dirsize.Report, error) {
	loop := coordinator.NewLoop(1)

	var (
		report  *dirsize.Report
		scanErr error
	)

	coordinator.New(analyzer, loop).Scan(ctx, path, topN,
		func(r *dirsize.Report) { report = r },
		func(message string) { scanErr = errors.New(message) },
	)

	if err := loop.RunOnce(ctx); err != nil {
		return nil, err
	}

	return report, scanErr
}

// filterMinSize drops folders smaller than minSize, keeping the order.
func filterMinSize(folders dirsize.RankedList, minSize uint64) dirsize.RankedList {
	if minSize == 0 {
		return folders
	}

	kept := make(dirsize.RankedList, 0, len(folders))

	for _, folder := range folders {
		if folder.Size >= minSize {
			kept = append(kept, folder)
		}
	}

	return kept
}
