package dirsize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"

	"github.com/idelchi/dirrank/internal/diag"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// ErrInvalidTopN is returned when the requested result count is not positive.
var ErrInvalidTopN = errors.New("top count must be positive")

// DefaultWorkers returns the default number of concurrent probes.
// It scales with the CPU count, not with the number of children.
func DefaultWorkers() int {
	return min(32, runtime.NumCPU()+4)
}

// Ranker measures the immediate children of a root and ranks them by size.
//
// A Ranker holds no scan state; one value may serve any number of sequential
// or concurrent calls.
type Ranker struct {
	// Sink receives absorbed errors and dispatch failures.
	Sink diag.Sink
	// Probe measures a single child. Nil uses a Prober reporting to Sink.
	Probe Measurer
	// Workers bounds the number of concurrent probes (0 = DefaultWorkers).
	Workers int
	// ProbeWorkers is passed to the default Prober as its walk concurrency.
	ProbeWorkers int
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// OnProgress, if set, is called periodically while probes run.
	OnProgress func(Progress)
}

// Rank returns the topN largest immediate child directories of root.
func (r Ranker) Rank(ctx context.Context, root string, topN int) (RankedList, error) {
	report, err := r.Analyze(ctx, root, topN)
	if err != nil {
		return nil, err
	}

	return report.Folders, nil
}

// Analyze ranks the children of root like Rank and returns the full report.
//
// Failing to read root itself is the only error besides an invalid topN or a
// cancelled ctx. A child that cannot be probed is reported to the sink and
// listed in Report.Excluded; the scan still succeeds.
func (r Ranker) Analyze(ctx context.Context, root string, topN int) (*Report, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopN, topN)
	}

	if root == "" {
		root = "."
	}

	absRoot, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	children, err := listChildren(absRoot)
	if err != nil {
		return nil, err
	}

	sink := r.Sink
	if sink == nil {
		sink = diag.Discard
	}

	counter := diag.NewCounter(sink)

	probe := r.Probe
	if probe == nil {
		probe = Prober{Sink: counter, Workers: r.ProbeWorkers}
	}

	workers := r.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	collector := newCollector(len(children))

	// Create child context to ensure progress reporter cleanup
	progressCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(progressCtx, collector, r.OnProgress, r.ProgressInterval)

	start := time.Now()

	// Tasks never fail: an excluded child comes back with ok unset.
	tasks := pool.NewWithResults[indexedResult]().WithMaxGoroutines(workers)

	for i, child := range children {
		tasks.Go(func() indexedResult {
			size, err := dispatch(ctx, probe, child)
			if err != nil {
				sink.Report(fmt.Sprintf("excluding %s: %v", child, err))
				collector.exclude(child)

				return indexedResult{index: i}
			}

			collector.add(size)

			return indexedResult{index: i, result: FolderSizeResult{Path: child, Size: size}, ok: true}
		})
	}

	results := tasks.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := collector.finalize(results, topN)

	report.Root = absRoot
	report.ErrorCount = counter.Count()
	report.Elapsed = time.Since(start)

	return report, nil
}

// listChildren returns the absolute paths of the directories directly under root,
// in the order they are read. Symbolic links are not followed.
func listChildren(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("accessing directory %q: %w", root, err)
	}

	children := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			children = append(children, filepath.Join(root, entry.Name()))
		}
	}

	return children, nil
}

// dispatch runs one probe. Errors returned here are dispatch failures; errors
// inside the subtree are absorbed by the probe itself.
func dispatch(ctx context.Context, probe Measurer, path string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	info, err := os.Lstat(path)
	if err != nil {
		return 0, fmt.Errorf("accessing folder: %w", err)
	}

	if !info.IsDir() {
		return 0, fmt.Errorf("path %q is no longer a directory", path)
	}

	var size uint64

	if recovered := panics.Try(func() { size = probe.Measure(ctx, path) }); recovered != nil {
		return 0, fmt.Errorf("probe failed: %w", recovered.AsError())
	}

	return size, nil
}

// startProgressReporter invokes hook with a snapshot on each tick until ctx is done.
//
//nolint:varnamelen // c is idiomatic for collector
func startProgressReporter(ctx context.Context, c *collector, hook func(Progress), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.snapshot())
			case <-ctx.Done():
				return
			}
		}
	}()
}
