package dirsize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"

	"github.com/idelchi/dirrank/internal/diag"
)

// Measurer computes the total byte size of one directory subtree.
type Measurer interface {
	Measure(ctx context.Context, path string) uint64
}

// Prober is the fastwalk based Measurer.
type Prober struct {
	// Sink receives every absorbed per-entry error.
	Sink diag.Sink
	// Workers is the number of walk goroutines per probe (0 = fastwalk default).
	Workers int
}

// Measure returns the sum of the sizes of all regular files under path.
//
// Directory read and stat failures are reported to the sink and skipped, so a
// failing branch never hides its siblings. An inaccessible path yields 0.
// Symbolic links are neither followed nor counted. If ctx is cancelled the walk
// stops early and the partial total is returned.
func (p Prober) Measure(ctx context.Context, path string) uint64 {
	sink := p.Sink
	if sink == nil {
		sink = diag.Discard
	}

	var total atomic.Uint64

	conf := &fastwalk.Config{
		Follow:     false, // Don't follow symlinks
		NumWorkers: p.Workers,
	}

	// fastwalk invokes the callback from multiple goroutines concurrently.
	//
	//nolint:varnamelen // d is standard for DirEntry
	err := fastwalk.Walk(conf, path, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			sink.Report(fmt.Sprintf("error accessing directory %s: %v", path, err))

			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			sink.Report(fmt.Sprintf("error accessing file %s: %v", path, err))

			return nil
		}

		total.Add(uint64(info.Size())) //nolint:gosec // Regular file sizes are never negative

		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		sink.Report(fmt.Sprintf("error accessing directory %s: %v", path, err))
	}

	return total.Load()
}
