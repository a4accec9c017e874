// Package coordinator runs scans off the interactive goroutine and hands the
// result back to it.
//
// A Coordinator starts one goroutine per Scan call. When the ranking finishes,
// exactly one callback is posted to the Executor, which decides where callbacks
// run: a Loop drained by the caller, a bubbletea program, or inline.
package coordinator

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/panics"

	"github.com/idelchi/dirrank/internal/dirsize"
)

// Analyzer produces a ranked report for a root directory.
type Analyzer interface {
	Analyze(ctx context.Context, root string, topN int) (*dirsize.Report, error)
}

// Executor runs callbacks on the interactive goroutine.
type Executor interface {
	Post(fn func())
}

// Coordinator orchestrates scan requests.
//
// It performs no mutual exclusion between scans: callers that must not run two
// scans at once have to wait for the callback of the first before starting the next.
type Coordinator struct {
	analyzer Analyzer
	executor Executor
}

// New returns a Coordinator that ranks with analyzer and posts callbacks to executor.
func New(analyzer Analyzer, executor Executor) *Coordinator {
	return &Coordinator{analyzer: analyzer, executor: executor}
}

// Scan ranks the children of root in the background and returns immediately.
// Exactly one of onComplete or onError is posted to the executor, exactly once.
func (c *Coordinator) Scan(
	ctx context.Context,
	root string,
	topN int,
	onComplete func(*dirsize.Report),
	onError func(message string),
) {
	go func() {
		var (
			report *dirsize.Report
			err    error
		)

		if recovered := panics.Try(func() { report, err = c.analyzer.Analyze(ctx, root, topN) }); recovered != nil {
			err = fmt.Errorf("scan failed: %w", recovered.AsError())
		}

		if err != nil {
			c.executor.Post(func() { onError(err.Error()) })

			return
		}

		c.executor.Post(func() { onComplete(report) })
	}()
}
