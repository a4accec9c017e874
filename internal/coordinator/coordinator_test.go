package coordinator_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/idelchi/dirrank/internal/coordinator"
	"github.com/idelchi/dirrank/internal/dirsize"
	"github.com/idelchi/dirrank/internal/testutil"
)

// blockingAnalyzer waits for release before delegating.
type blockingAnalyzer struct {
	release chan struct{}
	inner   coordinator.Analyzer
}

func (b blockingAnalyzer) Analyze(ctx context.Context, root string, topN int) (*dirsize.Report, error) {
	<-b.release

	return b.inner.Analyze(ctx, root, topN)
}

// countingExecutor records that callbacks went through Post.
type countingExecutor struct {
	posts atomic.Int32
	inner coordinator.Executor
}

func (c *countingExecutor) Post(fn func()) {
	c.posts.Add(1)
	c.inner.Post(fn)
}

func TestCoordinator_ScanDoesNotBlock(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "A/a.bin", 300)
	testutil.WriteFile(t, root, "B/b.bin", 100)
	testutil.WriteFile(t, root, "C/c.bin", 200)

	release := make(chan struct{})
	loop := coordinator.NewLoop(0)
	executor := &countingExecutor{inner: loop}
	coord := coordinator.New(blockingAnalyzer{release: release, inner: dirsize.Ranker{}}, executor)

	var (
		completed *dirsize.Report
		calls     int
	)

	coord.Scan(context.Background(), root, 2,
		func(r *dirsize.Report) {
			calls++
			completed = r
		},
		func(string) { calls++ },
	)

	// Scan returned while the analyzer is still blocked.
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := loop.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	if calls != 1 || completed == nil {
		t.Fatalf("calls = %d, completed = %v; want one completion", calls, completed)
	}

	want := []string{"A", "C"}
	for i, name := range want {
		if completed.Folders[i].Path != filepath.Join(root, name) {
			t.Errorf("Folders[%d] = %s, want %s", i, completed.Folders[i].Path, name)
		}
	}

	if executor.posts.Load() != 1 {
		t.Errorf("posts = %d, want 1", executor.posts.Load())
	}

	short, cancelShort := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelShort()

	if err := loop.RunOnce(short); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("second RunOnce() = %v, want no further callbacks", err)
	}
}

func TestCoordinator_ScanError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	loop := coordinator.NewLoop(1)
	coord := coordinator.New(dirsize.Ranker{}, loop)

	var (
		message   string
		completed bool
	)

	coord.Scan(context.Background(), missing, 10,
		func(*dirsize.Report) { completed = true },
		func(msg string) { message = msg },
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := loop.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	if completed {
		t.Error("onComplete called for a missing root")
	}

	if message == "" {
		t.Error("onError called with an empty message")
	}
}

// panickingAnalyzer fails by panicking instead of returning an error.
type panickingAnalyzer struct{}

func (panickingAnalyzer) Analyze(context.Context, string, int) (*dirsize.Report, error) {
	panic("analyzer exploded")
}

func TestCoordinator_ScanAnalyzerPanics(t *testing.T) {
	loop := coordinator.NewLoop(1)
	executor := &countingExecutor{inner: loop}

	var (
		messages  []string
		completed bool
	)

	coordinator.New(panickingAnalyzer{}, executor).Scan(context.Background(), t.TempDir(), 10,
		func(*dirsize.Report) { completed = true },
		func(msg string) { messages = append(messages, msg) },
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := loop.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	if completed {
		t.Error("onComplete called after a panic")
	}

	if len(messages) != 1 || !strings.Contains(messages[0], "analyzer exploded") {
		t.Errorf("onError messages = %v, want one mentioning the panic", messages)
	}

	if executor.posts.Load() != 1 {
		t.Errorf("posts = %d, want 1", executor.posts.Load())
	}
}

func TestCoordinator_Inline(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "only/x.bin", 1)

	done := make(chan *dirsize.Report, 1)

	coordinator.New(dirsize.Ranker{}, coordinator.Inline{}).Scan(context.Background(), root, 1,
		func(r *dirsize.Report) { done <- r },
		func(msg string) { t.Errorf("unexpected error: %s", msg) },
	)

	select {
	case r := <-done:
		if len(r.Folders) != 1 {
			t.Errorf("Folders = %v, want one", r.Folders)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not complete")
	}
}

func TestLoop_RunStopsOnCancel(t *testing.T) {
	loop := coordinator.NewLoop(2)

	var ran atomic.Int32

	loop.Post(func() { ran.Add(1) })
	loop.Post(func() { ran.Add(1) })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := loop.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want deadline exceeded", err)
	}

	if ran.Load() != 2 {
		t.Errorf("ran = %d, want 2", ran.Load())
	}
}
