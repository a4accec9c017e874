package dirsize_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/idelchi/dirrank/internal/dirsize"
	"github.com/idelchi/dirrank/internal/testutil"
)

func TestProber_Measure(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]int
		want  uint64
	}{
		{name: "empty", files: nil, want: 0},
		{name: "flat", files: map[string]int{"a.bin": 100, "b.bin": 23}, want: 123},
		{
			name: "nested",
			files: map[string]int{
				"a.bin":          10,
				"x/b.bin":        20,
				"x/y/c.bin":      30,
				"x/y/z/d.bin":    40,
				"w/empty-file":   0,
				"w/v/u/t/e.data": 1000,
			},
			want: 1100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			testutil.Tree(t, root, tt.files)

			sink := &testutil.Sink{}
			got := dirsize.Prober{Sink: sink}.Measure(context.Background(), root)

			if got != tt.want {
				t.Errorf("Measure() = %d, want %d", got, tt.want)
			}

			if msgs := sink.Messages(); len(msgs) != 0 {
				t.Errorf("unexpected diagnostics: %v", msgs)
			}
		})
	}
}

func TestProber_MeasureMissingPath(t *testing.T) {
	sink := &testutil.Sink{}
	missing := filepath.Join(t.TempDir(), "missing")

	if got := (dirsize.Prober{Sink: sink}).Measure(context.Background(), missing); got != 0 {
		t.Errorf("Measure() = %d, want 0", got)
	}

	if len(sink.Messages()) == 0 {
		t.Error("expected the inaccessible root to be reported")
	}
}

func TestProber_MeasureSkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	outside := t.TempDir()
	testutil.WriteFile(t, outside, "big.bin", 5000)

	root := t.TempDir()
	testutil.WriteFile(t, root, "small.bin", 7)

	if err := os.Symlink(outside, filepath.Join(root, "linked-dir")); err != nil {
		t.Fatalf("creating symlink: %v", err)
	}

	if err := os.Symlink(filepath.Join(outside, "big.bin"), filepath.Join(root, "linked-file")); err != nil {
		t.Fatalf("creating symlink: %v", err)
	}

	if got := (dirsize.Prober{}).Measure(context.Background(), root); got != 7 {
		t.Errorf("Measure() = %d, want 7", got)
	}
}

func TestProber_MeasureUnreadableBranch(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	root := t.TempDir()
	testutil.Tree(t, root, map[string]int{
		"ok/a.bin":     100,
		"locked/b.bin": 900,
		"c.bin":        11,
	})

	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	sink := &testutil.Sink{}

	if got := (dirsize.Prober{Sink: sink}).Measure(context.Background(), root); got != 111 {
		t.Errorf("Measure() = %d, want 111", got)
	}

	if len(sink.Messages()) == 0 {
		t.Error("expected the unreadable directory to be reported")
	}
}

func TestProber_MeasureCancelled(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "a/b.bin", 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &testutil.Sink{}

	if got := (dirsize.Prober{Sink: sink}).Measure(ctx, root); got != 0 {
		t.Errorf("Measure() = %d, want 0 for a cancelled walk", got)
	}

	if msgs := sink.Messages(); len(msgs) != 0 {
		t.Errorf("cancellation must not be reported as an entry error: %v", msgs)
	}
}
