// Package testutil provides helpers for building directory trees in tests.
package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// WriteFile creates root/rel with size bytes of content, creating parent
// directories as needed. It returns the full path.
func WriteFile(t *testing.T, root, rel string, size int) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent directory: %v", err)
	}

	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	return path
}

// Mkdir creates root/rel and its parents. It returns the full path.
func Mkdir(t *testing.T, root, rel string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))

	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create test directory: %v", err)
	}

	return path
}

// Tree creates one file per entry, mapping slash-separated relative paths to sizes.
func Tree(t *testing.T, root string, files map[string]int) {
	t.Helper()

	for rel, size := range files {
		WriteFile(t, root, rel, size)
	}
}

// Canonical resolves symlinks in path, so tests compare against what the engine returns
// on systems where the temp directory is itself a symlink.
func Canonical(t *testing.T, path string) string {
	t.Helper()

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve %s: %v", path, err)
	}

	return resolved
}

// Sink records diagnostic messages. It is safe for concurrent use.
type Sink struct {
	mu       sync.Mutex
	messages []string
}

// Report records message.
func (s *Sink) Report(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, message)
}

// Messages returns a copy of the recorded messages.
func (s *Sink) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.messages...)
}
