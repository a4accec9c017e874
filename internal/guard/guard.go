// Package guard validates and performs recursive folder deletion.
package guard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Deletion precondition failures. Their text is the message shown to the user.
var (
	// ErrNotExist indicates the path does not exist.
	ErrNotExist = errors.New("Folder does not exist") //nolint:staticcheck,revive // User-facing message
	// ErrNotDirectory indicates the path is not a directory.
	ErrNotDirectory = errors.New("Path is not a directory") //nolint:staticcheck,revive // User-facing message
	// ErrHomeDirectory indicates the path resolves to the user's home directory.
	ErrHomeDirectory = errors.New("Cannot delete home directory") //nolint:staticcheck,revive // User-facing message
	// ErrSymlink indicates the path is a symbolic link rather than a directory.
	ErrSymlink = errors.New("Refusing to delete a symbolic link") //nolint:staticcheck,revive // User-facing message
)

// Outcome is the result of a deletion attempt.
type Outcome struct {
	// Success reports whether the directory was fully removed.
	Success bool `json:"success"`
	// Message describes the failure. It is empty on success.
	Message string `json:"message"`
}

// Err returns nil for a successful outcome and an error carrying Message otherwise.
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}

	return errors.New(o.Message)
}

func failure(err error) Outcome {
	return Outcome{Message: err.Error()}
}

// Guard deletes folders after rejecting unsafe targets.
// It holds no locks; serializing deletes with running scans is up to the caller.
type Guard struct {
	// Fs is the filesystem to operate on.
	Fs afero.Fs
	// Home returns the user's home directory.
	Home func() (string, error)
	// Canonical resolves a path to its real location for identity checks.
	Canonical func(path string) (string, error)
}

// New returns a Guard operating on the real filesystem.
func New() Guard {
	return Guard{
		Fs:        afero.NewOsFs(),
		Home:      os.UserHomeDir,
		Canonical: canonical,
	}
}

// canonical returns the absolute path of path with all symlinks resolved.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}

// Delete recursively removes the directory at path.
//
// The checks run in order and stop at the first failure: the path must exist,
// be a directory and not resolve to the home directory. No rollback happens if
// removal fails halfway; the directory is then left partially deleted.
func (g Guard) Delete(path string) Outcome {
	info, err := g.Fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return failure(ErrNotExist)
		}

		return failure(fmt.Errorf("accessing %q: %w", path, err))
	}

	if !info.IsDir() {
		return failure(ErrNotDirectory)
	}

	isHome, err := g.isHome(path, info)
	if err != nil {
		return failure(err)
	}

	if isHome {
		return failure(ErrHomeDirectory)
	}

	if lstater, ok := g.Fs.(afero.Lstater); ok {
		if linfo, _, err := lstater.LstatIfPossible(path); err == nil && linfo.Mode()&fs.ModeSymlink != 0 {
			return failure(ErrSymlink)
		}
	}

	if err := g.Fs.RemoveAll(path); err != nil {
		return failure(fmt.Errorf("deleting %q: %w", path, err))
	}

	return Outcome{Success: true}
}

// isHome compares canonical paths, falling back to file identity so that
// aliases of the home directory are caught as well.
func (g Guard) isHome(path string, info fs.FileInfo) (bool, error) {
	if g.Home == nil {
		return false, nil
	}

	home, err := g.Home()
	if err != nil {
		return false, fmt.Errorf("resolving home directory: %w", err)
	}

	resolve := g.Canonical
	if resolve == nil {
		resolve = canonical
	}

	target, err := resolve(path)
	if err != nil {
		return false, fmt.Errorf("resolving %q: %w", path, err)
	}

	if canonicalHome, err := resolve(home); err == nil && canonicalHome == target {
		return true, nil
	}

	homeInfo, err := g.Fs.Stat(home)
	if err != nil {
		return false, nil //nolint:nilerr // A missing home cannot be the target
	}

	return os.SameFile(info, homeInfo), nil
}
