//go:build integration

package steps

import (
	"errors"
	"fmt"
	"os"

	"github.com/idelchi/dirrank/internal/guard"
)

func (s *scenario) isMyHomeDirectory(name string) error {
	s.home = s.path(name)

	return nil
}

func (s *scenario) iDeleteTheFolder(name string) error {
	g := guard.New()
	if s.home != "" {
		g.Home = func() (string, error) { return s.home, nil }
	}

	s.outcome = g.Delete(s.path(name))

	return nil
}

func (s *scenario) theDeletionShouldSucceed() error {
	if !s.outcome.Success {
		return fmt.Errorf("expected success, got %q", s.outcome.Message)
	}

	return nil
}

func (s *scenario) theDeletionShouldFailWith(message string) error {
	if s.outcome.Success {
		return errors.New("expected the deletion to fail")
	}

	if s.outcome.Message != message {
		return fmt.Errorf("expected %q, got %q", message, s.outcome.Message)
	}

	return nil
}

func (s *scenario) theFolderShouldNotExist(name string) error {
	if _, err := os.Stat(s.path(name)); !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("expected %s to be gone: %v", name, err)
	}

	return nil
}

func (s *scenario) theFolderShouldExist(name string) error {
	if _, err := os.Stat(s.path(name)); err != nil {
		return fmt.Errorf("expected %s to exist: %w", name, err)
	}

	return nil
}
