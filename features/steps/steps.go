//go:build integration

// Package steps implements the godog step definitions for dirrank features.
package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"

	"github.com/idelchi/dirrank/internal/dirsize"
	"github.com/idelchi/dirrank/internal/guard"
)

// scenario holds the state of one scenario; a fresh one is created per scenario.
type scenario struct {
	root    string
	home    string
	report  *dirsize.Report
	scanErr string
	// unmeasurable holds the paths whose measurement fails.
	unmeasurable map[string]bool
	outcome      guard.Outcome
}

// InitializeScenario registers all steps.
func InitializeScenario(ctx *godog.ScenarioContext) {
	s := &scenario{}

	ctx.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		root, err := os.MkdirTemp("", "dirrank-feature-*")
		if err != nil {
			return c, err
		}

		s.root = root
		s.unmeasurable = make(map[string]bool)

		return c, nil
	})

	ctx.After(func(c context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		return c, os.RemoveAll(s.root)
	})

	ctx.Step(`^a folder "([^"]*)" containing (\d+) bytes$`, s.aFolderContainingBytes)
	ctx.Step(`^a file "([^"]*)" containing (\d+) bytes$`, s.aFileContainingBytes)
	ctx.Step(`^(\d+) folders of increasing size$`, s.foldersOfIncreasingSize)
	ctx.Step(`^the folders ((?:"[^"]*"(?:, | and )?)+) cannot be measured$`, s.theFoldersCannotBeMeasured)
	ctx.Step(`^I rank the top (\d+) folders$`, s.iRankTheTopFolders)
	ctx.Step(`^I rank the top (\d+) folders of a missing root$`, s.iRankTheTopFoldersOfAMissingRoot)
	ctx.Step(`^the ranking should be:$`, s.theRankingShouldBe)
	ctx.Step(`^the scan should fail$`, s.theScanShouldFail)
	ctx.Step(`^no ranking should be returned$`, s.noRankingShouldBeReturned)
	ctx.Step(`^every one of the (\d+) folders should be ranked exactly once$`, s.everyFolderRankedOnce)
	ctx.Step(`^(\d+) folders should be ranked$`, s.foldersShouldBeRanked)
	ctx.Step(`^the excluded folders should be:$`, s.theExcludedFoldersShouldBe)
	ctx.Step(`^every one of the (\d+) folders should be ranked or excluded exactly once$`, s.everyFolderRankedOrExcludedOnce)

	ctx.Step(`^"([^"]*)" is my home directory$`, s.isMyHomeDirectory)
	ctx.Step(`^I delete the folder "([^"]*)"$`, s.iDeleteTheFolder)
	ctx.Step(`^the deletion should succeed$`, s.theDeletionShouldSucceed)
	ctx.Step(`^the deletion should fail with "([^"]*)"$`, s.theDeletionShouldFailWith)
	ctx.Step(`^the folder "([^"]*)" should not exist$`, s.theFolderShouldNotExist)
	ctx.Step(`^the folder "([^"]*)" should exist$`, s.theFolderShouldExist)
}

func (s *scenario) path(name string) string {
	return filepath.Join(s.root, name)
}

func (s *scenario) writeFile(rel string, size int) error {
	path := s.path(rel)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, make([]byte, size), 0o644)
}

func (s *scenario) aFolderContainingBytes(name string, size int) error {
	return s.writeFile(filepath.Join(name, "data.bin"), size)
}

func (s *scenario) aFileContainingBytes(name string, size int) error {
	return s.writeFile(name, size)
}

func (s *scenario) foldersOfIncreasingSize(count int) error {
	for i := range count {
		if err := s.aFolderContainingBytes(fmt.Sprintf("folder-%03d", i), i+1); err != nil {
			return err
		}
	}

	return nil
}
