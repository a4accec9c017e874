//go:build integration

package steps

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/cucumber/godog"

	"github.com/idelchi/dirrank/internal/coordinator"
	"github.com/idelchi/dirrank/internal/dirsize"
)

//nolint:gochecknoglobals // Compiled once
var quoted = regexp.MustCompile(`"([^"]*)"`)

// failingProbe measures like the default prober, but panics for the listed paths.
type failingProbe struct {
	failing map[string]bool
}

func (p failingProbe) Measure(ctx context.Context, path string) uint64 {
	if p.failing[path] {
		panic("cannot measure " + path)
	}

	return dirsize.Prober{}.Measure(ctx, path)
}

func (s *scenario) theFoldersCannotBeMeasured(list string) error {
	for _, match := range quoted.FindAllStringSubmatch(list, -1) {
		s.unmeasurable[s.path(match[1])] = true
	}

	return nil
}

func (s *scenario) scan(root string, topN int) error {
	loop := coordinator.NewLoop(1)

	s.report, s.scanErr = nil, ""

	coordinator.New(dirsize.Ranker{Probe: failingProbe{failing: s.unmeasurable}}, loop).Scan(context.Background(), root, topN,
		func(r *dirsize.Report) { s.report = r },
		func(message string) { s.scanErr = message },
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return loop.RunOnce(ctx)
}

func (s *scenario) iRankTheTopFolders(topN int) error {
	return s.scan(s.root, topN)
}

func (s *scenario) iRankTheTopFoldersOfAMissingRoot(topN int) error {
	return s.scan(s.path("missing"), topN)
}

func (s *scenario) theRankingShouldBe(table *godog.Table) error {
	if s.report == nil {
		return fmt.Errorf("scan failed: %s", s.scanErr)
	}

	rows := table.Rows[1:]
	if len(rows) != len(s.report.Folders) {
		return fmt.Errorf("expected %d folders, got %d: %v", len(rows), len(s.report.Folders), s.report.Folders)
	}

	for i, row := range rows {
		size, err := strconv.ParseUint(row.Cells[1].Value, 10, 64)
		if err != nil {
			return err
		}

		want := dirsize.FolderSizeResult{Path: s.path(row.Cells[0].Value), Size: size}
		if s.report.Folders[i] != want {
			return fmt.Errorf("position %d: expected %+v, got %+v", i+1, want, s.report.Folders[i])
		}
	}

	return nil
}

func (s *scenario) theScanShouldFail() error {
	if s.scanErr == "" {
		return fmt.Errorf("expected the scan to fail")
	}

	return nil
}

func (s *scenario) noRankingShouldBeReturned() error {
	if s.report != nil {
		return fmt.Errorf("expected no ranking, got %v", s.report.Folders)
	}

	return nil
}

func (s *scenario) everyFolderRankedOnce(count int) error {
	if s.report == nil {
		return fmt.Errorf("scan failed: %s", s.scanErr)
	}

	seen := make(map[string]int, count)
	for _, folder := range s.report.Folders {
		seen[folder.Path]++
	}

	if len(seen) != count || len(s.report.Folders) != count {
		return fmt.Errorf("expected %d distinct folders, got %d in %d results", count, len(seen), len(s.report.Folders))
	}

	for path, n := range seen {
		if n != 1 {
			return fmt.Errorf("%s ranked %d times", path, n)
		}
	}

	return nil
}

func (s *scenario) foldersShouldBeRanked(count int) error {
	if s.report == nil {
		return fmt.Errorf("scan failed: %s", s.scanErr)
	}

	if len(s.report.Folders) != count {
		return fmt.Errorf("expected %d ranked folders, got %d", count, len(s.report.Folders))
	}

	return nil
}

func (s *scenario) theExcludedFoldersShouldBe(table *godog.Table) error {
	if s.report == nil {
		return fmt.Errorf("scan failed: %s", s.scanErr)
	}

	rows := table.Rows[1:]
	if len(rows) != len(s.report.Excluded) {
		return fmt.Errorf("expected %d excluded folders, got %v", len(rows), s.report.Excluded)
	}

	for i, row := range rows {
		if want := s.path(row.Cells[0].Value); s.report.Excluded[i] != want {
			return fmt.Errorf("excluded %d: expected %s, got %s", i+1, want, s.report.Excluded[i])
		}
	}

	return nil
}

func (s *scenario) everyFolderRankedOrExcludedOnce(count int) error {
	if s.report == nil {
		return fmt.Errorf("scan failed: %s", s.scanErr)
	}

	seen := make(map[string]int, count)
	for _, folder := range s.report.Folders {
		seen[folder.Path]++
	}

	for _, path := range s.report.Excluded {
		seen[path]++
	}

	if len(seen) != count {
		return fmt.Errorf("expected %d distinct folders, got %d", count, len(seen))
	}

	for path, n := range seen {
		if n != 1 {
			return fmt.Errorf("%s reported %d times", path, n)
		}
	}

	return nil
}
