package dirsize

import (
	"slices"
	"sort"
	"sync"
	"time"
)

// FolderSizeResult is the measured size of one immediate child directory.
type FolderSizeResult struct {
	// Path is the absolute path of the directory.
	Path string `json:"path" yaml:"path"`
	// Size is the total size of the regular files beneath it, in bytes.
	Size uint64 `json:"size" yaml:"size"`
}

// RankedList is ordered by descending size, ties in enumeration order.
type RankedList []FolderSizeResult

// Report holds the outcome of ranking the children of one root.
type Report struct {
	// Root is the absolute path that was scanned.
	Root string `json:"root" yaml:"root"`
	// Folders contains the N largest children.
	Folders RankedList `json:"folders" yaml:"folders"`
	// Children is the number of child directories enumerated.
	Children int `json:"children" yaml:"children"`
	// Excluded lists children that could not be probed.
	Excluded []string `json:"excluded" yaml:"excluded"`
	// TotalBytes is the combined size of all measured children.
	TotalBytes uint64 `json:"total_bytes" yaml:"total_bytes"`
	// ErrorCount is the number of entries skipped because of errors.
	ErrorCount int64 `json:"error_count" yaml:"error_count"`
	// Elapsed is the total time taken for the scan.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
	// TopN is the number of results requested.
	TopN int `json:"top_n" yaml:"top_n"`
}

// Progress is a snapshot of a running scan.
type Progress struct {
	// Done is the number of probes that have finished or failed.
	Done int
	// Total is the number of probes dispatched.
	Total int
	// Bytes is the size measured so far.
	Bytes uint64
}

// indexedResult pairs a result with the enumeration index of its child.
// ok is false for a child that was excluded.
type indexedResult struct {
	index  int
	result FolderSizeResult
	ok     bool
}

// collector tracks probe completion for progress reporting and exclusions.
// Probes finish on different goroutines, so every access holds the mutex.
type collector struct {
	mu       sync.Mutex
	total    int
	done     int
	bytes    uint64
	excluded []string
}

func newCollector(total int) *collector {
	return &collector{
		total:    total,
		excluded: make([]string, 0),
	}
}

// add records a finished probe.
func (c *collector) add(size uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.done++
	c.bytes += size
}

// exclude records a child that could not be probed.
func (c *collector) exclude(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.done++
	c.excluded = append(c.excluded, path)
}

func (c *collector) snapshot() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Progress{Done: c.done, Total: c.total, Bytes: c.bytes}
}

// finalize sorts the results by size, largest first, and trims them to topN.
// Equal sizes keep their enumeration order.
func (c *collector) finalize(results []indexedResult, topN int) *Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	results = slices.DeleteFunc(results, func(r indexedResult) bool { return !r.ok })

	sort.Slice(results, func(i, j int) bool {
		if results[i].result.Size != results[j].result.Size {
			return results[i].result.Size > results[j].result.Size
		}

		return results[i].index < results[j].index
	})

	if len(results) > topN {
		results = results[:topN]
	}

	folders := make(RankedList, len(results))
	for i := range results {
		folders[i] = results[i].result
	}

	sort.Strings(c.excluded)

	return &Report{
		Folders:    folders,
		Children:   c.total,
		Excluded:   c.excluded,
		TotalBytes: c.bytes,
		TopN:       topN,
	}
}
