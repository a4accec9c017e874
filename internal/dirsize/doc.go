// Package dirsize measures and ranks the immediate subdirectories of a root.
//
// Each child directory is measured by an independent probe that walks the
// subtree with fastwalk. Probes run on a bounded pool and their results are
// merged into a ranked list that is ordered by size, never by completion order.
// Errors below the root are absorbed and reported to a diagnostic sink.
package dirsize
