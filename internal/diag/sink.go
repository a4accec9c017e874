// Package diag routes absorbed, non-fatal errors to a diagnostic sink.
//
// Probes report every entry they skip here. A sink is shared by all probe
// workers of a scan and must be safe for concurrent use.
package diag

import (
	"log/slog"
	"sync/atomic"
)

// Sink receives diagnostic messages for errors that were absorbed instead of returned.
type Sink interface {
	Report(message string)
}

// SinkFunc adapts a plain function to a Sink.
type SinkFunc func(message string)

// Report calls f(message).
func (f SinkFunc) Report(message string) {
	f(message)
}

// Discard is a Sink that drops every message.
//
//nolint:gochecknoglobals // Stateless null sink
var Discard Sink = SinkFunc(func(string) {})

// SlogSink reports messages as warnings on a slog logger.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink wraps logger. A nil logger falls back to slog.Default().
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlogSink{logger: logger}
}

// Report logs message at warn level.
func (s *SlogSink) Report(message string) {
	s.logger.Warn(message)
}

// Counter forwards reports to an inner sink and counts them.
type Counter struct {
	inner Sink
	count atomic.Int64
}

// NewCounter wraps inner. A nil inner sink discards messages.
func NewCounter(inner Sink) *Counter {
	if inner == nil {
		inner = Discard
	}

	return &Counter{inner: inner}
}

// Report forwards message and increments the counter.
func (c *Counter) Report(message string) {
	c.count.Add(1)
	c.inner.Report(message)
}

// Count returns the number of messages reported so far.
func (c *Counter) Count() int64 {
	return c.count.Load()
}
