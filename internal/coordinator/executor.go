package coordinator

import "context"

// DefaultQueueSize is the default number of callbacks a Loop buffers.
const DefaultQueueSize = 16

// Loop is an Executor whose callbacks run on whichever goroutine drains it.
type Loop struct {
	queue chan func()
}

// NewLoop returns a Loop buffering up to size callbacks (0 = DefaultQueueSize).
// Post blocks once the buffer is full until the loop is drained.
func NewLoop(size int) *Loop {
	if size <= 0 {
		size = DefaultQueueSize
	}

	return &Loop{queue: make(chan func(), size)}
}

// Post queues fn.
func (l *Loop) Post(fn func()) {
	l.queue <- fn
}

// RunOnce waits for one callback and runs it on the calling goroutine.
func (l *Loop) RunOnce(ctx context.Context) error {
	select {
	case fn := <-l.queue:
		fn()

		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains callbacks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.RunOnce(ctx); err != nil {
			return err
		}
	}
}

// Inline is an Executor that runs callbacks immediately on the posting goroutine.
type Inline struct{}

// Post runs fn.
func (Inline) Post(fn func()) {
	fn()
}
