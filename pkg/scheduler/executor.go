package scheduler

import (
	"context"
	"sync"
)

// Executor runs posted functions on a later turn, never inline.
type Executor interface {
	Post(fn func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(fn func())

// Post implements Executor.
func (f ExecutorFunc) Post(fn func()) { f(fn) }

// Loop is a single-goroutine cooperative event loop. Post is safe from any
// goroutine and never blocks; functions run in posting order on the
// goroutine that called Run.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wakeCh chan struct{} // Signal that queue is non-empty
	done   chan struct{}
	closed bool
}

// NewLoop creates a loop. Call Run to start processing.
func NewLoop() *Loop {
	return &Loop{
		wakeCh: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Post queues fn. Functions posted after the loop stopped are discarded.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wakeCh <- struct{}{}:
	default:
	}
}

// Run processes posted functions until ctx is done. Functions still queued
// when Run returns are discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.mu.Lock()
		l.closed = true
		l.queue = nil
		l.mu.Unlock()
		close(l.done)
	}()

	for {
		for {
			fn := l.pop()
			if fn == nil {
				break
			}
			fn()
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wakeCh:
		}
	}
}

func (l *Loop) pop() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

// Do runs fn on the loop and waits for it to return. It must not be called
// from the loop goroutine.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
		return nil
	case <-l.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel that is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// ManualLoop is an Executor for tests: posted functions wait until the test
// calls Step or Drain on its own goroutine.
type ManualLoop struct {
	mu    sync.Mutex
	queue []func()
}

// NewManualLoop creates an empty manual loop.
func NewManualLoop() *ManualLoop {
	return &ManualLoop{}
}

// Post implements Executor.
func (m *ManualLoop) Post(fn func()) {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
}

// Len returns the number of queued turns.
func (m *ManualLoop) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Step runs the oldest queued turn and reports whether one ran.
func (m *ManualLoop) Step() bool {
	m.mu.Lock()
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return false
	}
	fn := m.queue[0]
	m.queue = m.queue[1:]
	m.mu.Unlock()

	fn()
	return true
}

// maxDrainTurns bounds Drain so a turn that always posts another cannot hang
// a test.
const maxDrainTurns = 10000

// Drain runs queued turns, including ones posted while draining, until the
// queue is empty. It returns the number of turns run.
func (m *ManualLoop) Drain() int {
	n := 0
	for n < maxDrainTurns && m.Step() {
		n++
	}
	return n
}
