package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vbind/pkg/binding"
)

const tracerName = "github.com/vango-dev/vbind/pkg/scheduler"

// Target owns descriptors and applies them. Components implement it.
type Target interface {
	// TargetID identifies the target for Remove.
	TargetID() uint64

	// Patch applies one descriptor.
	Patch(d *binding.Descriptor)

	// Disposed reports whether the target was torn down. Pending entries of
	// disposed targets are dropped at flush.
	Disposed() bool
}

// FlushStats summarizes one flush.
type FlushStats struct {
	Seq      uint64        // 1-based flush counter
	Patches  int           // Descriptors applied
	Skipped  int           // Entries dropped for disposed targets
	Deferred int           // Entries enqueued while patching, left for the next cycle
	Duration time.Duration // Wall time spent applying patches
}

type entryKey struct {
	target     uint64
	descriptor uint64
}

type entry struct {
	target Target
	d      *binding.Descriptor
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics reports flushes to m.
func WithMetrics(m *Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used for flush spans. The default comes from
// the global otel tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Scheduler) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithFlushHook registers fn to run after every flush, before the
// AfterNextFlush callbacks. Hooks run on the flush turn.
func WithFlushHook(fn func(FlushStats)) Option {
	return func(s *Scheduler) {
		if fn != nil {
			s.hooks = append(s.hooks, fn)
		}
	}
}

// Scheduler is a pending-work queue flushed on a later executor turn.
type Scheduler struct {
	exec    Executor
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	hooks   []func(FlushStats)

	mu        sync.Mutex
	queue     []entry
	pending   map[entryKey]struct{}
	after     []func()
	scheduled bool // A Flush is posted and has not started
	flushing  bool // Patches are being applied
	deferred  int  // Entries added while flushing
	seq       uint64
}

// New creates a scheduler that posts flushes to exec. A nil exec uses a
// fresh ManualLoop, reachable through Executor.
func New(exec Executor, opts ...Option) *Scheduler {
	if exec == nil {
		exec = NewManualLoop()
	}
	s := &Scheduler{
		exec:    exec,
		logger:  slog.Default().With("component", "scheduler"),
		tracer:  otel.Tracer(tracerName),
		pending: make(map[entryKey]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Executor returns the executor flushes are posted to.
func (s *Scheduler) Executor() Executor { return s.exec }

// Enqueue marks descriptors of t dirty. Entries already pending are not
// duplicated. The first entry added to an idle queue requests a flush.
func (s *Scheduler) Enqueue(t Target, ds ...*binding.Descriptor) {
	if t == nil || len(ds) == 0 {
		return
	}
	s.mu.Lock()
	id := t.TargetID()
	added := 0
	for _, d := range ds {
		if d == nil {
			continue
		}
		k := entryKey{target: id, descriptor: d.ID}
		if _, ok := s.pending[k]; ok {
			continue
		}
		s.pending[k] = struct{}{}
		s.queue = append(s.queue, entry{target: t, d: d})
		added++
	}
	if s.flushing {
		s.deferred += added
	}
	n := len(s.queue)
	post := added > 0 && s.requestLocked()
	s.mu.Unlock()

	s.metrics.setPending(n)
	if post {
		s.exec.Post(s.Flush)
	}
}

// requestLocked marks a flush as scheduled and reports whether the caller
// must post it. While flushing, the flush itself schedules the next cycle.
func (s *Scheduler) requestLocked() bool {
	if s.scheduled || s.flushing {
		return false
	}
	s.scheduled = true
	return true
}

// AfterNextFlush runs fn after the patches of the next flush are applied.
// It always requests a flush, so fn runs even when nothing is pending.
func (s *Scheduler) AfterNextFlush(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.after = append(s.after, fn)
	post := s.requestLocked()
	s.mu.Unlock()

	if post {
		s.exec.Post(s.Flush)
	}
}

// Remove drops every pending entry of the target.
func (s *Scheduler) Remove(targetID uint64) {
	s.mu.Lock()
	kept := s.queue[:0]
	removed := 0
	for _, e := range s.queue {
		if e.target.TargetID() == targetID {
			delete(s.pending, entryKey{target: targetID, descriptor: e.d.ID})
			removed++
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(s.queue); i++ {
		s.queue[i] = entry{}
	}
	s.queue = kept
	n := len(s.queue)
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Debug("removed pending descriptors", "target", targetID, "count", removed)
		s.metrics.setPending(n)
	}
}

// Pending returns the number of queued entries.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Flush applies every entry pending when it starts, then runs the
// AfterNextFlush callbacks registered before it started. Calls made while a
// flush is running are ignored.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.flushing {
		s.mu.Unlock()
		return
	}
	s.flushing = true
	s.scheduled = false
	s.deferred = 0
	s.seq++
	seq := s.seq
	batch := s.queue
	s.queue = nil
	s.pending = make(map[entryKey]struct{})
	callbacks := s.after
	s.after = nil
	s.mu.Unlock()

	_, span := s.tracer.Start(context.Background(), "vbind.flush",
		trace.WithAttributes(attribute.Int64("vbind.flush_seq", int64(seq))))

	start := time.Now()
	stats := FlushStats{Seq: seq}
	for _, e := range batch {
		if e.target.Disposed() {
			stats.Skipped++
			continue
		}
		e.target.Patch(e.d)
		stats.Patches++
	}
	stats.Duration = time.Since(start)

	s.mu.Lock()
	s.flushing = false
	stats.Deferred = s.deferred
	n := len(s.queue)
	post := (n > 0 || len(s.after) > 0) && s.requestLocked()
	s.mu.Unlock()

	span.SetAttributes(
		attribute.Int("vbind.patches", stats.Patches),
		attribute.Int("vbind.skipped", stats.Skipped),
		attribute.Int("vbind.deferred", stats.Deferred),
	)
	span.End()

	s.metrics.observeFlush(stats)
	s.metrics.setPending(n)
	if stats.Skipped > 0 {
		s.logger.Debug("dropped patches for disposed targets", "flush", seq, "count", stats.Skipped)
	}
	s.logger.Debug("flush complete",
		"flush", seq,
		"patches", stats.Patches,
		"deferred", stats.Deferred,
		"duration", stats.Duration)

	for _, hook := range s.hooks {
		hook(stats)
	}
	for _, fn := range callbacks {
		fn()
	}

	if post {
		s.exec.Post(s.Flush)
	}
}
