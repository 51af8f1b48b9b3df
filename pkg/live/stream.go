package live

import (
	"sync/atomic"

	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/protocol"
	"github.com/vango-dev/vbind/pkg/scheduler"
)

// Stream turns the DOM writes under a container into frames.
type Stream struct {
	container *dom.Node
	buf       *dom.Buffer
	hub       *Hub
	metrics   *Metrics
	seq       atomic.Uint64 // Last flush broadcast
}

// NewStream records writes under container and creates the hub that serves
// them. opts.Snapshot is replaced by the stream's own.
func NewStream(container *dom.Node, opts HubOptions) *Stream {
	s := &Stream{
		container: container,
		buf:       dom.NewBuffer(),
		metrics:   opts.Metrics,
	}
	opts.Snapshot = s.Snapshot
	s.hub = NewHub(opts)
	container.SetRecorder(s.buf)
	return s
}

// Hub returns the hub clients connect to.
func (s *Stream) Hub() *Hub { return s.hub }

// Reset drops writes recorded outside a flush, such as a component attaching
// to the container. They are already part of every snapshot.
func (s *Stream) Reset() {
	s.buf.Drain()
}

// OnFlush broadcasts the writes recorded since the previous flush. Pass it
// to scheduler.WithFlushHook. Flushes that wrote nothing send nothing.
func (s *Stream) OnFlush(stats scheduler.FlushStats) {
	patches := s.buf.Drain()
	s.seq.Store(stats.Seq)
	if len(patches) == 0 {
		return
	}
	s.metrics.recordPatches(len(patches))
	s.hub.Broadcast((&protocol.PatchesFrame{Seq: stats.Seq, Patches: patches}).Frame())
}

// Snapshot returns the container's current markup and node IDs. It must run
// between flushes, on the scheduler loop.
func (s *Stream) Snapshot() *protocol.Frame {
	var ids []uint64
	s.container.Walk(func(n *dom.Node) bool {
		if n != s.container {
			ids = append(ids, n.ID())
		}
		return true
	})
	return (&protocol.SnapshotFrame{
		Seq:  s.seq.Load(),
		HTML: s.container.InnerHTML(),
		IDs:  ids,
	}).Frame()
}
