package component

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/scheduler"
	"github.com/vango-dev/vbind/pkg/store"
)

// State is a component lifecycle state.
type State uint8

const (
	StateCreated  State = iota // Built, not yet painted
	StateAttached              // Painted and inserted; mutations schedule patches
	StateDisposed              // Terminal
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "CREATED"
	case StateAttached:
		return "ATTACHED"
	case StateDisposed:
		return "DISPOSED"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

var componentIDCounter uint64

func nextComponentID() uint64 {
	return atomic.AddUint64(&componentIDCounter, 1)
}

// Options configures a component instance.
type Options struct {
	// Data is the initial value tree: a map[string]any, a *store.Map or nil.
	// It is copied into the component's store.
	Data any

	// Scheduler receives patches after Attach. If nil, the component gets
	// its own scheduler over a scheduler.ManualLoop.
	Scheduler *scheduler.Scheduler

	// Logger is used for lifecycle logs. Default: slog.Default().
	Logger *slog.Logger
}

// Component owns a store, its compiled descriptors and a root node.
type Component struct {
	id     uint64
	data   *store.Store
	root   *dom.Node
	sched  *scheduler.Scheduler
	logger *slog.Logger

	mu          sync.Mutex
	state       State
	descriptors []*binding.Descriptor
	index       depIndex
	patcher     *binding.Patcher
	unobserve   func()
}

// New builds a component from def. Mutations made before Attach are staged
// in the store and painted by Attach.
func New(def *Definition, opts Options) (*Component, error) {
	root, ds, err := def.instantiate()
	if err != nil {
		return nil, err
	}

	data, err := initialData(opts.Data)
	if err != nil {
		return nil, err
	}

	sched := opts.Scheduler
	if sched == nil {
		sched = scheduler.New(scheduler.NewManualLoop())
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Component{
		id:          nextComponentID(),
		data:        store.New(data),
		root:        root,
		sched:       sched,
		descriptors: ds,
		index:       newDepIndex(ds),
	}
	c.logger = logger.With("component", "component", "id", c.id)
	c.patcher = binding.NewPatcher(c.data)
	c.unobserve = c.data.Observe(c.onChange)
	return c, nil
}

func initialData(v any) (*store.Map, error) {
	switch d := v.(type) {
	case nil:
		return nil, nil
	case *store.Map:
		return d, nil
	default:
		m, ok := store.Normalize(d).(*store.Map)
		if !ok {
			return nil, errors.New(errors.CodeDataDecode).WithDetailf("data is %T, want a mapping", v)
		}
		return m, nil
	}
}

// ID returns the component id. Attached roots carry it as their owner tag.
func (c *Component) ID() uint64 { return c.id }

// TargetID implements scheduler.Target.
func (c *Component) TargetID() uint64 { return c.id }

// Data returns the component's store. After Dispose the store is released
// and mutations are no-ops.
func (c *Component) Data() *store.Store { return c.data }

// Root returns the root node.
func (c *Component) Root() *dom.Node { return c.root }

// Scheduler returns the scheduler patches go through.
func (c *Component) Scheduler() *scheduler.Scheduler { return c.sched }

// State returns the lifecycle state.
func (c *Component) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Disposed implements scheduler.Target.
func (c *Component) Disposed() bool {
	return c.State() == StateDisposed
}

// Descriptors returns the compiled descriptors. It is empty after Dispose.
func (c *Component) Descriptors() []*binding.Descriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*binding.Descriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// Attach paints every descriptor from the current store contents, then
// appends the root to container. A nil container paints without inserting.
// Attaching twice returns E101; attaching after Dispose returns E102.
func (c *Component) Attach(container *dom.Node) error {
	c.mu.Lock()
	switch c.state {
	case StateAttached:
		c.mu.Unlock()
		return errors.New(errors.CodeAlreadyAttached).WithDetailf("component %d", c.id)
	case StateDisposed:
		c.mu.Unlock()
		return errors.New(errors.CodeDisposed).WithDetailf("component %d", c.id)
	}
	c.patcher.ApplyAll(c.descriptors)
	c.state = StateAttached
	c.mu.Unlock()

	c.root.SetOwnerTag(c.id)
	if container != nil {
		container.AppendChild(c.root)
	}
	c.logger.Debug("component attached", "descriptors", len(c.descriptors))
	return nil
}

// Patch implements scheduler.Target. It is a no-op once disposed.
func (c *Component) Patch(d *binding.Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAttached {
		return
	}
	c.patcher.Apply(d)
}

// NextTick runs fn after the scheduler's next flush.
func (c *Component) NextTick(fn func()) {
	c.sched.AfterNextFlush(fn)
}

// onChange routes a store change to the scheduler once attached.
func (c *Component) onChange(rec store.ChangeRecord) {
	c.mu.Lock()
	if c.state != StateAttached {
		c.mu.Unlock()
		return
	}
	ds := c.index.lookup(rec.Path)
	c.mu.Unlock()

	if len(ds) > 0 {
		c.sched.Enqueue(c, ds...)
	}
}

// Dispose detaches the root, drops pending patches and releases the store.
// It is idempotent and safe before Attach.
func (c *Component) Dispose() {
	c.mu.Lock()
	if c.state == StateDisposed {
		c.mu.Unlock()
		return
	}
	c.state = StateDisposed
	c.descriptors = nil
	c.index = depIndex{}
	c.patcher.Reset()
	unobserve := c.unobserve
	c.unobserve = nil
	c.mu.Unlock()

	if unobserve != nil {
		unobserve()
	}
	c.sched.Remove(c.id)
	c.root.Remove()
	c.root.SetOwnerTag(0)
	c.data.Release()
	c.logger.Debug("component disposed")
}
