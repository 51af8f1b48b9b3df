package bindtest

import (
	"testing"

	"github.com/vango-dev/vbind/pkg/component"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/scheduler"
)

// Harness is an isolated scheduler context for one test.
type Harness struct {
	t testing.TB

	// Loop runs flushes only when the test asks.
	Loop *scheduler.ManualLoop

	// Scheduler is shared by every component the harness mounts.
	Scheduler *scheduler.Scheduler

	// Container is a connected <body> that mounted roots are appended to.
	Container *dom.Node

	// Mutations records every DOM write under Container.
	Mutations *dom.Buffer
}

// New creates a harness. opts are passed to the scheduler.
func New(t testing.TB, opts ...scheduler.Option) *Harness {
	t.Helper()
	loop := scheduler.NewManualLoop()
	h := &Harness{
		t:         t,
		Loop:      loop,
		Scheduler: scheduler.New(loop, opts...),
		Container: dom.NewElement("body"),
		Mutations: dom.NewBuffer(),
	}
	h.Container.SetRecorder(h.Mutations)
	return h
}

// Define is component.Define that fails the test on error.
func (h *Harness) Define(source string) *component.Definition {
	h.t.Helper()
	def, err := component.Define(source)
	if err != nil {
		h.t.Fatalf("Define() error = %v", err)
	}
	return def
}

// Create builds a component on the harness scheduler without attaching it.
func (h *Harness) Create(def *component.Definition, data any) *component.Component {
	h.t.Helper()
	c, err := component.New(def, component.Options{Data: data, Scheduler: h.Scheduler})
	if err != nil {
		h.t.Fatalf("component.New() error = %v", err)
	}
	h.t.Cleanup(c.Dispose)
	return c
}

// Mount defines, creates and attaches a component from markup.
func (h *Harness) Mount(source string, data any) *component.Component {
	h.t.Helper()
	return h.Attach(h.Create(h.Define(source), data))
}

// MountNode is Mount for a tree builder.
func (h *Harness) MountNode(build func() *dom.Node, data any) *component.Component {
	h.t.Helper()
	return h.Attach(h.Create(component.DefineNode(build), data))
}

// Attach attaches c to the harness container.
func (h *Harness) Attach(c *component.Component) *component.Component {
	h.t.Helper()
	if err := c.Attach(h.Container); err != nil {
		h.t.Fatalf("Attach() error = %v", err)
	}
	return c
}

// NextTick runs every queued executor turn, including flushes scheduled by
// earlier flushes, and returns the number of turns run.
func (h *Harness) NextTick() int {
	return h.Loop.Drain()
}

// Step runs exactly one queued turn.
func (h *Harness) Step() bool {
	return h.Loop.Step()
}
