package component_test

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/bindtest"
	"github.com/vango-dev/vbind/pkg/component"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/store"
)

func TestLifecycle(t *testing.T) {
	h := bindtest.New(t)
	c := h.Create(h.Define(`<p>{{msg}}</p>`), map[string]any{"msg": "hi"})

	if got := c.State(); got != component.StateCreated {
		t.Errorf("State() = %v, want CREATED", got)
	}
	if c.Root().Parent() != nil {
		t.Error("root inserted before Attach")
	}

	h.Attach(c)
	if got := c.State(); got != component.StateAttached {
		t.Errorf("State() = %v, want ATTACHED", got)
	}
	if c.Root().Parent() != h.Container {
		t.Error("root not inserted into container")
	}
	if c.Root().OwnerTag() != c.ID() {
		t.Errorf("OwnerTag() = %d, want %d", c.Root().OwnerTag(), c.ID())
	}
	if len(c.Descriptors()) != 1 {
		t.Errorf("Descriptors() = %d, want 1", len(c.Descriptors()))
	}

	c.Dispose()
	if got := c.State(); got != component.StateDisposed {
		t.Errorf("State() = %v, want DISPOSED", got)
	}
	if c.Root().Parent() != nil {
		t.Error("root still attached after Dispose")
	}
	if c.Root().OwnerTag() != 0 {
		t.Error("owner tag not cleared")
	}
	if len(c.Descriptors()) != 0 {
		t.Error("descriptors retained after Dispose")
	}
}

func TestAttachErrors(t *testing.T) {
	h := bindtest.New(t)
	c := h.Mount(`<p>x</p>`, nil)

	err := c.Attach(h.Container)
	if !stderrors.Is(err, errors.New(errors.CodeAlreadyAttached)) {
		t.Errorf("second Attach() error = %v, want E101", err)
	}

	c.Dispose()
	err = c.Attach(h.Container)
	if !stderrors.Is(err, errors.New(errors.CodeDisposed)) {
		t.Errorf("Attach() after Dispose error = %v, want E102", err)
	}
	if h.Container.ChildCount() != 0 {
		t.Error("disposed component re-inserted")
	}
}

func TestDisposeDropsPendingWork(t *testing.T) {
	h := bindtest.New(t)
	c := h.Mount(`<a title="{{name}}"></a>`, map[string]any{"name": "a"})
	root := c.Root()

	c.Data().SetPath("name", "b")
	if h.Scheduler.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", h.Scheduler.Pending())
	}

	c.Dispose()
	if h.Scheduler.Pending() != 0 {
		t.Errorf("Pending() after Dispose = %d, want 0", h.Scheduler.Pending())
	}

	h.Mutations.Drain()
	c.Data().SetPath("name", "c")
	c.Dispose()
	h.NextTick()

	bindtest.ExpectAttribute(t, root, "title", "a")
	if got := c.Data().GetPath("name"); got != nil {
		t.Errorf("name after Dispose = %v, want nil", got)
	}
	if n := h.Mutations.Len(); n != 0 {
		t.Errorf("disposed component produced %d mutations", n)
	}
}

func TestDisposeBeforeAttach(t *testing.T) {
	h := bindtest.New(t)
	c := h.Create(h.Define(`<p>{{x}}</p>`), nil)
	c.Dispose()
	c.Dispose()
	c.Data().SetPath("x", 1)
	if got := c.State(); got != component.StateDisposed {
		t.Errorf("State() = %v, want DISPOSED", got)
	}
}

func TestOnlyDependentDescriptorsAreScheduled(t *testing.T) {
	h := bindtest.New(t)
	c := h.Mount(`<div title="{{a}}" data-x="{{b.c}}">{{b}}</div>`, nil)

	c.Data().SetPath("zzz", 1)
	if got := h.Scheduler.Pending(); got != 0 {
		t.Errorf("unrelated path scheduled %d descriptors", got)
	}

	c.Data().SetPath("b.c.d", 1)
	if got := h.Scheduler.Pending(); got != 2 {
		t.Errorf("b.c.d scheduled %d descriptors, want 2", got)
	}
	c.Data().SetPath("b.c.d", 2)
	if got := h.Scheduler.Pending(); got != 2 {
		t.Errorf("repeated set scheduled %d descriptors, want 2", got)
	}
	c.Data().Push(store.P("a"), "x")
	if got := h.Scheduler.Pending(); got != 3 {
		t.Errorf("array mutation scheduled %d descriptors, want 3", got)
	}
	h.NextTick()
	bindtest.ExpectAttribute(t, c.Root(), "title", "x")
}

func TestComponentsShareScheduler(t *testing.T) {
	h := bindtest.New(t)
	a := h.Mount(`<p>{{v}}</p>`, map[string]any{"v": 1})
	b := h.Mount(`<p>{{v}}</p>`, map[string]any{"v": 1})

	a.Data().SetPath("v", 2)
	b.Data().SetPath("v", 3)
	if got := h.Loop.Len(); got != 1 {
		t.Errorf("posted flushes = %d, want 1", got)
	}
	h.NextTick()
	bindtest.ExpectText(t, a.Root(), "2")
	bindtest.ExpectText(t, b.Root(), "3")
}

func TestDefineNode(t *testing.T) {
	h := bindtest.New(t)
	build := func() *dom.Node {
		return dom.Div(dom.A("class", "box {{kind}}"), dom.Span("{{label}}"))
	}
	c1 := h.MountNode(build, map[string]any{"kind": "a", "label": "one"})
	c2 := h.MountNode(build, store.MapOf("kind", "b", "label", "two"))

	bindtest.ExpectClass(t, c1.Root(), "box a")
	bindtest.ExpectClass(t, c2.Root(), "box b")
	if c1.Root() == c2.Root() {
		t.Error("instances share a root")
	}
}

func TestDefineErrors(t *testing.T) {
	if _, err := component.Define(`<a title="{{ a b }}"></a>`); !stderrors.Is(err, errors.New(errors.CodeInvalidExpression)) {
		t.Errorf("Define() error = %v, want E001", err)
	}
	if _, err := component.Define(`<a></a><b></b>`); !stderrors.Is(err, errors.New(errors.CodeMalformedMarkup)) {
		t.Errorf("Define() error = %v, want E003", err)
	}
}

func TestNewRejectsNonMappingData(t *testing.T) {
	def := component.MustDefine(`<p></p>`)
	_, err := component.New(def, component.Options{Data: []string{"x"}})
	if !stderrors.Is(err, errors.New(errors.CodeDataDecode)) {
		t.Errorf("New() error = %v, want E301", err)
	}
}

func TestDefaultScheduler(t *testing.T) {
	c, err := component.New(component.MustDefine(`<p>{{v}}</p>`), component.Options{Data: map[string]any{"v": "a"}})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()
	if err := c.Attach(nil); err != nil {
		t.Fatal(err)
	}
	c.Data().SetPath("v", "b")
	c.Scheduler().Flush()
	bindtest.ExpectText(t, c.Root(), "b")
}
