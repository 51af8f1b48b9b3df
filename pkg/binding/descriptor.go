package binding

import (
	"sync/atomic"

	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/expr"
	"github.com/vango-dev/vbind/pkg/store"
)

var descriptorIDCounter uint64

func nextDescriptorID() uint64 {
	return atomic.AddUint64(&descriptorIDCounter, 1)
}

// Descriptor links one DOM location to its expression parts and apply
// routine. Descriptors are immutable after Compile.
type Descriptor struct {
	// ID is unique per process.
	ID uint64

	// Node is the bound element, or the text node for KindText.
	Node *dom.Node

	// Name is the attribute name, "" for text bindings.
	Name string

	// Segments are the literal and expression parts in source order.
	Segments []expr.Expr

	// Deps are the store paths the segments read.
	Deps []store.Path

	applier Applier
}

// NewDescriptor builds a descriptor for node. name is the bound attribute,
// or "" for a text node.
func NewDescriptor(node *dom.Node, name string, segments []expr.Expr) *Descriptor {
	d := &Descriptor{
		ID:       nextDescriptorID(),
		Node:     node,
		Name:     name,
		Segments: segments,
		applier:  applierFor(name),
	}
	for _, seg := range segments {
		for _, p := range expr.Deps(seg) {
			if !containsPath(d.Deps, p) {
				d.Deps = append(d.Deps, p)
			}
		}
	}
	return d
}

// Kind returns the binding kind.
func (d *Descriptor) Kind() Kind { return d.applier.Kind() }

// Applier returns the kind's apply routine.
func (d *Descriptor) Applier() Applier { return d.applier }

// DependsOn reports whether a change at path can affect the descriptor.
func (d *Descriptor) DependsOn(path store.Path) bool {
	for _, dep := range d.Deps {
		if dep.Overlaps(path) {
			return true
		}
	}
	return false
}

// String describes the descriptor for logs.
func (d *Descriptor) String() string {
	target := "#text"
	if d.Name != "" {
		target = d.Node.Tag() + "[" + d.Name + "]"
	}
	return d.Kind().String() + " " + target
}

func containsPath(paths []store.Path, p store.Path) bool {
	for _, q := range paths {
		if q.Equal(p) {
			return true
		}
	}
	return false
}
