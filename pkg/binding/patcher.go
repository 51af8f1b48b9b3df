package binding

import (
	"strings"

	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/expr"
	"github.com/vango-dev/vbind/pkg/store"
)

// Patcher evaluates descriptors against a scope and writes the results to
// the DOM. It keeps the last style declarations written per descriptor so
// style updates touch only the declarations that changed.
//
// A Patcher is not safe for concurrent use; it runs on the scheduler's turn.
type Patcher struct {
	scope  expr.Scope
	styles map[uint64][]dom.Declaration
}

// NewPatcher creates a patcher reading from scope.
func NewPatcher(scope expr.Scope) *Patcher {
	return &Patcher{
		scope:  scope,
		styles: make(map[uint64][]dom.Declaration),
	}
}

// Apply re-evaluates d and writes the result with its kind's primitive.
func (p *Patcher) Apply(d *Descriptor) {
	if d == nil || d.Node == nil {
		return
	}
	d.applier.apply(p, d)
}

// ApplyAll applies every descriptor in order.
func (p *Patcher) ApplyAll(ds []*Descriptor) {
	for _, d := range ds {
		p.Apply(d)
	}
}

// Reset drops all cached state.
func (p *Patcher) Reset() {
	p.styles = make(map[uint64][]dom.Declaration)
}

// concat evaluates every segment and joins their string forms. Missing
// values contribute "".
func (p *Patcher) concat(d *Descriptor) string {
	if len(d.Segments) == 1 {
		return store.String(expr.Eval(d.Segments[0], p.scope))
	}
	var b strings.Builder
	for _, seg := range d.Segments {
		b.WriteString(store.String(expr.Eval(seg, p.scope)))
	}
	return b.String()
}
