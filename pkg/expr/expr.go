package expr

import (
	"strconv"
	"strings"

	"github.com/vango-dev/vbind/pkg/store"
)

// Expr is a compiled binding expression. The set of implementations is
// closed: Literal, PathRef and Concat.
type Expr interface {
	expr()
	String() string
}

// Literal is a constant value.
type Literal struct {
	Value any
}

// PathRef reads a value from the scope.
type PathRef struct {
	Path store.Path
}

// Concat stringifies each part and joins them.
type Concat struct {
	Parts []Expr
}

func (Literal) expr() {}
func (PathRef) expr() {}
func (Concat) expr()  {}

func (l Literal) String() string {
	switch v := l.Value.(type) {
	case string:
		return strconv.Quote(v)
	case nil:
		return "null"
	default:
		return store.String(v)
	}
}

func (p PathRef) String() string { return p.Path.String() }

func (c Concat) String() string {
	parts := make([]string, len(c.Parts))
	for i, p := range c.Parts {
		parts[i] = p.String()
	}
	return strings.Join(parts, " + ")
}

// Scope resolves paths during evaluation. *store.Store satisfies it.
type Scope interface {
	Get(path store.Path) any
}

// Eval evaluates e against scope. Missing values evaluate to nil; it never
// fails.
func Eval(e Expr, scope Scope) any {
	switch e := e.(type) {
	case Literal:
		return e.Value
	case PathRef:
		if scope == nil {
			return nil
		}
		return scope.Get(e.Path)
	case Concat:
		var b strings.Builder
		for _, p := range e.Parts {
			b.WriteString(store.String(Eval(p, scope)))
		}
		return b.String()
	default:
		return nil
	}
}

// Deps returns the distinct paths e reads, in first-reference order.
func Deps(e Expr) []store.Path {
	var out []store.Path
	collectDeps(e, &out)
	return out
}

func collectDeps(e Expr, out *[]store.Path) {
	switch e := e.(type) {
	case PathRef:
		for _, p := range *out {
			if p.Equal(e.Path) {
				return
			}
		}
		*out = append(*out, e.Path)
	case Concat:
		for _, p := range e.Parts {
			collectDeps(p, out)
		}
	}
}
