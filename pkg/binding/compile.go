package binding

import (
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/expr"
)

// Compile walks root once and returns one descriptor per interpolated text
// node or attribute, in document order. Bound attributes are removed from
// the tree; the first Apply writes them. Literal boolean attributes are
// normalized here: the IDL property becomes true and a bare or empty value
// becomes the attribute's own name.
func Compile(root *dom.Node) ([]*Descriptor, error) {
	if root == nil {
		return nil, nil
	}
	var (
		out []*Descriptor
		err error
	)
	root.Walk(func(n *dom.Node) bool {
		if err != nil {
			return false
		}
		if !n.IsElement() {
			var d *Descriptor
			d, err = compileText(n)
			if d != nil {
				out = append(out, d)
			}
			return false
		}
		for _, a := range n.Attrs() {
			var d *Descriptor
			d, err = compileAttr(n, a)
			if err != nil {
				return false
			}
			if d != nil {
				out = append(out, d)
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func compileText(n *dom.Node) (*Descriptor, error) {
	text := n.TextContent()
	if !expr.HasInterpolation(text) {
		return nil, nil
	}
	parts, bound, err := expr.Interpolate(text)
	if err != nil {
		return nil, located(err, "#text")
	}
	if !bound {
		return nil, nil
	}
	return NewDescriptor(n, "", parts), nil
}

func compileAttr(n *dom.Node, a dom.Attr) (*Descriptor, error) {
	if expr.HasInterpolation(a.Value) {
		parts, bound, err := expr.Interpolate(a.Value)
		if err != nil {
			return nil, located(err, "<"+n.Tag()+" "+a.Name+">")
		}
		if bound {
			n.RemoveAttribute(a.Name)
			return NewDescriptor(n, a.Name, parts), nil
		}
	}
	if IsBoolProp(a.Name) {
		if a.Value == "" {
			n.SetAttribute(a.Name, a.Name)
		}
		n.SetBoolProp(a.Name, true)
	}
	return nil, nil
}

func located(err error, where string) error {
	be := errors.FromError(err, errors.CodeInvalidExpression)
	if be.Detail != "" {
		return be.WithDetail(where + ": " + be.Detail)
	}
	return be.WithDetail(where)
}
