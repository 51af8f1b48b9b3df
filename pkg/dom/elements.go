package dom

// H creates an element from a mixed argument list.
// Arguments can be: nil, Attr, []Attr, *Node, []*Node, string (text child).
func H(tag string, args ...any) *Node {
	n := NewElement(tag)
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			if v.Name != "" {
				n.SetAttribute(v.Name, v.Value)
			}
		case []Attr:
			for _, a := range v {
				if a.Name != "" {
					n.SetAttribute(a.Name, a.Value)
				}
			}
		case *Node:
			if v != nil {
				n.AppendChild(v)
			}
		case []*Node:
			for _, c := range v {
				if c != nil {
					n.AppendChild(c)
				}
			}
		case string:
			n.AppendChild(NewText(v))
		}
	}
	return n
}

// Div creates a <div> element.
func Div(args ...any) *Node { return H("div", args...) }

// Span creates a <span> element.
func Span(args ...any) *Node { return H("span", args...) }

// Anchor creates an <a> element.
func Anchor(args ...any) *Node { return H("a", args...) }

// Input creates an <input> element.
func Input(args ...any) *Node { return H("input", args...) }

// Textarea creates a <textarea> element.
func Textarea(args ...any) *Node { return H("textarea", args...) }

// Button creates a <button> element.
func Button(args ...any) *Node { return H("button", args...) }

// Select creates a <select> element.
func Select(args ...any) *Node { return H("select", args...) }

// Option creates an <option> element.
func Option(args ...any) *Node { return H("option", args...) }

// P creates a <p> element.
func P(args ...any) *Node { return H("p", args...) }
