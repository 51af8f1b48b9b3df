package dom

import "strings"

// Declaration is a single `property: value` pair of an inline style.
type Declaration struct {
	Property string
	Value    string
}

// Style is the inline style declaration of an element. It is a view: all
// state lives on the node and stays in sync with the `style` attribute.
type Style struct {
	n *Node
}

// Style returns the element's inline style declaration.
func (n *Node) Style() *Style {
	return &Style{n: n}
}

// GetPropertyValue returns the value of property, or "" when not declared.
func (s *Style) GetPropertyValue(property string) string {
	property = normalizeProperty(property)
	for _, d := range s.n.style {
		if d.Property == property {
			return d.Value
		}
	}
	return ""
}

// SetProperty declares property. An empty value removes the declaration.
// Existing declarations keep their position; new ones are appended.
func (s *Style) SetProperty(property, value string) {
	n := s.n
	if n.typ != ElementNode {
		return
	}
	property = normalizeProperty(property)
	value = strings.TrimSpace(value)
	if property == "" {
		return
	}
	if value == "" {
		s.RemoveProperty(property)
		return
	}
	for i, d := range n.style {
		if d.Property == property {
			if d.Value == value {
				return
			}
			n.style[i].Value = value
			n.syncStyleAttr()
			n.emit(Mutation{Op: OpSetStyle, NodeID: n.id, Key: property, Value: value})
			return
		}
	}
	n.style = append(n.style, Declaration{Property: property, Value: value})
	n.syncStyleAttr()
	n.emit(Mutation{Op: OpSetStyle, NodeID: n.id, Key: property, Value: value})
}

// RemoveProperty removes the declaration for property if present.
func (s *Style) RemoveProperty(property string) {
	n := s.n
	property = normalizeProperty(property)
	for i, d := range n.style {
		if d.Property == property {
			n.style = append(n.style[:i], n.style[i+1:]...)
			n.syncStyleAttr()
			n.emit(Mutation{Op: OpRemoveStyle, NodeID: n.id, Key: property})
			return
		}
	}
}

// Len returns the number of declarations.
func (s *Style) Len() int { return len(s.n.style) }

// Declarations returns a copy of the declarations in order.
func (s *Style) Declarations() []Declaration {
	out := make([]Declaration, len(s.n.style))
	copy(out, s.n.style)
	return out
}

// CSSText serializes the declarations as `a: b; c: d;`.
func (s *Style) CSSText() string {
	return SerializeDeclarations(s.n.style)
}

// syncStyleAttr rewrites the style attribute from the declaration list
// without emitting an attribute mutation.
func (n *Node) syncStyleAttr() {
	text := SerializeDeclarations(n.style)
	if i := n.attrIndex("style"); i >= 0 {
		if text == "" {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
		n.attrs[i].Value = text
		return
	}
	if text != "" {
		n.attrs = append(n.attrs, Attr{Name: "style", Value: text})
	}
}

// ParseDeclarations parses inline style text. Malformed declarations (no
// colon, empty property or value) are dropped; later duplicates override
// earlier ones in place.
func ParseDeclarations(text string) []Declaration {
	var out []Declaration
	for _, part := range strings.Split(text, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = normalizeProperty(prop)
		value = strings.TrimSpace(value)
		if prop == "" || value == "" {
			continue
		}
		replaced := false
		for i := range out {
			if out[i].Property == prop {
				out[i].Value = value
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, Declaration{Property: prop, Value: value})
		}
	}
	return out
}

// SerializeDeclarations renders declarations as inline style text.
func SerializeDeclarations(decls []Declaration) string {
	var b strings.Builder
	for i, d := range decls {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.Property)
		b.WriteString(": ")
		b.WriteString(d.Value)
		b.WriteByte(';')
	}
	return b.String()
}

func normalizeProperty(p string) string {
	p = strings.TrimSpace(p)
	if strings.HasPrefix(p, "--") {
		return p
	}
	return strings.ToLower(p)
}

// CSSPropertyName translates a camelCase property name to its dashed form:
// fontSize → font-size, WebkitTransition → -webkit-transition. Names that
// are already dashed are returned lowercased.
func CSSPropertyName(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 || isVendorPrefixed(name) {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isVendorPrefixed(name string) bool {
	for _, p := range []string{"Webkit", "Moz", "Ms", "O"} {
		if strings.HasPrefix(name, p) && len(name) > len(p) && name[len(p)] >= 'A' && name[len(p)] <= 'Z' {
			return true
		}
	}
	return false
}
