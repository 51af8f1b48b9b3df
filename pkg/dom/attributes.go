package dom

import "strings"

// Attr is a single content attribute.
type Attr struct {
	Name  string
	Value string
}

// A creates an Attr. Names are lowercased.
func A(name, value string) Attr {
	return Attr{Name: strings.ToLower(name), Value: value}
}

// Bare creates a valueless attribute such as a bare `disabled`.
func Bare(name string) Attr {
	return Attr{Name: strings.ToLower(name)}
}

// booleanAttrs are the reflected boolean attributes: their IDL property
// mirrors attribute presence.
var booleanAttrs = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"autoplay":        true,
	"checked":         true,
	"controls":        true,
	"default":         true,
	"defer":           true,
	"disabled":        true,
	"formnovalidate":  true,
	"hidden":          true,
	"inert":           true,
	"ismap":           true,
	"loop":            true,
	"multiple":        true,
	"muted":           true,
	"novalidate":      true,
	"open":            true,
	"playsinline":     true,
	"readonly":        true,
	"required":        true,
	"reversed":        true,
	"selected":        true,
}

// Attrs returns a copy of the element's attributes in insertion order.
func (n *Node) Attrs() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

func (n *Node) attrIndex(name string) int {
	for i, a := range n.attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(name string) bool {
	return n.attrIndex(strings.ToLower(name)) >= 0
}

// GetAttribute returns the attribute value and whether it is present.
func (n *Node) GetAttribute(name string) (string, bool) {
	i := n.attrIndex(strings.ToLower(name))
	if i < 0 {
		return "", false
	}
	return n.attrs[i].Value, true
}

// Attribute returns the attribute value, or "" when absent.
func (n *Node) Attribute(name string) string {
	v, _ := n.GetAttribute(name)
	return v
}

// SetAttribute writes a content attribute. The value is stored verbatim;
// carriage returns and line feeds are preserved. Setting `style` re-parses the
// style declaration list.
func (n *Node) SetAttribute(name, value string) {
	if n.typ != ElementNode {
		return
	}
	name = strings.ToLower(name)
	if name == "style" {
		n.style = ParseDeclarations(value)
	}
	if i := n.attrIndex(name); i >= 0 {
		if n.attrs[i].Value == value {
			return
		}
		n.attrs[i].Value = value
	} else {
		n.attrs = append(n.attrs, Attr{Name: name, Value: value})
	}
	n.emit(Mutation{Op: OpSetAttr, NodeID: n.id, Key: name, Value: value})
}

// RemoveAttribute removes a content attribute if present.
func (n *Node) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	i := n.attrIndex(name)
	if i < 0 {
		return
	}
	n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
	if name == "style" {
		n.style = nil
	}
	n.emit(Mutation{Op: OpRemoveAttr, NodeID: n.id, Key: name})
}

// ClassName returns the class attribute.
func (n *Node) ClassName() string {
	return n.Attribute("class")
}

// SetClassName assigns the whole class attribute in one write.
func (n *Node) SetClassName(class string) {
	n.SetAttribute("class", class)
}

// ClassList returns the whitespace-separated class tokens.
func (n *Node) ClassList() []string {
	return strings.Fields(n.ClassName())
}

// BoolProp returns the IDL boolean property. For reflected boolean
// attributes whose property was never written it reports attribute presence.
func (n *Node) BoolProp(name string) bool {
	name = strings.ToLower(name)
	if v, ok := n.props[name]; ok {
		return v
	}
	if booleanAttrs[name] {
		return n.HasAttribute(name)
	}
	return false
}

// SetBoolProp writes the IDL boolean property. For reflected boolean
// attributes the content attribute follows: true adds it (empty value) when
// missing, false removes it.
func (n *Node) SetBoolProp(name string, v bool) {
	if n.typ != ElementNode {
		return
	}
	name = strings.ToLower(name)
	old, had := n.props[name]
	if n.props == nil {
		n.props = make(map[string]bool)
	}
	n.props[name] = v
	if !had || old != v {
		n.emit(Mutation{Op: OpSetProp, NodeID: n.id, Key: name, Bool: v})
	}
	if !booleanAttrs[name] {
		return
	}
	if v {
		if !n.HasAttribute(name) {
			n.SetAttribute(name, "")
		}
	} else {
		n.RemoveAttribute(name)
	}
}
