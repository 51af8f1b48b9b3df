package binding

import (
	"strings"

	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/expr"
	"github.com/vango-dev/vbind/pkg/store"
)

// Kind identifies a binding kind.
type Kind uint8

const (
	KindText      Kind = iota + 1 // Text node content
	KindAttribute                 // Generic content attribute
	KindClass                     // class attribute
	KindStyle                     // Inline style declarations
	KindBoolProp                  // IDL boolean property + attribute presence
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "TEXT"
	case KindAttribute:
		return "ATTRIBUTE"
	case KindClass:
		return "CLASS"
	case KindStyle:
		return "STYLE"
	case KindBoolProp:
		return "BOOLEAN-PROPERTY"
	default:
		return "UNKNOWN"
	}
}

// boolProps are the attributes bound as KindBoolProp.
var boolProps = map[string]bool{
	"disabled": true,
	"readonly": true,
	"checked":  true,
	"selected": true,
	"multiple": true,
}

// IsBoolProp reports whether an attribute binds as KindBoolProp.
func IsBoolProp(name string) bool {
	return boolProps[strings.ToLower(name)]
}

// Applier is the apply routine of one binding kind. The set of
// implementations is closed.
type Applier interface {
	Kind() Kind
	apply(p *Patcher, d *Descriptor)
}

type (
	textApplier      struct{}
	attributeApplier struct{}
	classApplier     struct{}
	styleApplier     struct{}
	boolPropApplier  struct{}
)

func (textApplier) Kind() Kind      { return KindText }
func (attributeApplier) Kind() Kind { return KindAttribute }
func (classApplier) Kind() Kind     { return KindClass }
func (styleApplier) Kind() Kind     { return KindStyle }
func (boolPropApplier) Kind() Kind  { return KindBoolProp }

// applierFor picks the applier for an attribute name. An empty name means a
// text node.
func applierFor(name string) Applier {
	switch {
	case name == "":
		return textApplier{}
	case name == "class":
		return classApplier{}
	case name == "style":
		return styleApplier{}
	case IsBoolProp(name):
		return boolPropApplier{}
	default:
		return attributeApplier{}
	}
}

func (textApplier) apply(p *Patcher, d *Descriptor) {
	d.Node.SetTextContent(p.concat(d))
}

func (attributeApplier) apply(p *Patcher, d *Descriptor) {
	d.Node.SetAttribute(d.Name, p.concat(d))
}

func (classApplier) apply(p *Patcher, d *Descriptor) {
	var tokens []string
	for _, seg := range d.Segments {
		tokens = appendClassTokens(tokens, expr.Eval(seg, p.scope))
	}
	d.Node.SetClassName(strings.Join(tokens, " "))
}

// appendClassTokens adds the tokens a bound value contributes. Strings split
// on whitespace; sequences contribute their truthy elements; mappings
// contribute the keys whose values are truthy; falsy scalars contribute
// nothing.
func appendClassTokens(tokens []string, v any) []string {
	switch v := v.(type) {
	case string:
		return append(tokens, strings.Fields(v)...)
	case []any:
		for _, e := range v {
			if store.Truthy(e) {
				tokens = append(tokens, strings.Fields(store.String(e))...)
			}
		}
		return tokens
	case *store.Map:
		v.Range(func(k string, e any) bool {
			if store.Truthy(e) {
				tokens = append(tokens, strings.Fields(k)...)
			}
			return true
		})
		return tokens
	default:
		if !store.Truthy(v) {
			return tokens
		}
		return append(tokens, strings.Fields(store.String(v))...)
	}
}

func (styleApplier) apply(p *Patcher, d *Descriptor) {
	var b strings.Builder
	for _, seg := range d.Segments {
		appendStyleText(&b, expr.Eval(seg, p.scope))
	}
	next := dom.ParseDeclarations(b.String())
	prev := p.styles[d.ID]

	style := d.Node.Style()
	for _, old := range prev {
		if !hasProperty(next, old.Property) {
			style.RemoveProperty(old.Property)
		}
	}
	for _, decl := range next {
		style.SetProperty(decl.Property, decl.Value)
	}
	p.styles[d.ID] = next
}

// appendStyleText adds the declaration text a bound value contributes.
// Mappings expand to one declaration per non-nil entry with the property
// name in dashed form; anything else is appended verbatim.
func appendStyleText(b *strings.Builder, v any) {
	m, ok := v.(*store.Map)
	if !ok {
		b.WriteString(store.String(v))
		return
	}
	m.Range(func(k string, e any) bool {
		if e == nil {
			return true
		}
		if trimmed := strings.TrimSpace(b.String()); trimmed != "" && !strings.HasSuffix(trimmed, ";") {
			b.WriteByte(';')
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(dom.CSSPropertyName(k))
		b.WriteString(": ")
		b.WriteString(store.String(e))
		b.WriteByte(';')
		return true
	})
}

func hasProperty(decls []dom.Declaration, property string) bool {
	for _, d := range decls {
		if d.Property == property {
			return true
		}
	}
	return false
}

func (boolPropApplier) apply(p *Patcher, d *Descriptor) {
	var on bool
	if len(d.Segments) == 1 {
		on = store.Truthy(expr.Eval(d.Segments[0], p.scope))
	} else {
		on = store.Truthy(p.concat(d))
	}
	if on {
		d.Node.SetAttribute(d.Name, d.Name)
		d.Node.SetBoolProp(d.Name, true)
		return
	}
	d.Node.SetBoolProp(d.Name, false)
}
