package binding

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/store"
)

// compileOne compiles root and applies every descriptor once.
func compileOne(t *testing.T, root *dom.Node, s *store.Store) (*Patcher, []*Descriptor) {
	t.Helper()
	ds, err := Compile(root)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	p := NewPatcher(s)
	p.ApplyAll(ds)
	return p, ds
}

func TestTextBinding(t *testing.T) {
	s := store.New(store.MapOf("name", "errorrik"))
	span := dom.Span("{{name}} - {{missing}}!")
	compileOne(t, span, s)

	if got := span.TextContent(); got != "errorrik - !" {
		t.Errorf("TextContent() = %q, want %q", got, "errorrik - !")
	}
}

func TestAttributeBindingPreservesLineBreaks(t *testing.T) {
	s := store.New(store.MapOf("name", "line1\r\nline2", "n", 3))
	a := dom.Anchor(dom.A("title", "{{name}}"), dom.A("data-count", "{{n}}"), dom.A("data-none", "{{nothing}}"))
	compileOne(t, a, s)

	if got := a.Attribute("title"); got != "line1\r\nline2" {
		t.Errorf("title = %q, want %q", got, "line1\r\nline2")
	}
	if got := a.Attribute("data-count"); got != "3" {
		t.Errorf("data-count = %q, want %q", got, "3")
	}
	if v, ok := a.GetAttribute("data-none"); !ok || v != "" {
		t.Errorf("data-none = %q, %v; want present and empty", v, ok)
	}
}

func TestClassBinding(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "msg-error", "msg msg-error"},
		{"sequence", []any{"msg-notice", "msg-error"}, "msg msg-notice msg-error"},
		{"falsy elements skipped", []any{"", "a", nil, false, "b"}, "msg a b"},
		{"mapping", store.MapOf("on", true, "off", false), "msg on"},
		{"nil", nil, "msg"},
		{"false", false, "msg"},
		{"whitespace", "  x   y ", "msg x y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.New(nil)
			s.SetPath("extra", tt.value)
			span := dom.Span(dom.A("class", "msg {{extra}}"))
			compileOne(t, span, s)
			if got := span.ClassName(); got != tt.want {
				t.Errorf("ClassName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassBindingEmpty(t *testing.T) {
	s := store.New(nil)
	a := dom.Span(dom.A("class", "{{cls}}"))
	b := dom.Span(dom.A("class", ""))
	c := dom.Span(dom.A("class", "fixed"))
	compileOne(t, dom.Div(a, b, c), s)

	if v, ok := a.GetAttribute("class"); !ok || v != "" {
		t.Errorf("bound empty class = %q, %v; want present and empty", v, ok)
	}
	if got := b.ClassName(); got != "" {
		t.Errorf("literal empty class = %q, want empty", got)
	}
	if got := c.ClassName(); got != "fixed" {
		t.Errorf("sibling class = %q, want fixed", got)
	}
}

func TestStyleBinding(t *testing.T) {
	s := store.New(store.MapOf(
		"display", "block",
		"extra", store.MapOf("width", "100px", "height", "20px", "fontSize", "12px", "color", nil),
	))
	span := dom.Span(dom.A("style", "position: absolute; display: {{display}}; {{extra}}"))
	p, ds := compileOne(t, span, s)

	want := []dom.Declaration{
		{Property: "position", Value: "absolute"},
		{Property: "display", Value: "block"},
		{Property: "width", Value: "100px"},
		{Property: "height", Value: "20px"},
		{Property: "font-size", Value: "12px"},
	}
	if diff := cmp.Diff(want, span.Style().Declarations()); diff != "" {
		t.Errorf("declarations mismatch (-want +got):\n%s", diff)
	}

	rec := dom.NewBuffer()
	span.SetRecorder(rec)
	s.SetPath("extra.height", "50px")
	p.Apply(ds[0])

	if got := span.Style().GetPropertyValue("height"); got != "50px" {
		t.Errorf("height = %q, want 50px", got)
	}
	muts := rec.Drain()
	if len(muts) != 1 || muts[0].Op != dom.OpSetStyle || muts[0].Key != "height" {
		t.Errorf("sub-path update mutations = %+v, want one SetStyle height", muts)
	}

	s.SetPath("extra", store.MapOf("width", "100px"))
	p.Apply(ds[0])
	if got := span.Style().CSSText(); got != "position: absolute; display: block; width: 100px;" {
		t.Errorf("CSSText() = %q", got)
	}
}

func TestStyleBindingKeepsForeignDeclarations(t *testing.T) {
	s := store.New(store.MapOf("c", "red"))
	span := dom.Span(dom.A("style", "color: {{c}}"))
	p, ds := compileOne(t, span, s)

	span.Style().SetProperty("margin", "0")
	s.SetPath("c", "blue")
	p.Apply(ds[0])

	if got := span.Style().CSSText(); got != "color: blue; margin: 0;" {
		t.Errorf("CSSText() = %q, want %q", got, "color: blue; margin: 0;")
	}
}

func TestBoolPropBinding(t *testing.T) {
	for _, tag := range []string{"input", "textarea", "button"} {
		for _, name := range []string{"disabled", "readonly"} {
			t.Run(tag+"/"+name, func(t *testing.T) {
				s := store.New(nil)
				el := dom.H(tag, dom.A(name, "{{ed}}"))
				p, ds := compileOne(t, el, s)

				check := func(want bool) {
					t.Helper()
					if got := el.BoolProp(name); got != want {
						t.Errorf("property = %v, want %v", got, want)
					}
					v, ok := el.GetAttribute(name)
					if ok != want {
						t.Errorf("attribute present = %v, want %v", ok, want)
					}
					if want && v != name {
						t.Errorf("attribute = %q, want %q", v, name)
					}
				}

				check(false)
				for _, v := range []any{true, false, "yes", 0, 1, nil} {
					s.SetPath("ed", v)
					p.Apply(ds[0])
					check(store.Truthy(store.Normalize(v)))
				}
			})
		}
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	s := store.New(store.MapOf("name", "a", "cls", []any{"x"}, "st", store.MapOf("width", "1px"), "on", true))
	root := dom.Div(
		dom.A("title", "{{name}}"),
		dom.A("class", "c {{cls}}"),
		dom.A("style", "{{st}}"),
		dom.Input(dom.A("checked", "{{on}}")),
		"{{name}}",
	)
	p, ds := compileOne(t, root, s)

	rec := dom.NewBuffer()
	root.SetRecorder(rec)
	p.ApplyAll(ds)
	p.ApplyAll(ds)

	if n := rec.Len(); n != 0 {
		t.Errorf("re-applying unchanged values produced %d mutations: %+v", n, rec.Drain())
	}
}
