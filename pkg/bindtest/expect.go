package bindtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/vbind/pkg/dom"
)

// Query returns the first element with the given tag under root (root
// included) and fails the test when there is none.
func Query(t testing.TB, root *dom.Node, tag string) *dom.Node {
	t.Helper()
	if root.IsElement() && root.Tag() == tag {
		return root
	}
	found := root.ElementsByTagName(tag)
	if len(found) == 0 {
		t.Fatalf("no <%s> under <%s>", tag, root.Tag())
	}
	return found[0]
}

// QueryAll returns every element with the given tag under root.
func QueryAll(root *dom.Node, tag string) []*dom.Node {
	return root.ElementsByTagName(tag)
}

// ExpectAttribute checks that attr is present with value.
func ExpectAttribute(t testing.TB, n *dom.Node, attr, value string) {
	t.Helper()
	got, ok := n.GetAttribute(attr)
	if !ok {
		t.Errorf("<%s> %s attribute missing, want %q", n.Tag(), attr, value)
		return
	}
	if got != value {
		t.Errorf("<%s> %s = %q, want %q", n.Tag(), attr, got, value)
	}
}

// ExpectNoAttribute checks that attr is absent.
func ExpectNoAttribute(t testing.TB, n *dom.Node, attr string) {
	t.Helper()
	if got, ok := n.GetAttribute(attr); ok {
		t.Errorf("<%s> %s = %q, want absent", n.Tag(), attr, got)
	}
}

// ExpectText checks the text content.
func ExpectText(t testing.TB, n *dom.Node, text string) {
	t.Helper()
	if got := n.TextContent(); got != text {
		t.Errorf("<%s> text = %q, want %q", n.Tag(), got, text)
	}
}

// ExpectTextPrefix checks that the text content starts with prefix.
func ExpectTextPrefix(t testing.TB, n *dom.Node, prefix string) {
	t.Helper()
	if got := n.TextContent(); !strings.HasPrefix(got, prefix) {
		t.Errorf("<%s> text = %q, want prefix %q", n.Tag(), got, prefix)
	}
}

// ExpectClass checks the exact class attribute value.
func ExpectClass(t testing.TB, n *dom.Node, class string) {
	t.Helper()
	if got := n.ClassName(); got != class {
		t.Errorf("<%s> class = %q, want %q", n.Tag(), got, class)
	}
}

// ExpectStyle checks one inline style property.
func ExpectStyle(t testing.TB, n *dom.Node, property, value string) {
	t.Helper()
	if got := n.Style().GetPropertyValue(property); got != value {
		t.Errorf("<%s> style %s = %q, want %q", n.Tag(), property, got, value)
	}
}

// ExpectBoolProp checks that the IDL property and the content attribute of
// a boolean attribute agree with want: property true and attribute equal
// to its own name, or property false and attribute absent.
func ExpectBoolProp(t testing.TB, n *dom.Node, name string, want bool) {
	t.Helper()
	if got := n.BoolProp(name); got != want {
		t.Errorf("<%s>.%s = %v, want %v", n.Tag(), name, got, want)
	}
	v, ok := n.GetAttribute(name)
	switch {
	case want && !ok:
		t.Errorf("<%s> %s attribute missing", n.Tag(), name)
	case want && v != name:
		t.Errorf("<%s> %s attribute = %q, want %q", n.Tag(), name, v, name)
	case !want && ok:
		t.Errorf("<%s> %s attribute = %q, want absent", n.Tag(), name, v)
	}
}
