package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want Path
	}{
		{"name", P("name")},
		{"extra.height", P("extra", "height")},
		{"list[2].name", P("list", 2, "name")},
		{"a.0", P("a", "0")},
		{`a["b c"]`, P("a", "b c")},
		{"a['x'][1]", P("a", "x", 1)},
		{"a[unclosed", P("a", "unclosed")},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParsePath(tt.in)); diff != "" {
				t.Errorf("ParsePath(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestPathString(t *testing.T) {
	if got := P("list", 2, "name").String(); got != "list[2].name" {
		t.Errorf("String() = %q, want %q", got, "list[2].name")
	}
}

func TestPathOverlaps(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"extra", "extra.height", true},
		{"extra.height", "extra", true},
		{"extra.height", "extra.height", true},
		{"extra.height", "extra.width", false},
		{"list[0]", "list.0", true},
		{"name", "names", false},
	}
	for _, tt := range tests {
		if got := ParsePath(tt.a).Overlaps(ParsePath(tt.b)); got != tt.want {
			t.Errorf("Overlaps(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
