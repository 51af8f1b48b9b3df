package store

import (
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vbind/internal/errors"
)

func TestParseMutationsAndApply(t *testing.T) {
	doc, err := DecodeYAML([]byte(`
mutations:
  - {path: name, value: varsha}
  - {op: merge, path: extra, value: {height: 50px}}
  - {op: push, path: list, value: c}
  - {op: shift, path: list}
  - {op: remove-at, path: list, index: 0}
  - {op: unshift, path: list, value: z}
`))
	if err != nil {
		t.Fatal(err)
	}
	ms, err := ParseMutations(doc)
	if err != nil {
		t.Fatalf("ParseMutations() error = %v", err)
	}
	if len(ms) != 6 {
		t.Fatalf("len = %d, want 6", len(ms))
	}
	if ms[0].Op != OpSet {
		t.Errorf("default op = %q, want set", ms[0].Op)
	}

	s := New(MapOf(
		"name", "errorrik",
		"extra", MapOf("width", "100px", "height", "20px"),
		"list", []any{"a", "b"},
	))
	for _, m := range ms {
		m.Apply(s)
	}

	want := MapOf(
		"name", "varsha",
		"extra", MapOf("width", "100px", "height", "50px"),
		"list", []any{"z", "c"},
	)
	if diff := cmp.Diff(want.Keys(), s.Snapshot().Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if !Equal(want, s.Snapshot()) {
		t.Errorf("Snapshot() = %s, want %s", String(s.Snapshot()), String(want))
	}
}

func TestParseMutationErrors(t *testing.T) {
	tests := []struct {
		name string
		in   *Map
	}{
		{"no path", MapOf("value", 1.0)},
		{"empty path", MapOf("path", "")},
		{"unknown op", MapOf("op", "explode", "path", "a")},
		{"op not string", MapOf("op", 1.0, "path", "a")},
		{"merge scalar", MapOf("op", "merge", "path", "a", "value", "x")},
		{"remove-at negative", MapOf("op", "remove-at", "path", "a", "index", -1.0)},
		{"remove-at fraction", MapOf("op", "remove-at", "path", "a", "index", 1.5)},
		{"remove-at huge", MapOf("op", "remove-at", "path", "a", "index", 1e12)},
		{"path index too large", MapOf("path", "list.5000000000", "value", 1.0)},
		{"bracket index too large", MapOf("path", "list[70000]", "value", 1.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMutation(tt.in)
			if !stderrors.Is(err, errors.New(errors.CodeDataDecode)) {
				t.Errorf("ParseMutation() error = %v, want E301", err)
			}
		})
	}

	if _, err := ParseMutations(MapOf("mutations", "x")); err == nil {
		t.Error("ParseMutations(scalar) error = nil")
	}
	if ms, err := ParseMutations(NewMap()); err != nil || ms != nil {
		t.Errorf("ParseMutations(empty) = %v, %v, want nil, nil", ms, err)
	}
}
