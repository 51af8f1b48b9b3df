package store

import (
	"math"
	"testing"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{"", false},
		{"false", true},
		{0.0, false},
		{math.NaN(), false},
		{2.0, true},
		{[]any{}, true},
		{NewMap(), true},
	}
	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"nil", nil, ""},
		{"string", "line1\r\nline2", "line1\r\nline2"},
		{"bool", true, "true"},
		{"integer float", 20.0, "20"},
		{"fraction", 0.5, "0.5"},
		{"int", 7, "7"},
		{"sequence", []any{"a", 1.0, nil}, "a,1,"},
		{"mapping", MapOf("b", 1, "a", "x"), `{"b":1,"a":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.v); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	type point struct{ X int }

	m, ok := Normalize(map[string]any{"b": 1, "a": []string{"x"}}).(*Map)
	if !ok {
		t.Fatal("map[string]any should normalize to *Map")
	}
	if keys := m.Keys(); keys[0] != "a" || keys[1] != "b" {
		t.Errorf("keys = %v, want sorted", keys)
	}
	a, _ := m.Get("a")
	if seq, ok := a.([]any); !ok || seq[0] != "x" {
		t.Errorf("a = %#v, want []any{\"x\"}", a)
	}

	if got := Normalize(int32(4)); got != 4.0 {
		t.Errorf("Normalize(int32) = %#v, want 4.0", got)
	}
	n := 3
	if got := Normalize(&n); got != 3.0 {
		t.Errorf("Normalize(*int) = %#v, want 3.0", got)
	}
	if _, ok := Normalize(func() {}).(string); !ok {
		t.Error("functions should normalize to strings")
	}
	if _, ok := Normalize(point{1}).(string); !ok {
		t.Error("structs should normalize to strings")
	}
}

func TestEqual(t *testing.T) {
	if !Equal(MapOf("a", []any{1}), MapOf("a", []any{1})) {
		t.Error("equal maps reported unequal")
	}
	if Equal(MapOf("a", 1, "b", 2), MapOf("b", 2, "a", 1)) {
		t.Error("key order is part of mapping identity")
	}
	if Equal([]any{1.0}, "1") {
		t.Error("sequence should not equal string")
	}
}
