package store

import (
	"github.com/vango-dev/vbind/internal/errors"
)

// Op names a store operation in a mutation document.
type Op string

const (
	OpSet      Op = "set"
	OpMerge    Op = "merge"
	OpPush     Op = "push"
	OpPop      Op = "pop"
	OpShift    Op = "shift"
	OpUnshift  Op = "unshift"
	OpRemoveAt Op = "remove-at"
)

// Mutation is one store operation decoded from data, as sent to the live
// data endpoint or listed in a mutation script:
//
//	{op: set, path: extra.height, value: 50px}
//	{op: remove-at, path: list, index: 2}
type Mutation struct {
	Op    Op
	Path  Path
	Value any
	Index int
}

// ParseMutation decodes a mutation from a mapping with the keys op
// (default set), path, value and index.
func ParseMutation(m *Map) (Mutation, error) {
	var mu Mutation
	op := OpSet
	if v, ok := m.Get("op"); ok {
		s, isStr := v.(string)
		if !isStr {
			return mu, errors.New(errors.CodeDataDecode).WithDetailf("op is %T, want string", v)
		}
		op = Op(s)
	}
	switch op {
	case OpSet, OpMerge, OpPush, OpPop, OpShift, OpUnshift, OpRemoveAt:
	default:
		return mu, errors.New(errors.CodeDataDecode).WithDetailf("unknown op %q", op)
	}

	p, _ := m.Get("path")
	ps, ok := p.(string)
	if !ok || ps == "" {
		return mu, errors.New(errors.CodeDataDecode).WithDetail("mutation needs a non-empty path")
	}
	mu.Op = op
	mu.Path = ParsePath(ps)
	for _, seg := range mu.Path {
		if _, ok := seg.index(); seg.numeric() && !ok {
			return mu, errors.New(errors.CodeDataDecode).WithDetailf("path %q: index %s exceeds %d", ps, seg.key(), MaxSequenceIndex)
		}
	}
	mu.Value, _ = m.Get("value")

	if op == OpMerge {
		if _, isMap := mu.Value.(*Map); !isMap {
			return mu, errors.New(errors.CodeDataDecode).WithDetailf("merge value is %T, want mapping", mu.Value)
		}
	}
	if op == OpRemoveAt {
		idx, _ := m.Get("index")
		f, isNum := idx.(float64)
		if !isNum || f < 0 || f > MaxSequenceIndex || f != float64(int(f)) {
			return mu, errors.New(errors.CodeDataDecode).WithDetailf("remove-at index %v is not a non-negative integer", idx)
		}
		mu.Index = int(f)
	}
	return mu, nil
}

// ParseMutations decodes the sequence under the "mutations" key of doc.
func ParseMutations(doc *Map) ([]Mutation, error) {
	v, ok := doc.Get("mutations")
	if !ok || v == nil {
		return nil, nil
	}
	seq, ok := v.([]any)
	if !ok {
		return nil, errors.New(errors.CodeDataDecode).WithDetailf("mutations is %T, want sequence", v)
	}
	out := make([]Mutation, 0, len(seq))
	for i, item := range seq {
		m, ok := item.(*Map)
		if !ok {
			return nil, errors.New(errors.CodeDataDecode).WithDetailf("mutations[%d] is %T, want mapping", i, item)
		}
		mu, err := ParseMutation(m)
		if err != nil {
			return nil, err
		}
		out = append(out, mu)
	}
	return out, nil
}

// Apply performs the mutation on s.
func (m Mutation) Apply(s *Store) {
	switch m.Op {
	case OpSet:
		s.Set(m.Path, m.Value)
	case OpMerge:
		mm, _ := m.Value.(*Map)
		s.Merge(m.Path, mm)
	case OpPush:
		s.Push(m.Path, m.Value)
	case OpPop:
		s.Pop(m.Path)
	case OpShift:
		s.Shift(m.Path)
	case OpUnshift:
		s.Unshift(m.Path, m.Value)
	case OpRemoveAt:
		s.RemoveAt(m.Path, m.Index)
	}
}
