package store

import (
	"sync"
)

// ChangeKind classifies a ChangeRecord.
type ChangeKind uint8

const (
	ChangeSet          ChangeKind = iota + 1 // Value written at Path
	ChangeArrayMutate                        // Sequence at Path mutated in place
)

// String returns the string representation of the ChangeKind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeSet:
		return "SET"
	case ChangeArrayMutate:
		return "ARRAY-MUTATE"
	default:
		return "UNKNOWN"
	}
}

// ChangeRecord describes one mutation. Records are delivered once to each
// observer and not retained by the store.
type ChangeRecord struct {
	Path  Path
	Kind  ChangeKind
	Value any // New value at Path
}

// Observer receives change records.
type Observer func(ChangeRecord)

type observerEntry struct {
	id uint64
	fn Observer
}

// Store is a path-addressable mutable value tree.
type Store struct {
	mu       sync.RWMutex
	root     *Map
	released bool

	obsMu     sync.Mutex
	observers []observerEntry
	nextObsID uint64
}

// New creates a store. The initial mapping is deep-copied; nil starts empty.
func New(initial *Map) *Store {
	root := NewMap()
	if initial != nil {
		root = initial.Clone()
	}
	return &Store{root: root}
}

// FromMap creates a store from a Go map. Keys are inserted in sorted order.
func FromMap(initial map[string]any) *Store {
	m, _ := Normalize(initial).(*Map)
	return &Store{root: orEmpty(m)}
}

func orEmpty(m *Map) *Map {
	if m == nil {
		return NewMap()
	}
	return m
}

// Observe registers fn for change records and returns a cancel function.
func (s *Store) Observe(fn Observer) (cancel func()) {
	s.obsMu.Lock()
	s.nextObsID++
	id := s.nextObsID
	s.observers = append(s.observers, observerEntry{id: id, fn: fn})
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// notify delivers rec to a snapshot of the observers, outside any lock.
func (s *Store) notify(rec ChangeRecord) {
	s.obsMu.Lock()
	obs := make([]observerEntry, len(s.observers))
	copy(obs, s.observers)
	s.obsMu.Unlock()

	for _, o := range obs {
		o.fn(rec)
	}
}

// Release detaches all observers, drops the contents and turns every later
// mutation into a no-op. Later reads see an empty store.
func (s *Store) Release() {
	s.mu.Lock()
	s.released = true
	s.root = NewMap()
	s.mu.Unlock()

	s.obsMu.Lock()
	s.observers = nil
	s.obsMu.Unlock()
}

// Released reports whether Release was called.
func (s *Store) Released() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.released
}

// Get returns the value at path, or nil when absent. The returned value is
// owned by the store and must not be modified.
func (s *Store) Get(path Path) any {
	if len(path) == 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookupPath(s.root, path)
}

// GetPath is Get with a path string.
func (s *Store) GetPath(path string) any {
	return s.Get(ParsePath(path))
}

// Snapshot returns a deep copy of the whole tree.
func (s *Store) Snapshot() *Map {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root.Clone()
}

// Set writes value at path, creating or coercing intermediate containers as
// the path requires. It emits one ChangeSet record. Empty paths and
// released stores are ignored.
func (s *Store) Set(path Path, value any) {
	if len(path) == 0 {
		return
	}
	value = Normalize(value)

	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	s.root = assignPath(s.root, path, value).(*Map)
	s.mu.Unlock()

	s.notify(ChangeRecord{Path: path, Kind: ChangeSet, Value: value})
}

// SetPath is Set with a path string.
func (s *Store) SetPath(path string, value any) {
	s.Set(ParsePath(path), value)
}

// Merge copies every entry of m into the mapping at path, coercing the
// target into a mapping if needed. It emits one ChangeSet record.
func (s *Store) Merge(path Path, m *Map) {
	if len(path) == 0 || m == nil {
		return
	}
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	target, ok := lookupPath(s.root, path).(*Map)
	if ok {
		target = target.Clone()
	} else {
		target = NewMap()
	}
	m.Range(func(k string, v any) bool {
		target.Set(k, Clone(v))
		return true
	})
	s.root = assignPath(s.root, path, target).(*Map)
	s.mu.Unlock()

	s.notify(ChangeRecord{Path: path, Kind: ChangeSet, Value: target})
}

// Apply replaces the value at path with fn(current). It emits one ChangeSet
// record.
func (s *Store) Apply(path Path, fn func(any) any) {
	if len(path) == 0 || fn == nil {
		return
	}
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	value := Normalize(fn(Clone(lookupPath(s.root, path))))
	s.root = assignPath(s.root, path, value).(*Map)
	s.mu.Unlock()

	s.notify(ChangeRecord{Path: path, Kind: ChangeSet, Value: value})
}

// lookupPath walks path from v. Missing steps yield nil.
func lookupPath(v any, path Path) any {
	for _, seg := range path {
		v = lookup(v, seg)
		if v == nil {
			return nil
		}
	}
	return v
}

func lookup(container any, seg Segment) any {
	switch c := container.(type) {
	case *Map:
		v, _ := c.Get(seg.key())
		return v
	case []any:
		if !seg.IsIndex && seg.Key == "length" {
			return float64(len(c))
		}
		i, ok := seg.index()
		if !ok || i >= len(c) {
			return nil
		}
		return c[i]
	case string:
		if !seg.IsIndex && seg.Key == "length" {
			return float64(len([]rune(c)))
		}
		return nil
	default:
		return nil
	}
}

// assignPath stores value at path below container and returns the
// (possibly replaced) container. Sequences are values in Go, so every level
// hands its updated container back to its parent.
func assignPath(container any, path Path, value any) any {
	seg := path[0]
	container = coerceFor(container, seg)
	if len(path) == 1 {
		return assign(container, seg, value)
	}
	child := lookup(container, seg)
	child = assignPath(child, path[1:], value)
	return assign(container, seg, child)
}

// coerceFor returns container if it can hold seg, otherwise a fresh
// container of the shape seg implies. A mapping accepts any segment; a
// sequence accepts index-like segments only.
func coerceFor(container any, seg Segment) any {
	switch c := container.(type) {
	case *Map:
		return c
	case []any:
		if _, ok := seg.index(); ok {
			return c
		}
	}
	if _, ok := seg.index(); ok {
		return []any{}
	}
	return NewMap()
}

func assign(container any, seg Segment, value any) any {
	switch c := container.(type) {
	case *Map:
		c.Set(seg.key(), value)
		return c
	case []any:
		i, _ := seg.index()
		for len(c) <= i {
			c = append(c, nil)
		}
		c[i] = value
		return c
	}
	return container
}
