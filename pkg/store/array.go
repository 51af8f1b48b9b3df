package store

// mutateSeq runs fn on a copy of the sequence at path (a non-sequence is
// coerced to an empty one), stores the result and emits one
// ChangeArrayMutate record.
func (s *Store) mutateSeq(path Path, fn func([]any) []any) {
	if len(path) == 0 {
		return
	}
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	cur, _ := lookupPath(s.root, path).([]any)
	next := fn(append([]any(nil), cur...))
	if next == nil {
		next = []any{}
	}
	s.root = assignPath(s.root, path, next).(*Map)
	s.mu.Unlock()

	s.notify(ChangeRecord{Path: path, Kind: ChangeArrayMutate, Value: next})
}

// Push appends items to the sequence at path and returns the new length.
func (s *Store) Push(path Path, items ...any) int {
	n := 0
	s.mutateSeq(path, func(seq []any) []any {
		for _, it := range items {
			seq = append(seq, Normalize(it))
		}
		n = len(seq)
		return seq
	})
	return n
}

// Pop removes and returns the last element of the sequence at path.
func (s *Store) Pop(path Path) any {
	var out any
	s.mutateSeq(path, func(seq []any) []any {
		if len(seq) == 0 {
			return seq
		}
		out = seq[len(seq)-1]
		return seq[:len(seq)-1]
	})
	return out
}

// Unshift prepends items to the sequence at path and returns the new length.
func (s *Store) Unshift(path Path, items ...any) int {
	n := 0
	s.mutateSeq(path, func(seq []any) []any {
		head := make([]any, 0, len(items)+len(seq))
		for _, it := range items {
			head = append(head, Normalize(it))
		}
		seq = append(head, seq...)
		n = len(seq)
		return seq
	})
	return n
}

// Shift removes and returns the first element of the sequence at path.
func (s *Store) Shift(path Path) any {
	var out any
	s.mutateSeq(path, func(seq []any) []any {
		if len(seq) == 0 {
			return seq
		}
		out = seq[0]
		return seq[1:]
	})
	return out
}

// Splice removes deleteCount elements starting at start and inserts items
// in their place. A negative start counts from the end. It returns the
// removed elements.
func (s *Store) Splice(path Path, start, deleteCount int, items ...any) []any {
	var removed []any
	s.mutateSeq(path, func(seq []any) []any {
		start := clampStart(start, len(seq))
		if deleteCount < 0 {
			deleteCount = 0
		}
		end := start + deleteCount
		if end > len(seq) {
			end = len(seq)
		}
		removed = append([]any(nil), seq[start:end]...)

		out := make([]any, 0, len(seq)-len(removed)+len(items))
		out = append(out, seq[:start]...)
		for _, it := range items {
			out = append(out, Normalize(it))
		}
		return append(out, seq[end:]...)
	})
	return removed
}

func clampStart(start, n int) int {
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if start > n {
		start = n
	}
	return start
}

// RemoveAt removes the element at index i of the sequence at path.
func (s *Store) RemoveAt(path Path, i int) {
	if i < 0 {
		return
	}
	s.Splice(path, i, 1)
}

// Remove removes the first element equal to value from the sequence at path.
func (s *Store) Remove(path Path, value any) {
	value = Normalize(value)
	s.mutateSeq(path, func(seq []any) []any {
		for i, e := range seq {
			if Equal(e, value) {
				return append(seq[:i], seq[i+1:]...)
			}
		}
		return seq
	})
}
