// Package store provides the path-addressable data tree that drives bindings.
//
// A Store holds a root mapping. Values are nil, bool, float64, string,
// []any (ordered sequences) or *Map (insertion-ordered mappings). Anything
// else handed to Set is normalized into one of those shapes first.
//
//	s := store.New(nil)
//	s.SetPath("extra.height", "20px")   // creates the "extra" mapping
//	s.SetPath("list[2]", "c")           // creates a sequence padded with nil
//	s.GetPath("extra.height")           // "20px"
//	s.GetPath("missing.deep")           // nil, never panics
//
// Every mutating call emits exactly one ChangeRecord to the registered
// observers. The store knows nothing about the DOM; the component package
// observes it and schedules binding updates.
package store
