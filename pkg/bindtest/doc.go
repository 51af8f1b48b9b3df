// Package bindtest provides testing helpers for bound components.
//
// A Harness owns a manual scheduler loop and a recorded container, so tests
// decide exactly when flushes happen:
//
//	func TestTitle(t *testing.T) {
//	    h := bindtest.New(t)
//	    c := h.Mount(`<a title="{{name}}"></a>`, map[string]any{"name": "errorrik"})
//	    bindtest.ExpectAttribute(t, c.Root(), "title", "errorrik")
//
//	    c.Data().SetPath("name", "varsha")
//	    bindtest.ExpectAttribute(t, c.Root(), "title", "errorrik") // not flushed yet
//
//	    h.NextTick()
//	    bindtest.ExpectAttribute(t, c.Root(), "title", "varsha")
//	}
//
// Components mounted through a Harness are disposed by t.Cleanup.
package bindtest
