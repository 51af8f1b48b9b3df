// Package component ties a data store, a compiled binding set and a root
// DOM node together and drives them through the CREATED → ATTACHED →
// DISPOSED lifecycle.
//
// Before Attach, store mutations are only staged. Attach paints every
// descriptor synchronously and inserts the root into its container. After
// Attach, each mutation resolves the descriptors that depend on the changed
// path and enqueues them on the scheduler; nothing is written to the DOM
// until the scheduler flushes. Dispose detaches the root, drops pending
// work and releases the store; later mutations are silent no-ops.
//
//	def, _ := component.Define(`<a title="{{name}}">{{name}}</a>`)
//	c, _ := component.New(def, component.Options{
//	    Data:      map[string]any{"name": "errorrik"},
//	    Scheduler: sched,
//	})
//	_ = c.Attach(container)
//	c.Data().SetPath("name", "varsha") // visible after the next flush
package component
