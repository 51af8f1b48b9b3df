// Package scheduler batches binding updates into deferred flushes.
//
// A Scheduler holds one pending-work queue of (target, descriptor) entries.
// Enqueue is idempotent per entry and keeps first-enqueued order. The first
// entry added to an idle queue posts one Flush to the Executor, so DOM
// writes never happen inline with the mutation that caused them.
//
// Flush drains exactly the entries pending when it starts. Entries enqueued
// while a flush is applying patches land in the next cycle, which is
// scheduled before the flush returns. Callbacks registered with
// AfterNextFlush run once the patches of the next flush are applied.
//
// Schedulers are explicit objects: each process, live session or test
// builds its own, usually over a Loop (one goroutine) or a ManualLoop
// (tests drive turns by hand).
package scheduler
