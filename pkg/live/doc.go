// Package live streams a bound DOM tree to browsers.
//
// A Stream records every DOM write under a container node and, hooked into
// the update scheduler, broadcasts the writes of each flush as one
// protocol.PatchesFrame. Browsers connect over websocket to the Hub; each
// new client first receives a snapshot of the current markup.
//
// Server wraps the hub in a chi router that also serves a viewer page,
// a data endpoint that applies store mutations on the scheduler loop, and
// optionally Prometheus metrics:
//
//	loop := scheduler.NewLoop()
//	stream := live.NewStream(container, live.HubOptions{Exec: loop.Do})
//	sched := scheduler.New(loop, scheduler.WithFlushHook(stream.OnFlush))
//	srv := live.NewServer(live.Config{Addr: ":7300"}, stream, c.Data(), loop.Do)
//	go loop.Run(ctx)
//	srv.ListenAndServe(ctx)
package live
