package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/pkg/component"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/live"
	"github.com/vango-dev/vbind/pkg/scheduler"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var (
		addr    string
		path    string
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream the live DOM to browsers",
		Long: `Attach the template and serve it over HTTP. Browsers open the page,
receive a snapshot over websocket and then one patch frame per flush.

Mutations are posted as JSON to /_vbind/data:

  curl -d '{"path": "name", "value": "varsha"}' localhost:7300/_vbind/data

Requests from other origins are refused on both routes. The server has no
authentication, so keep it on a local address.

Examples:
  vbind serve
  vbind serve --addr :8080 --metrics=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(g)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				p.cfg.Live.Addr = addr
			}
			if cmd.Flags().Changed("path") {
				p.cfg.Live.Path = path
			}
			if cmd.Flags().Changed("metrics") {
				p.cfg.Metrics.Enabled = metrics
			}
			if err := p.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, p)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from vbind.yaml)")
	cmd.Flags().StringVar(&path, "path", "", "Websocket route (default from vbind.yaml)")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "Serve Prometheus metrics at /metrics")

	return cmd
}

func runServe(ctx context.Context, p *project) error {
	logger := p.logger()

	loop := scheduler.NewLoop()
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go loop.Run(loopCtx)

	hubOpts := live.HubOptions{
		Logger: logger.With("component", "live"),
		Exec:   loop.Do,
	}
	var (
		gatherer     prometheus.Gatherer
		schedMetrics *scheduler.Metrics
	)
	if p.cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		schedMetrics = scheduler.NewMetrics(scheduler.MetricsConfig{
			Namespace: p.cfg.Metrics.Namespace,
			Registry:  reg,
		})
		hubOpts.Metrics = live.NewMetrics(live.MetricsConfig{
			Namespace: p.cfg.Metrics.Namespace,
			Registry:  reg,
		})
		gatherer = reg
	}

	container := dom.NewElement("body")
	stream := live.NewStream(container, hubOpts)

	opts := []scheduler.Option{
		scheduler.WithLogger(logger.With("component", "scheduler")),
		scheduler.WithFlushHook(stream.OnFlush),
	}
	if schedMetrics != nil {
		opts = append(opts, scheduler.WithMetrics(schedMetrics))
	}
	sched := scheduler.New(loop, opts...)

	var (
		c   *component.Component
		err error
	)
	if doErr := loop.Do(ctx, func() {
		c, err = component.New(p.def, component.Options{Data: p.data, Scheduler: sched, Logger: logger})
		if err == nil {
			err = c.Attach(container)
		}
		stream.Reset()
	}); doErr != nil {
		return doErr
	}
	if err != nil {
		return err
	}
	defer loop.Do(context.Background(), c.Dispose)

	srv := live.NewServer(live.Config{
		Addr:     p.cfg.Live.Addr,
		Path:     p.cfg.Live.Path,
		Title:    p.cfg.Template,
		Logger:   logger.With("component", "live"),
		Gatherer: gatherer,
	}, stream, c.Data(), loop.Do)

	success(os.Stderr, "Serving %s on http://%s", p.cfg.Template, p.cfg.Live.Addr)
	return srv.ListenAndServe(ctx)
}
