package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/pkg/component"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/scheduler"
	"github.com/vango-dev/vbind/pkg/store"
)

func applyCmd(g *globalFlags) *cobra.Command {
	var (
		script  string
		step    bool
		patches bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Run a mutation script against a template",
		Long: `Attach the template with its initial data, apply the mutations listed in
a script and print the resulting markup.

By default every mutation is applied before a single flush, the way
changes made in one turn are batched. --step flushes after each mutation.
--patches also prints the DOM writes of each flush.

Script format (YAML or JSON):

  mutations:
    - {path: name, value: varsha}
    - {op: push, path: items, value: c}

Examples:
  vbind apply -m script.yaml
  vbind apply -m script.yaml --step --patches`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if script == "" {
				return fmt.Errorf("--mutations is required")
			}
			return runApply(cmd.OutOrStdout(), g, script, step, patches)
		},
	}

	cmd.Flags().StringVarP(&script, "mutations", "m", "", "Mutation script file")
	cmd.Flags().BoolVar(&step, "step", false, "Flush after every mutation")
	cmd.Flags().BoolVar(&patches, "patches", false, "Print the DOM writes of each flush")

	return cmd
}

func runApply(w io.Writer, g *globalFlags, script string, step, patches bool) error {
	p, err := loadProject(g)
	if err != nil {
		return err
	}
	doc, err := loadData(script)
	if err != nil {
		return err
	}
	mutations, err := store.ParseMutations(doc)
	if err != nil {
		return err
	}

	container := dom.NewElement("body")
	buf := dom.NewBuffer()
	container.SetRecorder(buf)

	loop := scheduler.NewManualLoop()
	opts := []scheduler.Option{scheduler.WithLogger(p.logger())}
	if patches {
		opts = append(opts, scheduler.WithFlushHook(func(stats scheduler.FlushStats) {
			printPatches(w, stats, buf.Drain())
		}))
	}
	sched := scheduler.New(loop, opts...)

	c, err := component.New(p.def, component.Options{Data: p.data, Scheduler: sched, Logger: p.logger()})
	if err != nil {
		return err
	}
	defer c.Dispose()
	if err := c.Attach(container); err != nil {
		return err
	}
	buf.Drain()

	for _, m := range mutations {
		m.Apply(c.Data())
		if step {
			loop.Drain()
		}
	}
	loop.Drain()

	fmt.Fprintln(w, c.Root().OuterHTML())
	return nil
}

func printPatches(w io.Writer, stats scheduler.FlushStats, ms []dom.Mutation) {
	fmt.Fprintf(w, "flush %d: %d descriptors, %d writes\n", stats.Seq, stats.Patches, len(ms))
	for _, m := range ms {
		switch m.Op {
		case dom.OpSetText:
			fmt.Fprintf(w, "  %-11s #%d %q\n", m.Op, m.NodeID, m.Value)
		case dom.OpSetProp:
			fmt.Fprintf(w, "  %-11s #%d %s=%t\n", m.Op, m.NodeID, m.Key, m.Bool)
		case dom.OpRemoveAttr, dom.OpRemoveStyle, dom.OpRemoveNode:
			fmt.Fprintf(w, "  %-11s #%d %s\n", m.Op, m.NodeID, m.Key)
		default:
			fmt.Fprintf(w, "  %-11s #%d %s=%q\n", m.Op, m.NodeID, m.Key, m.Value)
		}
	}
}
