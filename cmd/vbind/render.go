package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/pkg/component"
)

func renderCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Paint a template with data and print the markup",
		Long: `Compile the template, attach it with the initial data and print the
resulting markup.

Examples:
  vbind render
  vbind render -t card.html -d card.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(g)
			if err != nil {
				return err
			}
			c, err := component.New(p.def, component.Options{Data: p.data, Logger: p.logger()})
			if err != nil {
				return err
			}
			defer c.Dispose()
			if err := c.Attach(nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Root().OuterHTML())
			return nil
		},
	}
}
