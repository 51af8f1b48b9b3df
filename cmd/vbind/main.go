package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	dir      string
	template string
	data     string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.ColorsFor(os.Stderr)
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "vbind",
		Short: "Bind data to markup and keep the DOM in sync",
		Long: `vbind compiles {{ }} bindings in HTML markup against a data model and
patches the DOM as the data changes.

  • render  paint a template with data and print the markup
  • apply   run a mutation script and print the result or the patches
  • serve   stream the live DOM to browsers over websocket`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.dir, "dir", "C", ".", "Project directory containing vbind.yaml")
	flags.StringVarP(&g.template, "template", "t", "", "Template file (overrides config)")
	flags.StringVarP(&g.data, "data", "d", "", "Data file, YAML or JSON (overrides config)")
	flags.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(
		renderCmd(g),
		applyCmd(g),
		serveCmd(g),
		versionCmd(),
	)
	return rootCmd
}

// newLogger builds the process logger the way every command shares it.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
