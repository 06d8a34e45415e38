// Package commands implements the CLI commands for the nova build tool.
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.novabuild.dev/nova/internal/app"
	"go.novabuild.dev/nova/internal/build"
	"go.novabuild.dev/nova/internal/ports"
)

// CLI represents the command line interface for nova.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app. cfg supplies
// default flag values read from nova's optional config file; any flag
// the user passes explicitly still overrides it.
func New(a *app.App, cfg ports.Config) *CLI {
	rootCmd := &cobra.Command{
		Use:           "nova",
		Short:         "A ninja-compatible build engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("manifest", "f", cfg.ManifestPath, "Path to the manifest file (default: build.nova)")
	rootCmd.PersistentFlags().IntP("keep-going", "k", cfg.KeepGoing, "Keep going until N command failures (default: stop at first failure)")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	// Bare `nova [targets...]` builds, same as `nova build [targets...]`.
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.RunE = c.runBuild

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}
