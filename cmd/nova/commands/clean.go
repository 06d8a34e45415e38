package commands

import (
	"github.com/spf13/cobra"
	"go.novabuild.dev/nova/internal/adapters/depslog"
	"go.novabuild.dev/nova/internal/app"
	"go.novabuild.dev/nova/internal/engine/buildlog"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove nova's persisted build log and deps log",
		Args:  cobra.NoArgs,
		RunE:  c.runClean,
	}
	cmd.Flags().Bool("build-log", true, "Remove the build log")
	cmd.Flags().Bool("deps-log", true, "Remove the deps log")
	return cmd
}

func (c *CLI) runClean(cmd *cobra.Command, _ []string) error {
	buildLogFlag, _ := cmd.Flags().GetBool("build-log")
	depsLogFlag, _ := cmd.Flags().GetBool("deps-log")
	return c.app.Clean(cmd.Context(), buildlog.DefaultPath, depslog.DefaultPath, app.CleanOptions{
		BuildLog: buildLogFlag,
		DepsLog:  depsLogFlag,
	})
}
