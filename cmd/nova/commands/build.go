package commands

import (
	"github.com/spf13/cobra"
	"go.novabuild.dev/nova/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [targets...]",
		Short: "Build the requested targets (or the manifest's defaults)",
		Args:  cobra.ArbitraryArgs,
		RunE:  c.runBuild,
	}
}

func (c *CLI) runBuild(cmd *cobra.Command, args []string) error {
	manifestPath, _ := cmd.Flags().GetString("manifest")
	keepGoing, _ := cmd.Flags().GetInt("keep-going")
	return c.app.Build(cmd.Context(), args, app.RunOptions{
		ManifestPath:    manifestPath,
		FailuresAllowed: keepGoing,
	})
}
