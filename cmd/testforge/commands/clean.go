package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/testforge/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			artifacts, _ := cmd.Flags().GetBool("artifacts")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				ConfigFile: configFile,
				Artifacts:  artifacts,
			})
		},
	}

	cmd.Flags().BoolP("artifacts", "a", false, "Also remove generated, refined and fixed tests")

	return cmd
}

func (c *CLI) newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration and instruction templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			return c.app.Init(cmd.Context(), app.InitOptions{Force: force})
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Overwrite existing files")

	return cmd
}
