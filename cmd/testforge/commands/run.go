package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/testforge/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate, refine, build and repair tests, then report coverage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Run(cmd.Context(), app.RunOptions{Overrides: overrides(cmd)})
		},
	}
	addPipelineFlags(cmd)
	cmd.Flags().Bool("skip-refine", false, "Build the generated tests without a refinement pass")
	return cmd
}

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build and repair the tests already written",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Build(cmd.Context(), app.BuildOptions{Overrides: overrides(cmd)})
		},
	}
	addPipelineFlags(cmd)
	return cmd
}

func (c *CLI) newCoverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coverage",
		Short: "Report coverage for the last build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Coverage(cmd.Context(), app.CoverageOptions{Overrides: overrides(cmd)})
		},
	}
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the pipeline whenever the sources change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			debounce, _ := cmd.Flags().GetDuration("debounce")
			return c.app.Watch(cmd.Context(), app.WatchOptions{
				Overrides: overrides(cmd),
				Debounce:  debounce,
			})
		},
	}
	addPipelineFlags(cmd)
	cmd.Flags().Bool("skip-refine", false, "Build the generated tests without a refinement pass")
	cmd.Flags().Duration("debounce", 0, "Quiet period after the last change before a rerun (default 300ms)")
	return cmd
}
