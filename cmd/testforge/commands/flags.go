package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/testforge/internal/app"
)

// addPipelineFlags registers the flags that override pipeline settings.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("concurrency", "j", 0, "Number of concurrent model requests")
	cmd.Flags().IntP("retries", "r", 0, "Number of repair rounds after a failed build")
	cmd.Flags().StringP("model", "m", "", "Model passed to the runner")
}

// overrides collects the flags that were set explicitly.
func overrides(cmd *cobra.Command) app.Overrides {
	var o app.Overrides
	o.ConfigFile, _ = cmd.Flags().GetString("config")
	o.LogFormat, _ = cmd.Flags().GetString("log-format")

	if f := cmd.Flags().Lookup("concurrency"); f != nil && f.Changed {
		n, _ := cmd.Flags().GetInt("concurrency")
		o.Concurrency = &n
	}
	if f := cmd.Flags().Lookup("retries"); f != nil && f.Changed {
		n, _ := cmd.Flags().GetInt("retries")
		o.Retries = &n
	}
	if f := cmd.Flags().Lookup("model"); f != nil {
		o.Model, _ = cmd.Flags().GetString("model")
	}
	if f := cmd.Flags().Lookup("skip-refine"); f != nil {
		o.SkipRefine, _ = cmd.Flags().GetBool("skip-refine")
	}
	return o
}
