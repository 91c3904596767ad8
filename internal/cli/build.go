package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/docforge/pkg/pipeline"
)

// buildCommand creates the build command for a full rebuild.
func (c *CLI) buildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Generate the API docs into the build directory",
		Long: `Build reads the docs spec and page template named in the config file and
writes one page per endpoint, plus a _category_.json per group, into the build
directory. The root group directory is removed and recreated, so pages dropped
from the spec disappear.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			res, err := c.newRunner().BuildOnce(cmd.Context(), pipeline.OptionsFromConfig(cfg))
			if err != nil {
				return err
			}
			prog.done("Build complete")

			printSuccess("Generated %d pages", res.Stats.Pages)
			printFile(cfg.BuildDir)
			printNextStep("Rebuild on every change", appName+" live")
			return nil
		},
	}
}
