package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/docforge/pkg/pipeline"
)

// cleanCommand creates the clean command, which deletes the build directory.
func (c *CLI) cleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete the build directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := pipeline.Clean(cfg.BuildDir); err != nil {
				return err
			}
			printSuccess("Cleaned %s", cfg.BuildDir)
			return nil
		},
	}
}
