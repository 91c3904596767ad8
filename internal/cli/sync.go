package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/docforge/pkg/config"
	"github.com/matzehuels/docforge/pkg/dirsync"
)

// syncCommand creates the sync command for incremental directory sync.
func (c *CLI) syncCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync [SOURCE DESTINATION]",
		Short: "Mirror a source directory into a destination directory",
		Long: `Sync copies new and modified files from SOURCE into DESTINATION and deletes
destination files that no longer exist in SOURCE. Files are compared by
modification time only. Other destination files are left alone.

Without arguments, every [[sync]] pair from the config file is synced.`,
		Example: `  docforge sync templates/guides site/docs/guides
  docforge sync --dry-run`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return cobra.ExactArgs(2)(cmd, args)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := c.syncPairs(args)
			if err != nil {
				return err
			}
			if len(pairs) == 0 {
				printWarning("No sync pairs configured")
				return nil
			}

			results, err := c.newRunner().SyncAll(cmd.Context(), pairs, dryRun)
			for _, res := range results {
				printSyncResult(res)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show changes without applying them")
	return cmd
}

// syncPairs returns the pair given on the command line, or the configured pairs.
func (c *CLI) syncPairs(args []string) ([]config.SyncPair, error) {
	if len(args) == 2 {
		return []config.SyncPair{{Source: args[0], Destination: args[1]}}, nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Sync, nil
}

func printSyncResult(res dirsync.Result) {
	verb := "Synced"
	if res.DryRun {
		verb = "Would sync"
	}
	if res.Changes.Empty() {
		printInfo("%s %s %s %s: up to date", verb, res.Source, iconArrow, res.Destination)
		return
	}
	printSuccess("%s %s %s %s: %d changes", verb, StyleHighlight.Render(res.Source), iconArrow,
		StyleHighlight.Render(res.Destination), res.Count())
	printDetail("%d removed, %d modified, %d added",
		len(res.Changes.Removed), len(res.Changes.Modified), len(res.Changes.Added))
	printTable(renderChanges(res.Changes))
}
