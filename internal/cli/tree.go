package cli

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docforge/pkg/errors"
	"github.com/matzehuels/docforge/pkg/model"
	"github.com/matzehuels/docforge/pkg/pipeline"
	"github.com/matzehuels/docforge/pkg/render"
	"github.com/matzehuels/docforge/pkg/render/navgraph"
)

// treeCommand creates the tree command, which shows the generated model
// without writing it.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the docs tree a build would write",
		Long: `Tree generates the docs model from the spec and prints its structure
without touching the build directory. Pages whose endpoints are rejected
(unsupported method or parameter type) are left out, exactly as in a build.

Formats: text (default), dot, svg, png, pdf. PNG and PDF need rsvg-convert.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains(render.Formats, format) {
				return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be one of: %s)",
					format, strings.Join(render.Formats, ", "))
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			m, err := c.newRunner().Generate(cmd.Context(), pipeline.OptionsFromConfig(cfg))
			if err != nil {
				return err
			}

			data, err := renderTree(cmd.Context(), m, format, detailed)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", output)
			}
			printSuccess("Wrote %d pages in %d groups", m.Len(), m.Groups())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", render.FormatText, "output format: "+strings.Join(render.Formats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include file names and positions in diagram labels")
	return cmd
}

func renderTree(ctx context.Context, m *model.Group, format string, detailed bool) ([]byte, error) {
	if format == render.FormatText {
		return []byte(strings.TrimRight(m.String(), "\n") + "\n"), nil
	}

	dot := navgraph.ToDOT(m, navgraph.Options{Detailed: detailed})
	if format == render.FormatDOT {
		return []byte(dot), nil
	}

	svg, err := navgraph.RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(ctx, svg, format)
}
