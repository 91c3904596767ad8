package navgraph

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/docforge/pkg/model"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds file names and group positions to node labels.
	Detailed bool
}

// ToDOT converts a model to Graphviz DOT. Node IDs are the output paths
// relative to the build directory.
func ToDOT(g *model.Group, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph nav {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	var edges [][2]string
	writeGroup(&buf, g, g.Name, 0, opts, &edges)

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e[0], e[1])
	}
	buf.WriteString("}\n")
	return buf.String()
}

func writeGroup(buf *bytes.Buffer, g *model.Group, id string, position int, opts Options, edges *[][2]string) {
	label := g.Label
	if opts.Detailed {
		label = fmt.Sprintf("%s\n%s/\nposition: %d", g.Label, g.Name, position)
	}
	fmt.Fprintf(buf, "  %q [shape=folder, style=filled, fillcolor=lightyellow, label=%q];\n", id, label)

	for i, child := range g.Children {
		childID := path.Join(id, child.NodeName())
		*edges = append(*edges, [2]string{id, childID})
		switch c := child.(type) {
		case *model.Group:
			writeGroup(buf, c, childID, i, opts, edges)
		case *model.Page:
			label := strings.TrimSuffix(c.Name, path.Ext(c.Name))
			if opts.Detailed {
				label = c.Name
			}
			fmt.Fprintf(buf, "  %q [shape=note, label=%q];\n", childID, label)
		}
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
