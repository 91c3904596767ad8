// Package render converts rendered docforge diagrams between output formats.
//
// # Overview
//
// The [navgraph] subpackage draws the navigation structure of a generated
// model as a Graphviz diagram. This package converts the resulting SVG into
// the other formats the tree command can write:
//
//	dot := navgraph.ToDOT(model, navgraph.Options{})
//	svg, err := navgraph.RenderSVG(dot)
//	pdf, err := render.Convert(ctx, svg, render.FormatPDF)
//	png, err := render.ToPNG(ctx, svg, 3.0) // custom scale
//
// PDF and PNG conversion shells out to rsvg-convert from librsvg. When it is
// missing, the error wraps [ErrNoConverter].
//
// [navgraph]: github.com/matzehuels/docforge/pkg/render/navgraph
package render
