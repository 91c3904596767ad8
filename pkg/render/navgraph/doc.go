// Package navgraph draws the navigation structure of a generated model.
//
// Groups render as folders labelled with their sidebar label and pages as
// notes, connected parent to child in output order. Positions shown are the
// ones the writer records, so the diagram matches the sidebar a site
// renderer will build.
//
// # Usage
//
//	dot := navgraph.ToDOT(m, navgraph.Options{Detailed: true})
//	svg, err := navgraph.RenderSVG(dot)
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package navgraph
