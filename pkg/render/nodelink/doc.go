// Package nodelink renders the package requirement graph as a node-link
// diagram.
//
// # Usage
//
// Convert an initialized registry to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(reg, nodelink.Options{Params: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Edges
//
// Edges point from the requiring package to the required one. Their color
// names the artifact that carries the requirement:
//
//   - steelblue: the structs file
//   - firebrick: the classes file
//   - gray50, dotted: the parameters file (only with [Options].Params)
//
// The edge label says what the artifact needs from the target ("structs",
// "classes" or "structs+classes").
//
// The layout runs bottom-to-top (rankdir=BT) so required packages sit below
// the packages that include them, in emission order.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz install is needed.
package nodelink
