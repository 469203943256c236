// Package nodelink renders the failure tree behind a sunburst as a
// node-link diagram.
//
// # Overview
//
// The sunburst shows proportions well but hides long names in thin arcs.
// This package draws the same tree left to right with Graphviz, one box per
// job, suite and test case, filled with the segment's color.
//
// # Usage
//
//	dot := nodelink.ToDOT(chart, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required. PDF and PNG go through
// rsvg-convert like the rest of pkg/render.
package nodelink
