// Package render holds the output side of the sunburst tool.
//
// # Overview
//
// A built [sunburst.Chart] is turned into files or HTTP responses by the
// subpackages:
//
//   - [sink]: SVG, HTML page, JSON, PNG and PDF renderers for the chart
//   - [nodelink]: the failure tree as a Graphviz node-link diagram
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both subpackages use them.
//
//	svg := sink.RenderSVG(chart)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [sunburst.Chart]: github.com/matzehuels/sunburst/pkg/sunburst.Chart
// [sink]: github.com/matzehuels/sunburst/pkg/render/sink
// [nodelink]: github.com/matzehuels/sunburst/pkg/render/nodelink
package render
