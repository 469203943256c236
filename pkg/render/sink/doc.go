// Package sink provides output format renderers for sunburst charts.
//
// # Overview
//
// A "sink" transforms a built [sunburst.Chart] into a final output format:
//
//   - SVG: standalone vector chart with native hover titles
//   - HTML: page with heading, inline SVG and the shared tooltip
//   - JSON: segment geometry export for external tools
//   - PDF / PNG: print and raster output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] draws a square document of the chart's surface size with the
// rings centered on the surface anchor. Each visible segment is one <path>
// filled with its color and stroked white. Options:
//
//   - [WithLabels]: draw names on arcs that are wide enough
//   - [WithoutTitles]: drop native <title> hover text
//   - [WithTooltipData]: add data-tooltip attributes for the page script
//
// # HTML Output
//
// [RenderHTML] embeds the SVG in a page together with one tooltip element
// and the script from package tooltip, so a browser positions the tooltip
// exactly as the in-process Overlay would.
//
//	page := sink.RenderHTML(chart, sink.WithRefresh(30))
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] generate SVG first and convert it with
// [render.ToPDF] and [render.ToPNG].
//
// [sunburst.Chart]: github.com/matzehuels/sunburst/pkg/sunburst.Chart
// [render.ToPDF]: github.com/matzehuels/sunburst/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/sunburst/pkg/render.ToPNG
package sink
