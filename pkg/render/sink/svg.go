package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/matzehuels/sunburst/pkg/sunburst"
	"github.com/matzehuels/sunburst/pkg/sunburst/palette"
)

// NoDataText is shown instead of the rings when nothing can be drawn.
const NoDataText = "No data"

// ClassName is the CSS class of the root svg element.
const ClassName = "failures"

const segmentCSS = `
    .segment { stroke: #fff; transition: opacity 0.15s ease; }
    .segment:hover { opacity: 0.8; }
    .label { pointer-events: none; font: 10px sans-serif; text-anchor: middle; dominant-baseline: central; }
    .nodata { font: 16px sans-serif; fill: #888; text-anchor: middle; }`

// minLabelSpan is the narrowest arc, in radians, that still gets a label.
const minLabelSpan = 0.15

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	titles    bool
	labels    bool
	dataAttrs bool
	style     bool
}

// WithLabels draws segment names at their centroids when the arc is wide
// enough to hold them.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithoutTitles omits the native <title> hover text on each segment.
func WithoutTitles() SVGOption { return func(r *svgRenderer) { r.titles = false } }

// WithTooltipData adds a data-tooltip attribute to every segment for the
// page-level tooltip script.
func WithTooltipData() SVGOption { return func(r *svgRenderer) { r.dataAttrs = true } }

// WithoutStyle leaves the embedded stylesheet out, for hosts that style the
// chart themselves.
func WithoutStyle() SVGOption { return func(r *svgRenderer) { r.style = false } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{titles: true, style: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws c as a standalone SVG document.
//
// The document is a square of the chart's surface size. Segments live in a
// group translated to the surface center and appear in chart order; hidden
// and zero-width segments are skipped. An empty chart renders a "No data"
// message instead.
func RenderSVG(c *sunburst.Chart, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	size := c.Surface.Size
	cx, cy := c.Surface.Center()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="%s" viewBox="0 0 %s %s" width="%s" height="%s" preserveAspectRatio="xMinYMin meet">`+"\n",
		ClassName, fmtNum(size), fmtNum(size), fmtNum(size), fmtNum(size))
	if r.style {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", segmentCSS)
	}

	if c.Empty() {
		fmt.Fprintf(&buf, `  <text class="nodata" x="%s" y="%s">%s</text>`+"\n", fmtNum(size/2), fmtNum(size/2), NoDataText)
		buf.WriteString("</svg>\n")
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, `  <g transform="translate(%s,%s)">`+"\n", fmtNum(cx), fmtNum(cy))
	for _, s := range c.Drawable() {
		r.renderSegment(&buf, s)
	}
	if r.labels {
		for _, s := range c.Drawable() {
			renderLabel(&buf, s)
		}
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) renderSegment(buf *bytes.Buffer, s sunburst.Segment) {
	fmt.Fprintf(buf, `    <path class="segment depth-%d" d="%s" fill="%s"`, s.Depth, s.Arc.Path(), s.Color)
	if r.dataAttrs {
		fmt.Fprintf(buf, ` data-tooltip="%s"`, escapeXML(s.Tooltip))
	}
	if !r.titles {
		buf.WriteString("/>\n")
		return
	}
	fmt.Fprintf(buf, "><title>%s</title></path>\n", escapeXML(s.Tooltip))
}

func renderLabel(buf *bytes.Buffer, s sunburst.Segment) {
	if s.Arc.Span() < minLabelSpan {
		return
	}
	x, y := s.Arc.Centroid()
	fmt.Fprintf(buf, `    <text class="label" x="%s" y="%s" fill="%s">%s</text>`+"\n",
		fmtNum(x), fmtNum(y), palette.TextColor(s.Color), escapeXML(s.Name))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func fmtNum(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
