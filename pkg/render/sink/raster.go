package sink

import (
	"github.com/matzehuels/sunburst/pkg/render"
	"github.com/matzehuels/sunburst/pkg/sunburst"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// RenderPNG renders the chart as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(c *sunburst.Chart, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	return render.ToPNG(RenderSVG(c, r.svgOpts...), r.scale)
}

// RenderPDF renders the chart as PDF via SVG conversion.
func RenderPDF(c *sunburst.Chart, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(RenderSVG(c, opts...))
}
