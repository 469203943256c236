// Package sunburst assembles the radial failure chart.
//
// [Build] runs the whole pipeline on a normalized tree:
//
//	hierarchy.Node -> partition.Layout -> arc.FromNode + palette.Colorize -> Chart
//
// and [BuildReport] prepends failures.Normalize for raw reports. The result
// is a flat, pre-ordered list of [Segment] values, each carrying an arc, a
// fill color and the tooltip text. Rendering is left to the sinks in
// pkg/render/sink and to hosts such as the HTTP server and the terminal
// explorer, which also wire pointer events through package tooltip.
//
// Building is pure and synchronous. Hosts that rebuild charts from
// concurrent fetches publish results through a [Board], which keeps the
// newest chart and drops stale ones.
package sunburst

import (
	"github.com/matzehuels/sunburst/pkg/failures"
	"github.com/matzehuels/sunburst/pkg/hierarchy"
	"github.com/matzehuels/sunburst/pkg/sunburst/arc"
	"github.com/matzehuels/sunburst/pkg/sunburst/palette"
	"github.com/matzehuels/sunburst/pkg/sunburst/partition"
	"github.com/matzehuels/sunburst/pkg/sunburst/tooltip"
)

// DefaultSize is the side of the square drawing surface.
const DefaultSize = 600.0

// centerYRatio places the chart center slightly below the middle of the
// surface, leaving room above the top ring.
const centerYRatio = 0.52

// Surface is the square area a chart is drawn on.
type Surface struct {
	Size float64 `json:"size"`
}

// Radius is the outer radius of the chart on s.
func (s Surface) Radius() float64 { return s.Size / 2 }

// Center is where angle zero radiates from, in surface coordinates.
func (s Surface) Center() (x, y float64) { return s.Size / 2, s.Size * centerYRatio }

// Options configures [Build]. Zero values select defaults.
type Options struct {
	Size    float64
	Scale   partition.Scale
	Palette palette.Palette
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.Scale == nil {
		o.Scale = partition.SqrtScale{}
	}
	if len(o.Palette) == 0 {
		o.Palette = palette.Category20c
	}
	return o
}

// Segment is one drawable arc of the chart.
type Segment struct {
	Name    string         `json:"name"`
	Value   float64        `json:"value"`
	Sum     float64        `json:"sum"`
	Depth   int            `json:"depth"`
	Arc     arc.Descriptor `json:"arc"`
	Color   string         `json:"color"`
	Tooltip string         `json:"tooltip"`
	Hidden  bool           `json:"hidden,omitempty"`

	// Node is the normalized node behind the segment.
	Node *hierarchy.Node `json:"-"`
}

// Drawable reports whether the segment should be painted.
func (s Segment) Drawable() bool {
	return !s.Hidden && !s.Arc.Empty()
}

// Chart is a built sunburst.
type Chart struct {
	Surface  Surface   `json:"surface"`
	Scale    string    `json:"scale"`
	Total    float64   `json:"total"`
	Segments []Segment `json:"segments"`
}

// Build lays out, maps and colors the tree rooted at root. Segments are in
// pre-order, root first.
func Build(root *hierarchy.Node, opts Options) *Chart {
	opts = opts.withDefaults()
	surface := Surface{Size: opts.Size}

	laid := partition.Layout(root,
		partition.WithRadius(surface.Radius()),
		partition.WithScale(opts.Scale))
	colored := palette.Colorize(laid, opts.Palette)

	c := &Chart{
		Surface:  surface,
		Scale:    opts.Scale.Name(),
		Total:    laid.Sum,
		Segments: make([]Segment, 0, root.Count()),
	}
	colored.Walk(func(n *palette.Node) {
		c.Segments = append(c.Segments, Segment{
			Name:    n.Name(),
			Value:   n.Value(),
			Sum:     n.Sum,
			Depth:   n.Depth(),
			Arc:     arc.FromNode(n.Node, opts.Scale),
			Color:   n.Color,
			Tooltip: tooltip.Text(n.Source),
			Hidden:  n.Hidden,
			Node:    n.Source,
		})
	})
	return c
}

// BuildReport normalizes a raw report and builds its chart. It fails only
// when normalization fails.
func BuildReport(t failures.Tree, opts Options) (*Chart, error) {
	root, err := failures.Normalize(t)
	if err != nil {
		return nil, err
	}
	return Build(root, opts), nil
}

// Drawable returns the segments that should be painted, in order.
func (c *Chart) Drawable() []Segment {
	out := make([]Segment, 0, len(c.Segments))
	for _, s := range c.Segments {
		if s.Drawable() {
			out = append(out, s)
		}
	}
	return out
}

// Empty reports whether the chart has nothing to draw.
func (c *Chart) Empty() bool {
	for _, s := range c.Segments {
		if s.Drawable() {
			return false
		}
	}
	return true
}

// Attach registers every visible segment's handlers on the segment host
// returned by target. Hidden segments are skipped.
func (c *Chart) Attach(o *tooltip.Overlay, target func(i int, s Segment) tooltip.Segment) {
	for i, s := range c.Segments {
		if s.Hidden {
			continue
		}
		if seg := target(i, s); seg != nil {
			tooltip.Attach(seg, s.Node, o)
		}
	}
}
