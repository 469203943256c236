// Package arc maps laid-out partition nodes to annular sector descriptors
// and turns those descriptors into SVG path data.
//
// Angles are radians measured clockwise from twelve o'clock, which is the
// convention of the partition layout. In drawing coordinates with the chart
// center at the origin and y growing downward, a point at angle θ and radius
// r sits at (r·sin θ, -r·cos θ).
package arc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/sunburst/pkg/sunburst/partition"
)

// Descriptor is the drawable shape of one segment.
type Descriptor struct {
	StartAngle  float64 `json:"start_angle"`
	EndAngle    float64 `json:"end_angle"`
	InnerRadius float64 `json:"inner_radius"`
	OuterRadius float64 `json:"outer_radius"`
}

// FromNode carries the node's angles through unchanged and converts its
// layout-space band to drawing radii with scale. It never fails.
func FromNode(n *partition.Node, scale partition.Scale) Descriptor {
	if scale == nil {
		scale = partition.SqrtScale{}
	}
	return Descriptor{
		StartAngle:  n.AngleStart,
		EndAngle:    n.AngleEnd,
		InnerRadius: scale.Radius(n.RadiusInner),
		OuterRadius: scale.Radius(n.RadiusOuter),
	}
}

// Span returns the angular width of d.
func (d Descriptor) Span() float64 { return d.EndAngle - d.StartAngle }

// Empty reports whether d has no area to draw.
func (d Descriptor) Empty() bool {
	return d.Span() <= 0 || d.OuterRadius <= d.InnerRadius
}

// Point returns the drawing coordinates of angle a at radius r.
func Point(a, r float64) (x, y float64) {
	return r * math.Sin(a), -r * math.Cos(a)
}

// Centroid returns the point halfway through the sector in both angle and
// radius, which is where labels go.
func (d Descriptor) Centroid() (x, y float64) {
	return Point((d.StartAngle+d.EndAngle)/2, (d.InnerRadius+d.OuterRadius)/2)
}

// fullCircleEpsilon absorbs the rounding left over after summing child spans.
const fullCircleEpsilon = 1e-6

// Path returns SVG path data for the sector, or "" when [Descriptor.Empty].
//
// A sector spanning the full circle is drawn as two half-circle arcs (SVG
// cannot draw an arc whose endpoints coincide); a non-zero inner radius then
// adds an inner ring drawn in the opposite direction so the hole stays
// unfilled under the nonzero fill rule.
func (d Descriptor) Path() string {
	if d.Empty() {
		return ""
	}
	ro, ri := d.OuterRadius, d.InnerRadius

	var b strings.Builder
	if d.Span() >= partition.FullCircle-fullCircleEpsilon {
		fmt.Fprintf(&b, "M0,%sA%s,%s 0 1,1 0,%sA%s,%s 0 1,1 0,%s",
			num(-ro), num(ro), num(ro), num(ro), num(ro), num(ro), num(-ro))
		if ri > 0 {
			fmt.Fprintf(&b, "M0,%sA%s,%s 0 1,0 0,%sA%s,%s 0 1,0 0,%s",
				num(-ri), num(ri), num(ri), num(ri), num(ri), num(ri), num(-ri))
		}
		b.WriteString("Z")
		return b.String()
	}

	large := 0
	if d.Span() > math.Pi {
		large = 1
	}
	x0, y0 := Point(d.StartAngle, ro)
	x1, y1 := Point(d.EndAngle, ro)
	fmt.Fprintf(&b, "M%s,%sA%s,%s 0 %d,1 %s,%s", num(x0), num(y0), num(ro), num(ro), large, num(x1), num(y1))

	if ri > 0 {
		x2, y2 := Point(d.EndAngle, ri)
		x3, y3 := Point(d.StartAngle, ri)
		fmt.Fprintf(&b, "L%s,%sA%s,%s 0 %d,0 %s,%s", num(x2), num(y2), num(ri), num(ri), large, num(x3), num(y3))
	} else {
		b.WriteString("L0,0")
	}
	b.WriteString("Z")
	return b.String()
}

// num formats v with at most three decimals and no trailing zeros.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
