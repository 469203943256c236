package partition

import (
	"math"

	sberrors "github.com/matzehuels/sunburst/pkg/errors"
)

// Scale decides how rings are stacked outward from the center.
//
// Band returns the layout-space extent of the ring that holds nodes at the
// given depth when the chart has levels rings and outer radius radius. Bands
// must be contiguous, non-overlapping and grow with depth. Radius maps a
// layout-space value back to a drawing radius and must be monotonic.
type Scale interface {
	Name() string
	Band(depth, levels int, radius float64) (inner, outer float64)
	Radius(v float64) float64
}

// SqrtScale lays rings out in area space: every ring gets the same slice of
// radius², so inner rings are thicker than outer ones and all rings cover
// the same area. Radius takes the square root.
type SqrtScale struct{}

// LinearScale gives every ring the same thickness.
type LinearScale struct{}

// Scale names accepted by [ParseScale].
const (
	ScaleSqrt   = "sqrt"
	ScaleLinear = "linear"
)

func (SqrtScale) Name() string { return ScaleSqrt }

func (SqrtScale) Band(depth, levels int, radius float64) (float64, float64) {
	unit := radius * radius / float64(levels)
	return float64(depth) * unit, float64(depth+1) * unit
}

func (SqrtScale) Radius(v float64) float64 { return math.Sqrt(v) }

func (LinearScale) Name() string { return ScaleLinear }

func (LinearScale) Band(depth, levels int, radius float64) (float64, float64) {
	unit := radius / float64(levels)
	return float64(depth) * unit, float64(depth+1) * unit
}

func (LinearScale) Radius(v float64) float64 { return v }

// ParseScale returns the scale registered under name. The empty string
// selects [SqrtScale].
func ParseScale(name string) (Scale, error) {
	switch name {
	case "", ScaleSqrt:
		return SqrtScale{}, nil
	case ScaleLinear:
		return LinearScale{}, nil
	}
	return nil, sberrors.New(sberrors.ErrCodeInvalidScale, "unknown scale %q (want %s or %s)", name, ScaleSqrt, ScaleLinear)
}
