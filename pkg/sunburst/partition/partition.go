// Package partition implements the radial partition layout behind the
// sunburst chart.
//
// [Layout] walks a [hierarchy.Node] tree and gives every node an angular
// interval and a radial band. The root owns the full circle [0, 2π) and is
// marked hidden. Each node hands its interval to its children in order,
// proportionally to their aggregate values:
//
//	root   [0, 2π)          sum 4
//	├── jobA  [0, 1.5π)     sum 3
//	└── jobB  [1.5π, 2π)    sum 1
//
// When every child of a node has an aggregate of zero the interval is split
// evenly instead, so charts without failures still show their structure.
//
// Radial bands come from a [Scale]. The default [SqrtScale] matches the
// classic area-preserving sunburst where band extents live in radius² space
// and are square-rooted at draw time.
//
// [hierarchy.Node]: github.com/matzehuels/sunburst/pkg/hierarchy.Node
package partition

import (
	"math"

	"github.com/matzehuels/sunburst/pkg/hierarchy"
)

// FullCircle is the angular span of the root.
const FullCircle = 2 * math.Pi

// DefaultRadius is the outer radius used when no [WithRadius] option is given.
// It is half the side of the 600 unit square drawing surface.
const DefaultRadius = 300.0

// Node is a laid-out copy of a hierarchy node.
//
// Angles are radians measured clockwise from twelve o'clock. RadiusInner and
// RadiusOuter are in layout space of the [Scale] that produced them; pass
// them through Scale.Radius to get drawing radii.
type Node struct {
	Source *hierarchy.Node

	// Sum is the aggregate value that sized this node: its own value when
	// it is a leaf, the sum of its children's Sum otherwise.
	Sum float64

	AngleStart  float64
	AngleEnd    float64
	RadiusInner float64
	RadiusOuter float64

	// Hidden marks nodes that only host the layout and are never drawn.
	Hidden bool

	Children []*Node
}

// Name returns the name of the source node.
func (n *Node) Name() string { return n.Source.Name }

// Value returns the face value of the source node.
func (n *Node) Value() float64 { return n.Source.Value }

// Depth returns the depth of the source node.
func (n *Node) Depth() int { return n.Source.Depth }

// Span returns AngleEnd - AngleStart.
func (n *Node) Span() float64 { return n.AngleEnd - n.AngleStart }

// Walk visits n and its descendants in pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find follows a path of child names starting below n and returns the node
// it ends at, or nil if any step is missing.
func (n *Node) Find(path ...string) *Node {
	cur := n
	for _, name := range path {
		var next *Node
		for _, c := range cur.Children {
			if c.Name() == name {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// Option configures [Layout].
type Option func(*config)

type config struct {
	radius float64
	scale  Scale
}

// WithRadius sets the outer radius of the chart in drawing units.
func WithRadius(r float64) Option {
	return func(c *config) {
		if r > 0 {
			c.radius = r
		}
	}
}

// WithScale sets the ring scale. A nil scale keeps the default.
func WithScale(s Scale) Option {
	return func(c *config) {
		if s != nil {
			c.scale = s
		}
	}
}

// Layout computes the partition of the tree rooted at root.
//
// The input tree is not modified. The returned tree mirrors its shape and
// child order exactly. Layout never fails: zero-valued subtrees fall back to
// an equal split, and a root without children yields a single hidden node.
func Layout(root *hierarchy.Node, opts ...Option) *Node {
	cfg := config{radius: DefaultRadius, scale: SqrtScale{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	levels := root.MaxDepth() - root.Depth + 1
	ln := build(root)
	ln.Hidden = true
	ln.place(0, FullCircle, root.Depth, levels, cfg)
	return ln
}

// build mirrors the tree and memoizes aggregate sums bottom-up so that
// placement reads each sum exactly once.
func build(h *hierarchy.Node) *Node {
	n := &Node{Source: h}
	if h.IsLeaf() {
		n.Sum = h.Value
		return n
	}
	n.Children = make([]*Node, 0, len(h.Children))
	for _, c := range h.Children {
		cn := build(c)
		n.Sum += cn.Sum
		n.Children = append(n.Children, cn)
	}
	return n
}

func (n *Node) place(a, b float64, rootDepth, levels int, cfg config) {
	n.AngleStart, n.AngleEnd = a, b
	n.RadiusInner, n.RadiusOuter = cfg.scale.Band(n.Depth()-rootDepth, levels, cfg.radius)

	k := len(n.Children)
	if k == 0 {
		return
	}

	width := b - a
	cur := a
	for i, c := range n.Children {
		var w float64
		if n.Sum == 0 {
			w = width / float64(k)
		} else {
			w = width * c.Sum / n.Sum
		}
		end := math.Min(cur+w, b)
		if i == k-1 {
			end = b
		}
		c.place(cur, end, rootDepth, levels, cfg)
		cur = end
	}
}
