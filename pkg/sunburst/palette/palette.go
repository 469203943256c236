// Package palette assigns colors to laid-out sunburst nodes.
//
// Colors come from a fixed categorical palette. A name is mapped to a
// palette entry by hashing it with xxhash and taking the result modulo the
// palette size, so the same name gets the same color in every process and
// on every render without any shared cache.
//
// Only the root and its direct children pick colors by name. Everything
// deeper inherits the color of its depth-1 ancestor, which keeps all the
// suites and test cases of one job in that job's hue.
package palette

import (
	"github.com/cespare/xxhash/v2"
	"github.com/lucasb-eyer/go-colorful"

	sberrors "github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/sunburst/partition"
)

// Palette is an ordered list of hex colors.
type Palette []string

// Category20c is the default twenty-entry palette: five hue groups of four
// shades each.
var Category20c = Palette{
	"#3182bd", "#6baed6", "#9ecae1", "#c6dbef",
	"#e6550d", "#fd8d3c", "#fdae6b", "#fdd0a2",
	"#31a354", "#74c476", "#a1d99b", "#c7e9c0",
	"#756bb1", "#9e9ac8", "#bcbddc", "#dadaeb",
	"#636363", "#969696", "#bdbdbd", "#d9d9d9",
}

// New validates colors and returns them as a Palette. Every entry must be a
// "#rrggbb" hex color and at least one entry is required.
func New(colors ...string) (Palette, error) {
	if len(colors) == 0 {
		return nil, sberrors.New(sberrors.ErrCodeInvalidConfig, "palette needs at least one color")
	}
	p := make(Palette, len(colors))
	for i, c := range colors {
		parsed, err := colorful.Hex(c)
		if err != nil {
			return nil, sberrors.Wrap(sberrors.ErrCodeInvalidConfig, err, "palette entry %d", i)
		}
		p[i] = parsed.Hex()
	}
	return p, nil
}

// Index returns the palette slot for name.
func (p Palette) Index(name string) int {
	if len(p) == 0 {
		return -1
	}
	return int(xxhash.Sum64String(name) % uint64(len(p)))
}

// Color returns the color for name, or "" for an empty palette.
func (p Palette) Color(name string) string {
	i := p.Index(name)
	if i < 0 {
		return ""
	}
	return p[i]
}

// TextColor returns black or white, whichever reads better on top of hex.
// Unparseable input yields black.
func TextColor(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#000000"
	}
	if _, _, l := c.Hcl(); l > 0.6 {
		return "#000000"
	}
	return "#ffffff"
}

// Node is a laid-out node with its fill color.
type Node struct {
	*partition.Node
	Color    string
	Children []*Node
}

// Walk visits n and its descendants in pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Colorize returns a colored copy of the tree rooted at root. A nil palette
// uses [Category20c].
func Colorize(root *partition.Node, p Palette) *Node {
	if len(p) == 0 {
		p = Category20c
	}
	return colorize(root, "", root.Depth(), p)
}

// colorize applies the policy top-down. ancestor is the color of the
// depth-1 ancestor, or "" above depth 1.
func colorize(n *partition.Node, ancestor string, rootDepth int, p Palette) *Node {
	cn := &Node{Node: n}
	if n.Depth()-rootDepth <= 1 {
		cn.Color = p.Color(n.Name())
	} else {
		cn.Color = ancestor
	}

	pass := ancestor
	if n.Depth()-rootDepth == 1 {
		pass = cn.Color
	}
	if len(n.Children) > 0 {
		cn.Children = make([]*Node, 0, len(n.Children))
		for _, c := range n.Children {
			cn.Children = append(cn.Children, colorize(c, pass, rootDepth, p))
		}
	}
	return cn
}
