package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sunburst/pkg/render"
	"github.com/matzehuels/sunburst/pkg/sunburst"
	"github.com/matzehuels/sunburst/pkg/sunburst/palette"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the aggregate failure count and depth to each label.
	Detailed bool

	// ShowRoot keeps the synthetic root node in the diagram.
	ShowRoot bool
}

// ToDOT converts a chart's failure tree to Graphviz DOT. Nodes are filled
// with their segment color and labeled with the tooltip text, so the
// diagram reads the same as the sunburst. Node ids follow chart order.
func ToDOT(c *sunburst.Chart, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	for i, s := range c.Segments {
		if s.Hidden && !opts.ShowRoot {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(i), strings.Join(fmtAttrs(s, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges(c) {
		if c.Segments[e[0]].Hidden && !opts.ShowRoot {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(e[0]), nodeID(e[1]))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "n" + strconv.Itoa(i) }

// edges recovers parent links from the pre-order segment list: a segment's
// parent is the closest earlier segment one level up.
func edges(c *sunburst.Chart) [][2]int {
	var out [][2]int
	var stack []int
	for i, s := range c.Segments {
		for len(stack) > 0 && c.Segments[stack[len(stack)-1]].Depth >= s.Depth {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			out = append(out, [2]int{stack[len(stack)-1], i})
		}
		stack = append(stack, i)
	}
	return out
}

func fmtAttrs(s sunburst.Segment, detailed bool) []string {
	label := s.Tooltip
	if detailed {
		label = fmt.Sprintf("%s\nsum: %s\ndepth: %d", s.Name, strconv.FormatFloat(s.Sum, 'f', -1, 64), s.Depth)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if s.Hidden {
		return append(attrs, "style=\"rounded,dashed\"", "fillcolor=white")
	}
	return append(attrs,
		fmt.Sprintf("fillcolor=%q", s.Color),
		fmt.Sprintf("fontcolor=%q", palette.TextColor(s.Color)))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPDF renders a DOT graph to PDF via SVG.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph to PNG via SVG at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one so the diagram scales like the sunburst SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
