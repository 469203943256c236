package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/sunburst/pkg/observability"
	"github.com/matzehuels/sunburst/pkg/render/nodelink"
	"github.com/matzehuels/sunburst/pkg/render/sink"
	"github.com/matzehuels/sunburst/pkg/sunburst"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, c *sunburst.Chart, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := render(ctx, c, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func render(ctx context.Context, c *sunburst.Chart, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(c, svgOpts...)
		case FormatHTML:
			data = sink.RenderHTML(c, buildHTMLOptions(opts, svgOpts)...)
		case FormatJSON:
			data, err = sink.RenderJSON(c)
		case FormatPNG:
			data, err = sink.RenderPNG(c, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.PNGScale))
		case FormatPDF:
			data, err = sink.RenderPDF(c, svgOpts...)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(c, nodelink.Options{Detailed: opts.Labels}))
		case FormatTree:
			data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(c, nodelink.Options{Detailed: opts.Labels}))
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.Labels {
		svgOpts = append(svgOpts, sink.WithLabels())
	}
	return svgOpts
}

func buildHTMLOptions(opts Options, svgOpts []sink.SVGOption) []sink.HTMLOption {
	htmlOpts := []sink.HTMLOption{sink.WithHTMLSVGOptions(svgOpts...)}
	if opts.Headline != "" {
		htmlOpts = append(htmlOpts, sink.WithHeadline(opts.Headline))
	}
	if opts.Description != "" {
		htmlOpts = append(htmlOpts, sink.WithDescription(opts.Description))
	}
	return htmlOpts
}
