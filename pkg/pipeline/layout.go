package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/sunburst/pkg/hierarchy"
	"github.com/matzehuels/sunburst/pkg/observability"
	"github.com/matzehuels/sunburst/pkg/sunburst"
)

// Layout builds the chart for a normalized tree: partition, arc mapping and
// coloring. opts must already carry a scale; use [Options.Validate].
func Layout(ctx context.Context, root *hierarchy.Node, opts sunburst.Options) *sunburst.Chart {
	scale := ""
	if opts.Scale != nil {
		scale = opts.Scale.Name()
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, scale, root.Count())
	start := time.Now()

	c := sunburst.Build(root, opts)
	hooks.OnLayoutComplete(ctx, c.Scale, len(c.Drawable()), time.Since(start), nil)
	return c
}
