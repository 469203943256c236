package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/sunburst/pkg/failures"
	"github.com/matzehuels/sunburst/pkg/hierarchy"
	"github.com/matzehuels/sunburst/pkg/observability"
)

// Parse decodes a raw failure report and normalizes it into a hierarchy.
// source only labels hook events.
//
// A malformed report fails as a whole; no partial tree is returned.
func Parse(ctx context.Context, source string, data []byte) (failures.Tree, *hierarchy.Node, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, source)
	start := time.Now()

	tree, root, err := parse(data)
	hooks.OnParseComplete(ctx, source, tree.Len(), time.Since(start), err)
	return tree, root, err
}

func parse(data []byte) (failures.Tree, *hierarchy.Node, error) {
	tree, err := failures.Parse(data)
	if err != nil {
		return failures.Tree{}, nil, err
	}
	root, err := failures.Normalize(tree)
	if err != nil {
		return failures.Tree{}, nil, err
	}
	return tree, root, nil
}
