package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sunburst/pkg/cache"
	"github.com/matzehuels/sunburst/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs parse → layout → render. Parsing and layout are cheap and
// always run; rendered artifacts are cached by report hash and options.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	chartOpts, err := opts.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{ReportHash: cache.Hash(opts.Report)}

	// Stage 1: Parse
	parseStart := time.Now()
	tree, root, err := Parse(ctx, opts.Source, opts.Report)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Tree = tree
	result.Root = root
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Jobs = tree.Len()

	r.Logger.Info("parsed report",
		"source", opts.Source,
		"jobs", tree.Len(),
		"nodes", root.Count(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	c := Layout(ctx, root, chartOpts)
	result.Chart = c
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Segments = len(c.Drawable())
	result.Stats.Failures = c.Total

	r.Logger.Info("computed layout",
		"segments", result.Stats.Segments,
		"failures", c.Total,
		"scale", c.Scale,
		"duration", result.Stats.LayoutTime)
	if c.Empty() {
		r.Logger.Warn("report has no failures to draw")
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.renderWithCache(ctx, result, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// renderWithCache serves all formats from cache when every one of them is
// present, and otherwise renders and stores them.
func (r *Runner) renderWithCache(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	hooks := observability.Cache()

	if !opts.NoCache {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(result.ReportHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Debug("cache read failed", "format", format, "error", err)
			}
			if !hit {
				hooks.OnCacheMiss(ctx, "artifact")
				break
			}
			hooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, result.Chart, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(result.ReportHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
