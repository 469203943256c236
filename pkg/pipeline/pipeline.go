// Package pipeline runs a failure report through the complete chart
// pipeline: parse → layout → render.
//
// The CLI and the HTTP server both go through a [Runner], so they agree on
// defaults, validation, cache keys and logging.
//
// # Stages
//
//  1. Parse: decode the report and normalize it into a hierarchy
//  2. Layout: partition, arc mapping and coloring (sunburst.Build)
//  3. Render: produce the requested formats (SVG, HTML, JSON, PNG, PDF, DOT)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "failures.json",
//	    Report:  data,
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatHTML},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sunburst/pkg/cache"
	"github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/failures"
	"github.com/matzehuels/sunburst/pkg/hierarchy"
	"github.com/matzehuels/sunburst/pkg/sunburst"
	"github.com/matzehuels/sunburst/pkg/sunburst/palette"
	"github.com/matzehuels/sunburst/pkg/sunburst/partition"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSize is the side of the square drawing surface in pixels.
	DefaultSize = sunburst.DefaultSize

	// DefaultScale is the ring radius scale.
	DefaultScale = partition.ScaleSqrt

	// DefaultPNGScale renders PNGs at 2x.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatTree = "tree"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatHTML: true,
	FormatJSON: true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatTree: true,
}

// Extension returns the file extension used when writing format.
func Extension(format string) string {
	if format == FormatTree {
		return "tree.svg"
	}
	return format
}

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Source names where the report came from, for logs and cache keys.
	Source string `json:"source,omitempty"`
	// Report is the raw failure JSON.
	Report []byte `json:"-"`

	// Layout options
	Size    float64  `json:"size,omitempty"`
	Scale   string   `json:"scale,omitempty"`
	Palette []string `json:"palette,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Labels      bool     `json:"labels,omitempty"`
	Headline    string   `json:"headline,omitempty"`
	Description string   `json:"description,omitempty"`
	PNGScale    float64  `json:"png_scale,omitempty"`

	// NoCache skips artifact lookups. Results are still written.
	NoCache bool `json:"no_cache,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the decoded report, in document order.
	Tree failures.Tree

	// Root is the normalized hierarchy.
	Root *hierarchy.Node

	// ReportHash is the SHA-256 of the raw report.
	ReportHash string

	// Chart is the built chart.
	Chart *sunburst.Chart

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Jobs       int
	Segments   int
	Failures   float64
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // every requested artifact came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	return []string{FormatSVG, FormatHTML, FormatJSON, FormatPNG, FormatPDF, FormatDOT, FormatTree}
}

// SetDefaults fills in zero-valued fields.
func (o *Options) SetDefaults() {
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.Scale == "" {
		o.Scale = DefaultScale
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PNGScale <= 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks every option. It returns the
// resolved chart options on success.
func (o *Options) Validate() (sunburst.Options, error) {
	o.SetDefaults()
	scale, err := partition.ParseScale(o.Scale)
	if err != nil {
		return sunburst.Options{}, err
	}
	var pal palette.Palette
	if len(o.Palette) > 0 {
		if pal, err = palette.New(o.Palette...); err != nil {
			return sunburst.Options{}, err
		}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return sunburst.Options{}, err
	}
	return sunburst.Options{Size: o.Size, Scale: scale, Palette: pal}, nil
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Size:        o.Size,
		Scale:       o.Scale,
		Palette:     o.Palette,
		Labels:      o.Labels,
		Headline:    o.Headline,
		Description: o.Description,
		PNGScale:    o.PNGScale,
	}
}
