// Package pkg provides the libraries behind sunburst, a chart of CI test
// failures.
//
// # Overview
//
// A failure report lists, per CI job, how many tests failed, grouped into
// suites. Sunburst draws it as concentric rings: jobs on the inner ring,
// suites around them, tests on the outside. Every arc's angle is
// proportional to its share of all failures.
//
// # Architecture
//
// The data flow through sunburst:
//
//	failure report (JSON, file/URL/stdin)
//	         ↓
//	    [failures] package (decode + normalize into a tree)
//	         ↓
//	    [hierarchy] package (named, valued tree)
//	         ↓
//	    [sunburst] package (partition → arcs → colors → tooltips)
//	         ↓
//	    [render/sink] / [render/nodelink] (SVG, HTML, JSON, PNG, PDF, DOT)
//
// [pipeline] runs all stages for the CLI and the HTTP server, with the
// rendered artifacts cached through [cache].
//
// # Quick Start
//
//	tree, _ := failures.Parse(report)
//	chart, _ := sunburst.BuildReport(tree, sunburst.Options{Size: 600})
//	svg := sink.RenderSVG(chart)
//
// # Main Packages
//
// [sunburst/partition] - Radial partition layout: angles proportional to
// aggregated values, ring radii on a sqrt or linear scale.
//
// [sunburst/arc] - Annular sector descriptors and SVG path data.
//
// [sunburst/palette] - Categorical colors keyed by name, inherited from the
// depth-1 ancestor.
//
// [sunburst/tooltip] - The single shared hover overlay and its placement.
//
// [io] - Report fetching (file, stdin, HTTP with retry) and artifact export.
//
// [config] - Optional TOML settings file.
//
// [observability] - Pipeline, cache and HTTP hooks with a Prometheus
// implementation.
//
// [failures]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/failures
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/hierarchy
// [sunburst]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/sunburst
// [sunburst/partition]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/sunburst/partition
// [sunburst/arc]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/sunburst/arc
// [sunburst/palette]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/sunburst/palette
// [sunburst/tooltip]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/sunburst/tooltip
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/io
// [config]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/sunburst/pkg/observability
package pkg
