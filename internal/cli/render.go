package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	sbio "github.com/matzehuels/sunburst/pkg/io"
	"github.com/matzehuels/sunburst/pkg/pipeline"
)

const outputSuffix = ".sunburst"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	chart       chartFlags
	output      string   // base path; the format extension is appended
	formats     []string // svg, html, json, png, pdf, dot, tree
	headline    string   // HTML page heading
	description string   // HTML page subheading
	pngScale    float64  // PNG pixel density multiplier
	noCache     bool     // refetch URLs and re-render even when cached
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file|url|-]",
		Short: "Render a failure report as a sunburst chart",
		Long: `Render a failure report as a sunburst chart.

The report is a JSON object keyed by job name; each job has a failedCount and
optional testsuites, and each suite has children with their own failedCount.
Use "-" to read the report from stdin.`,
		Example: `  sunburst render failures.json
  sunburst render failures.json -f svg,html -o out/chart
  curl -s $CI/failures | sunburst render - -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	opts.chart.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path; the format extension is appended")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), html, json, png, pdf, dot, tree (comma-separated)")
	cmd.Flags().StringVar(&opts.headline, "headline", "", "HTML page heading")
	cmd.Flags().StringVar(&opts.description, "description", "", "HTML page subheading")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", pipeline.DefaultPNGScale, "PNG pixel density")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "ignore cached reports and artifacts")

	return cmd
}

// runRender fetches the report, runs the pipeline and writes one file per
// format next to the output base path.
func (c *CLI) runRender(cmd *cobra.Command, source string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner, fetcher, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	data, err := fetcher.Fetch(ctx, source, opts.noCache)
	if err != nil {
		return err
	}
	logger.Debugf("Read %d bytes from %s", len(data), source)

	popts := opts.chart.options(cmd, cfg)
	popts.Source = source
	popts.Report = data
	popts.Formats = opts.formats
	popts.Headline = opts.headline
	popts.Description = opts.description
	popts.PNGScale = opts.pngScale
	popts.NoCache = opts.noCache
	popts.Logger = logger

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d segments", result.Stats.Segments))

	paths, err := writeOutputs(opts.output, source, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", displaySource(source))
	printStats(result.Stats.Jobs, result.Stats.Failures, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	if source != sbio.Stdin {
		printNextStep("Browse segments", appName+" explore "+source)
	}
	return nil
}

// writeOutputs writes one file per artifact at basePath(output, source).
func writeOutputs(output, source string, artifacts map[string][]byte) ([]string, error) {
	base := basePath(output, source)
	return sbio.WriteArtifacts(filepath.Dir(base), filepath.Base(base), artifacts, pipeline.Extension)
}

// basePath derives the base output path from the output and input paths.
// If output is empty, input's extension is replaced by ".sunburst" so that a
// JSON chart never overwrites its report; stdin and URL reports use
// "failures.sunburst". A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == sbio.Stdin || sbio.IsURL(input) {
			return defaultBase + outputSuffix
		}
		return strings.TrimSuffix(input, filepath.Ext(input)) + outputSuffix
	}
	if hasFormatExt(output) {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

func hasFormatExt(path string) bool {
	return pipeline.ValidFormats[strings.TrimPrefix(filepath.Ext(path), ".")]
}

func displaySource(source string) string {
	if source == sbio.Stdin {
		return "stdin"
	}
	return source
}
