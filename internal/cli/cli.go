package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/pkg/buildinfo"
	"github.com/matzehuels/sunburst/pkg/cache"
	"github.com/matzehuels/sunburst/pkg/config"
	sbio "github.com/matzehuels/sunburst/pkg/io"
	"github.com/matzehuels/sunburst/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// defaultBase names outputs of reports read from stdin or a URL.
	defaultBase = "failures"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

func version() string {
	v, _, _ := buildinfo.Resolve()
	return v
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Sunburst charts of CI test failures",
		Long:         `Sunburst turns a CI failure report (job → suite → test, with failure counts) into a sunburst chart, written as static files or as a live-refreshing web page.`,
		Version:      version(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./sunburst.toml, then ~/.config/sunburst/sunburst.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the config file once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner and a report fetcher sharing one cache.
// The caller closes the runner, which closes the cache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, *sbio.Fetcher, error) {
	store, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), newFetcher(store, cfg), nil
}

// newFetcher reads reports through store, reusing cached URL fetches for
// the configured TTL.
func newFetcher(store cache.Cache, cfg *config.Config) *sbio.Fetcher {
	return &sbio.Fetcher{
		Client: sbio.NewHTTPClient(),
		Cache:  store,
		TTL:    cfg.Cache.TTL.Duration,
	}
}

func (c *CLI) newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		c.Logger.Debug("using redis cache", "addr", cfg.Cache.RedisAddr)
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Prefix:   cfg.Cache.Prefix,
		})
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		c.Logger.Warn("file cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// chartFlags are the chart settings every command accepts. Flags only
// override the config file when set explicitly.
type chartFlags struct {
	size    float64
	scale   string
	palette []string
	labels  bool
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.size, "size", pipeline.DefaultSize, "chart width in pixels")
	cmd.Flags().StringVar(&f.scale, "scale", pipeline.DefaultScale, "ring spacing: sqrt (equal area) or linear (equal width)")
	cmd.Flags().StringSliceVar(&f.palette, "palette", nil, "comma-separated hex colors (default category20c)")
	cmd.Flags().BoolVar(&f.labels, "labels", false, "draw segment names on wide arcs")
}

// options merges config values and explicitly set flags.
func (f *chartFlags) options(cmd *cobra.Command, cfg *config.Config) pipeline.Options {
	opts := pipeline.Options{
		Size:    cfg.Chart.Size,
		Scale:   cfg.Chart.Scale,
		Palette: cfg.Chart.Palette,
		Labels:  cfg.Chart.Labels,
	}
	flags := cmd.Flags()
	if flags.Changed("size") {
		opts.Size = f.size
	}
	if flags.Changed("scale") {
		opts.Scale = f.scale
	}
	if flags.Changed("palette") {
		opts.Palette = f.palette
	}
	if flags.Changed("labels") {
		opts.Labels = f.labels
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
