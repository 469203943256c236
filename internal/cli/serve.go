package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/internal/server"
	"github.com/matzehuels/sunburst/pkg/errors"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	chart       chartFlags
	addr        string
	refresh     time.Duration
	minGap      time.Duration
	headline    string
	description string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [url|file]",
		Short: "Serve a live sunburst of the latest failure report",
		Long: `Serve a live sunburst of the latest failure report.

The report is refetched every --refresh interval and on POST /refresh. The
page at /failures reloads itself; /chart.svg and /chart.json serve the
current chart and /metrics exposes Prometheus metrics.`,
		Example: `  sunburst serve https://ci.example.com/api/failures
  sunburst serve failures.json --addr :9000 --refresh 1m`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) == 1 {
				source = args[0]
			}
			return c.runServe(cmd, source, &opts)
		},
	}

	opts.chart.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&opts.refresh, "refresh", server.DefaultRefreshInterval, "report refetch interval (0 disables)")
	cmd.Flags().DurationVar(&opts.minGap, "min-refresh-gap", server.DefaultMinRefreshGap, "minimum time between manual refreshes")
	cmd.Flags().StringVar(&opts.headline, "headline", "Test failures", "page heading")
	cmd.Flags().StringVar(&opts.description, "description", "", "page subheading")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, source string, opts *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.config()
	if err != nil {
		return err
	}

	sopts := server.Options{
		Addr:            cfg.Server.Addr,
		Source:          cfg.Server.Source,
		RefreshInterval: cfg.Server.RefreshInterval.Duration,
		MinRefreshGap:   cfg.Server.MinRefreshGap.Duration,
		Chart:           opts.chart.options(cmd, cfg),
	}
	if source != "" {
		sopts.Source = source
	}
	if sopts.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no report source: pass one as argument or set server.source in the config")
	}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		sopts.Addr = opts.addr
	}
	if flags.Changed("refresh") {
		sopts.RefreshInterval = opts.refresh
	}
	if flags.Changed("min-refresh-gap") {
		sopts.MinRefreshGap = opts.minGap
	}
	sopts.Chart.Headline = opts.headline
	sopts.Chart.Description = opts.description

	store, err := c.newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	srv, err := server.New(sopts, newFetcher(store, cfg), logger)
	if err != nil {
		return err
	}

	printInfo("Serving %s", StyleHighlight.Render(displaySource(sopts.Source)))
	printKeyValue("Chart", StyleLink.Render("http://"+listenHost(sopts.Addr)+"/failures"))
	printKeyValue("Refresh", sopts.RefreshInterval.String())
	return srv.Run(ctx)
}

// listenHost turns ":8080" into "localhost:8080" for display.
func listenHost(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
