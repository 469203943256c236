// Package server serves the live failure sunburst over HTTP.
//
// A background loop fetches the report from a file or URL on a fixed
// interval and publishes each chart into a [sunburst.Board]. Fetches can
// overlap when a manual refresh races the ticker; the board keeps only the
// newest chart. Handlers render the current frame on each request.
//
// Routes:
//
//	GET  /            redirect to /failures
//	GET  /failures    HTML page with the chart and tooltip
//	GET  /chart.svg   bare SVG
//	GET  /chart.json  chart geometry
//	POST /refresh     fetch now (rate limited)
//	GET  /live        WebSocket announcing each published frame
//	GET  /metrics     Prometheus metrics
//	GET  /healthz     liveness
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/failures"
	"github.com/matzehuels/sunburst/pkg/hierarchy"
	sbio "github.com/matzehuels/sunburst/pkg/io"
	"github.com/matzehuels/sunburst/pkg/observability"
	"github.com/matzehuels/sunburst/pkg/pipeline"
	"github.com/matzehuels/sunburst/pkg/sunburst"
)

// Defaults for Options.
const (
	DefaultAddr            = ":8080"
	DefaultRefreshInterval = 30 * time.Second
	DefaultMinRefreshGap   = 5 * time.Second

	fetchTimeout    = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr   string
	Source string

	// RefreshInterval is the period of the background fetch loop. Zero
	// disables the loop; the chart is then only fetched at startup and on
	// POST /refresh.
	RefreshInterval time.Duration

	// MinRefreshGap is the minimum spacing of manual refreshes.
	MinRefreshGap time.Duration

	// Chart carries the layout and render options applied to every fetch.
	Chart pipeline.Options
}

// Server is the HTTP host of the chart.
type Server struct {
	opts     Options
	chart    sunburst.Options
	board    sunburst.Board
	fetcher  *sbio.Fetcher
	logger   *log.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
	limiter  *rate.Limiter
	live     *liveHub

	// empty is drawn before the first successful fetch.
	empty *sunburst.Chart
}

// New creates a server. It registers the Prometheus hooks globally, so only
// one Server should exist per process.
func New(opts Options, fetcher *sbio.Fetcher, logger *log.Logger) (*Server, error) {
	if opts.Source == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a report source is required")
	}
	if err := errors.ValidateSource(opts.Source); err != nil {
		return nil, err
	}
	chartOpts, err := opts.Chart.Validate()
	if err != nil {
		return nil, err
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.MinRefreshGap <= 0 {
		opts.MinRefreshGap = DefaultMinRefreshGap
	}
	if fetcher == nil {
		fetcher = &sbio.Fetcher{}
	}
	if logger == nil {
		logger = log.Default()
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	observability.SetPipelineHooks(metrics)
	observability.SetCacheHooks(metrics)
	observability.SetHTTPHooks(metrics)

	return &Server{
		opts:     opts,
		chart:    chartOpts,
		fetcher:  fetcher,
		logger:   logger,
		registry: registry,
		metrics:  metrics,
		limiter:  rate.NewLimiter(rate.Every(opts.MinRefreshGap), 1),
		live:     newLiveHub(metrics.LiveClients, logger),
		empty:    sunburst.Build(hierarchy.New(failures.RootName, 0), chartOpts),
	}, nil
}

// Current returns the published frame, or nil before the first successful
// fetch.
func (s *Server) Current() *sunburst.Frame {
	return s.board.Current()
}

// Run serves HTTP and runs the refresh loop until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.refreshLoop(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving failures chart", "addr", s.opts.Addr, "source", s.opts.Source)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down", "live_clients", s.live.count())
		s.live.closeAll()
		return srv.Shutdown(shutdownCtx)
	}
}

// refreshLoop fetches once immediately and then on every tick.
func (s *Server) refreshLoop(ctx context.Context) {
	s.refreshAsync(ctx)
	if s.opts.RefreshInterval <= 0 {
		return
	}

	ticker := time.NewTicker(s.opts.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshAsync(ctx)
		}
	}
}

// refreshAsync starts a fetch without waiting for it. A slow fetch does not
// delay the next tick; the board orders the results.
func (s *Server) refreshAsync(ctx context.Context) {
	go func() {
		if _, err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
			s.logger.Warn("refresh failed", "source", s.opts.Source, "error", err)
		}
	}()
}

// Refresh fetches the report, builds the chart and publishes it. It
// returns the current frame, which is an older one when this fetch was
// overtaken by a later one. Nothing is rendered here; handlers render the
// frame per request, so no artifact is written to a cache.
func (s *Server) Refresh(ctx context.Context) (*sunburst.Frame, error) {
	seq := s.board.Ticket()
	s.metrics.Refreshes.Inc()

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	data, err := s.fetcher.Fetch(ctx, s.opts.Source, true)
	if err != nil {
		s.metrics.RefreshErrors.Inc()
		return nil, err
	}

	_, root, err := pipeline.Parse(ctx, s.opts.Source, data)
	if err != nil {
		s.metrics.RefreshErrors.Inc()
		return nil, err
	}
	chart := pipeline.Layout(ctx, root, s.chart)

	frame, ok := s.board.Publish(seq, chart)
	if !ok {
		s.metrics.StaleFrames.Inc()
		s.logger.Debug("discarded stale chart", "seq", seq, "current", frame.Seq)
		return frame, nil
	}
	s.metrics.ChartFailures.Set(chart.Total)
	s.live.broadcast(liveMessage{Frame: frame.ID, Seq: frame.Seq})
	s.logger.Info("published chart",
		"frame", frame.ID,
		"seq", seq,
		"segments", len(chart.Drawable()),
		"failures", chart.Total)
	return frame, nil
}
