package observability

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Prometheus collectors of the sunburst server. It
// implements PipelineHooks, CacheHooks and HTTPHooks.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDurationSec *prometheus.HistogramVec
	StageDurationSec   *prometheus.HistogramVec
	StageErrors        *prometheus.CounterVec
	CacheEvents        *prometheus.CounterVec
	FetchTotal         *prometheus.CounterVec
	ChartSegments      prometheus.Gauge
	ChartFailures      prometheus.Gauge
	Refreshes          prometheus.Counter
	RefreshErrors      prometheus.Counter
	StaleFrames        prometheus.Counter
	RateLimitDropped   prometheus.Counter
	LiveClients        prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sunburst_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"route", "method", "status"}),
		RequestDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sunburst_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		StageDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sunburst_stage_duration_seconds",
			Help:    "Duration of pipeline stages (parse, layout, render).",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"stage"}),
		StageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sunburst_stage_errors_total",
			Help: "Total number of failed pipeline stages.",
		}, []string{"stage"}),
		CacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sunburst_cache_events_total",
			Help: "Cache lookups and writes by key type and outcome.",
		}, []string{"key_type", "event"}),
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sunburst_report_fetch_total",
			Help: "Report fetches by host and result.",
		}, []string{"host", "result"}),
		ChartSegments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sunburst_chart_segments",
			Help: "Number of drawable segments in the last built chart.",
		}),
		ChartFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sunburst_chart_failures",
			Help: "Total failure count of the currently published chart.",
		}),
		Refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sunburst_refresh_total",
			Help: "Total number of report refresh attempts.",
		}),
		RefreshErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sunburst_refresh_errors_total",
			Help: "Total number of failed report refreshes.",
		}),
		StaleFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sunburst_stale_frames_total",
			Help: "Charts discarded because a newer refresh was already published.",
		}),
		RateLimitDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sunburst_ratelimit_dropped_total",
			Help: "Total number of refresh requests dropped by the rate limiter.",
		}),
		LiveClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sunburst_live_clients",
			Help: "Number of pages connected to the live frame feed.",
		}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSec,
		m.StageDurationSec,
		m.StageErrors,
		m.CacheEvents,
		m.FetchTotal,
		m.ChartSegments,
		m.ChartFailures,
		m.Refreshes,
		m.RefreshErrors,
		m.StaleFrames,
		m.RateLimitDropped,
		m.LiveClients,
	)
	return m
}

// =============================================================================
// Hook implementations
// =============================================================================

func (m *Metrics) OnParseStart(context.Context, string) {}

func (m *Metrics) OnParseComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	m.stage("parse", d, err)
}

func (m *Metrics) OnLayoutStart(context.Context, string, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, _ string, segments int, d time.Duration, err error) {
	m.stage("layout", d, err)
	if err == nil {
		m.ChartSegments.Set(float64(segments))
	}
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.stage("render", d, err)
}

func (m *Metrics) stage(name string, d time.Duration, err error) {
	m.StageDurationSec.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.StageErrors.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.CacheEvents.WithLabelValues(keyType, "set").Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, _ time.Duration) {
	m.FetchTotal.WithLabelValues(host, strconv.Itoa(status)).Inc()
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.FetchTotal.WithLabelValues(host, "error").Inc()
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)

// =============================================================================
// HTTP middleware
// =============================================================================

// Middleware records request counts and latency per route. Paths outside
// the known routes are folded into "other" to bound label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		status := strconv.Itoa(wrapped.statusCode)
		route := normalizeRoute(r.URL.Path)
		m.RequestsTotal.WithLabelValues(route, r.Method, status).Inc()
		m.RequestDurationSec.WithLabelValues(route, r.Method, status).Observe(time.Since(startedAt).Seconds())
	})
}

func normalizeRoute(path string) string {
	switch path {
	case "/", "/failures", "/chart.svg", "/chart.json", "/refresh", "/live", "/metrics", "/healthz":
		return path
	default:
		return "other"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Flush keeps streaming behavior for handlers that require it.
func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Hijack lets WebSocket upgrades pass through the middleware.
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}
