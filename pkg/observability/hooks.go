// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the hook interfaces without depending on a
// metrics backend. The sunburst server registers the Prometheus
// implementation in [Metrics] at startup; the CLI leaves the no-op defaults
// in place.
//
// # Usage
//
// Register hooks at application startup:
//
//	m := observability.NewMetrics(registry)
//	observability.SetPipelineHooks(m)
//	observability.SetCacheHooks(m)
//	observability.SetHTTPHooks(m)
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnParseStart(ctx, source)
//	// ... decode and normalize ...
//	observability.Pipeline().OnParseComplete(ctx, source, jobs, time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the chart pipeline.
type PipelineHooks interface {
	// Parse events: decoding the report and normalizing it into a hierarchy.
	OnParseStart(ctx context.Context, source string)
	OnParseComplete(ctx context.Context, source string, jobs int, duration time.Duration, err error)

	// Layout events: partition, arcs and colors.
	OnLayoutStart(ctx context.Context, scale string, nodes int)
	OnLayoutComplete(ctx context.Context, scale string, segments int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from report fetches over HTTP.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// hookSet is swapped as a whole so readers never see a partial update.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var hooks atomic.Pointer[hookSet]

func init() { Reset() }

func update(apply func(*hookSet)) {
	for {
		old := hooks.Load()
		next := *old
		apply(&next)
		if hooks.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks registers custom pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(s *hookSet) { s.http = h })
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return hooks.Load().pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return hooks.Load().cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return hooks.Load().http }

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooks.Store(&hookSet{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}
