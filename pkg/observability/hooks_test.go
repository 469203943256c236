package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnParseStart(ctx, "failures.json")
	p.OnParseComplete(ctx, "failures.json", 2, time.Second, nil)
	p.OnLayoutStart(ctx, "sqrt", 5)
	p.OnLayoutComplete(ctx, "sqrt", 5, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "report")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "ci.local", "/failures.json")
	h.OnResponse(ctx, "GET", "ci.local", "/failures.json", 200, time.Second)
	h.OnError(ctx, "GET", "ci.local", "/failures.json", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	m := NewMetrics(prometheus.NewRegistry())
	SetPipelineHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
	if Pipeline() != PipelineHooks(m) || Cache() != CacheHooks(m) || HTTP() != HTTPHooks(m) {
		t.Error("Set*Hooks should register the metrics hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestMetricsHooks(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics(prometheus.NewRegistry())

	m.OnParseComplete(ctx, "f.json", 2, time.Millisecond, nil)
	m.OnLayoutComplete(ctx, "sqrt", 7, time.Millisecond, nil)
	m.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, errors.New("boom"))
	m.OnCacheHit(ctx, "artifact")
	m.OnCacheMiss(ctx, "artifact")
	m.OnCacheMiss(ctx, "artifact")
	m.OnResponse(ctx, "GET", "ci.local", "/f.json", 200, time.Millisecond)
	m.OnError(ctx, "GET", "ci.local", "/f.json", errors.New("refused"))

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"segments", testutil.ToFloat64(m.ChartSegments), 7},
		{"render errors", testutil.ToFloat64(m.StageErrors.WithLabelValues("render")), 1},
		{"parse errors", testutil.ToFloat64(m.StageErrors.WithLabelValues("parse")), 0},
		{"cache hits", testutil.ToFloat64(m.CacheEvents.WithLabelValues("artifact", "hit")), 1},
		{"cache misses", testutil.ToFloat64(m.CacheEvents.WithLabelValues("artifact", "miss")), 2},
		{"fetch ok", testutil.ToFloat64(m.FetchTotal.WithLabelValues("ci.local", "200")), 1},
		{"fetch error", testutil.ToFloat64(m.FetchTotal.WithLabelValues("ci.local", "error")), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/refresh" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))

	for _, path := range []string{"/failures", "/refresh", "/wp-admin"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	tests := []struct {
		route, status string
	}{
		{"/failures", "200"},
		{"/refresh", "429"},
		{"other", "200"},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues(tt.route, http.MethodGet, tt.status)); got != 1 {
			t.Errorf("requests{route=%s,status=%s} = %v, want 1", tt.route, tt.status, got)
		}
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
