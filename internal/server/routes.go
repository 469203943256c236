package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/sunburst/pkg/render/sink"
	"github.com/matzehuels/sunburst/pkg/sunburst"
)

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Use(s.withLogging)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/failures", http.StatusFound)
	})
	r.Get("/failures", s.handlePage)
	r.Get("/chart.svg", s.handleSVG)
	r.Get("/chart.json", s.handleJSON)
	r.Post("/refresh", s.handleRefresh)
	r.Get("/live", s.handleLive)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	return r
}

// frame returns the chart to draw and its frame id, empty before the first
// publish.
func (s *Server) frame() (*sunburst.Chart, string) {
	if f := s.board.Current(); f != nil {
		return f.Chart, f.ID
	}
	return s.empty, ""
}

// notModified sets the ETag for id and reports whether the client already
// has it.
func notModified(w http.ResponseWriter, r *http.Request, id string) bool {
	if id == "" {
		w.Header().Set("Cache-Control", "no-store")
		return false
	}
	etag := `"` + id + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func (s *Server) svgOptions() []sink.SVGOption {
	if s.opts.Chart.Labels {
		return []sink.SVGOption{sink.WithLabels()}
	}
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	c, id := s.frame()
	if notModified(w, r, id) {
		return
	}
	opts := []sink.HTMLOption{
		sink.WithFrameID(id),
		sink.WithLive("/live"),
		sink.WithHTMLSVGOptions(s.svgOptions()...),
	}
	if s.opts.RefreshInterval > 0 {
		opts = append(opts, sink.WithRefresh(int(s.opts.RefreshInterval/time.Second)))
	}
	if h := s.opts.Chart.Headline; h != "" {
		opts = append(opts, sink.WithHeadline(h))
	}
	if d := s.opts.Chart.Description; d != "" {
		opts = append(opts, sink.WithDescription(d))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(sink.RenderHTML(c, opts...))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	c, id := s.frame()
	if notModified(w, r, id) {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(sink.RenderSVG(c, s.svgOptions()...))
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	c, id := s.frame()
	if notModified(w, r, id) {
		return
	}
	data, err := sink.RenderJSON(c, sink.WithJSONFrameID(id))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

type refreshResponse struct {
	Frame     string    `json:"frame"`
	Seq       uint64    `json:"seq"`
	Published time.Time `json:"published"`
	Segments  int       `json:"segments"`
	Total     float64   `json:"total"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		s.metrics.RateLimitDropped.Inc()
		w.Header().Set("Retry-After", retryAfter(s.opts.MinRefreshGap))
		http.Error(w, "refresh rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	f, err := s.Refresh(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(refreshResponse{
		Frame:     f.ID,
		Seq:       f.Seq,
		Published: f.Published,
		Segments:  len(f.Chart.Drawable()),
		Total:     f.Chart.Total,
	})
}

func retryAfter(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
