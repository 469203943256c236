package sink

import (
	"bytes"
	"fmt"
	"html"
	"strconv"

	"github.com/matzehuels/sunburst/pkg/sunburst"
	"github.com/matzehuels/sunburst/pkg/sunburst/tooltip"
)

// Default page texts.
const (
	DefaultHeadline    = "Failures"
	DefaultDescription = "Color: Job/Test Suite, Arc size: Number of Failures"
)

const pageCSS = `
    body { font-family: sans-serif; margin: 0; padding: 1em; }
    section.graph { max-width: 600px; margin: 0 auto; }
    section.graph header h1 { font-size: 1.2em; margin: 0; }
    section.graph header p { color: #666; margin: 0.2em 0 0.8em; font-size: 0.9em; }
    section.graph svg { width: 100%; height: auto; }`

// HTMLOption configures [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	headline    string
	description string
	refresh     int
	frameID     string
	live        string
	svgOpts     []SVGOption
}

// WithHeadline overrides the page heading.
func WithHeadline(s string) HTMLOption { return func(r *htmlRenderer) { r.headline = s } }

// WithDescription overrides the line under the heading.
func WithDescription(s string) HTMLOption { return func(r *htmlRenderer) { r.description = s } }

// WithRefresh makes the page reload itself every seconds.
func WithRefresh(seconds int) HTMLOption { return func(r *htmlRenderer) { r.refresh = seconds } }

// WithFrameID stamps the page with the id of the frame it shows.
func WithFrameID(id string) HTMLOption { return func(r *htmlRenderer) { r.frameID = id } }

// WithLive makes the page listen on the WebSocket at path for frame
// announcements and reload when a frame other than its own is published.
// The meta refresh is then dropped; the refresh interval only applies
// after the socket closes.
func WithLive(path string) HTMLOption { return func(r *htmlRenderer) { r.live = path } }

// WithHTMLSVGOptions passes options through to the embedded SVG renderer.
func WithHTMLSVGOptions(opts ...SVGOption) HTMLOption {
	return func(r *htmlRenderer) { r.svgOpts = opts }
}

// RenderHTML renders c as a self-contained page: heading, description, the
// inline SVG and a single shared tooltip element driven by
// [tooltip.Script].
func RenderHTML(c *sunburst.Chart, opts ...HTMLOption) []byte {
	r := htmlRenderer{headline: DefaultHeadline, description: DefaultDescription}
	for _, opt := range opts {
		opt(&r)
	}
	svgOpts := append([]SVGOption{WithTooltipData(), WithoutTitles()}, r.svgOpts...)

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n  <meta charset=\"utf-8\">\n")
	if r.refresh > 0 && r.live == "" {
		fmt.Fprintf(&buf, "  <meta http-equiv=\"refresh\" content=\"%d\">\n", r.refresh)
	}
	if r.frameID != "" {
		fmt.Fprintf(&buf, "  <meta name=\"frame\" content=\"%s\">\n", html.EscapeString(r.frameID))
	}
	fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.headline))
	fmt.Fprintf(&buf, "  <style>%s%s\n  </style>\n", pageCSS, tooltip.CSS)
	buf.WriteString("</head>\n<body>\n")

	fmt.Fprintf(&buf, "<section class=\"graph %s\">\n  <header>\n    <h1>%s</h1>\n    <p>%s</p>\n  </header>\n",
		ClassName, html.EscapeString(r.headline), html.EscapeString(r.description))
	buf.Write(RenderSVG(c, svgOpts...))
	buf.WriteString("</section>\n")

	fmt.Fprintf(&buf, "<div class=\"%s\"></div>\n", tooltip.ClassName)
	fmt.Fprintf(&buf, "<script type=\"text/javascript\">%s\n</script>\n", tooltip.Script())
	if r.live != "" {
		fmt.Fprintf(&buf, "<script type=\"text/javascript\">%s\n</script>\n", liveScript(r.live, r.refresh))
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}

// liveScript compares announced frame ids against the page's own
// <meta name="frame"> and reloads on a mismatch.
func liveScript(path string, fallback int) string {
	return `
(function() {
  var meta = document.querySelector('meta[name="frame"]');
  var shown = meta ? meta.content : "";
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(scheme + location.host + ` + strconv.Quote(path) + `);
  ws.onmessage = function(ev) {
    var msg = JSON.parse(ev.data);
    if (msg.frame && msg.frame !== shown) { location.reload(); }
  };
  ws.onclose = function() {
    var fallback = ` + strconv.Itoa(fallback) + `;
    if (fallback > 0) { setTimeout(function() { location.reload(); }, fallback * 1000); }
  };
})();`
}
