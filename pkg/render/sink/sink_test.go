package sink

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/sunburst/pkg/failures"
	"github.com/matzehuels/sunburst/pkg/sunburst"
)

func chart(t *testing.T, doc string) *sunburst.Chart {
	t.Helper()
	tree, err := failures.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	c, err := sunburst.BuildReport(tree, sunburst.Options{})
	if err != nil {
		t.Fatalf("BuildReport() error: %v", err)
	}
	return c
}

const report = `{
  "jobA": {"failedCount": 3, "testsuites": [
    {"name": "Login<Suite>", "children": [{"name": "LoginTest", "failedCount": 3}]}
  ]},
  "jobB": {"failedCount": 1}
}`

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(chart(t, report)))

	for _, want := range []string{
		`viewBox="0 0 600 600"`,
		`class="failures"`,
		`<g transform="translate(300,312`,
		`<title>jobA (3)</title>`,
		`<title>Login&lt;Suite&gt;</title>`,
		`stroke: #fff`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
	if got := strings.Count(svg, "<path "); got != 4 {
		t.Errorf("RenderSVG() drew %d paths, want 4 (root hidden)", got)
	}
	if strings.Contains(svg, "<title>Failures</title>") {
		t.Error("RenderSVG() drew the hidden root")
	}
	if strings.Contains(svg, "data-tooltip") {
		t.Error("data-tooltip should only appear with WithTooltipData")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	c := chart(t, report)

	svg := string(RenderSVG(c, WithoutTitles(), WithTooltipData(), WithLabels(), WithoutStyle()))
	if strings.Contains(svg, "<title>") {
		t.Error("WithoutTitles() still rendered titles")
	}
	if strings.Contains(svg, "<style>") {
		t.Error("WithoutStyle() still rendered a stylesheet")
	}
	if !strings.Contains(svg, `data-tooltip="jobB (1)"`) {
		t.Error("WithTooltipData() missing attribute")
	}
	if !strings.Contains(svg, `class="label"`) {
		t.Error("WithLabels() drew no labels")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(chart(t, `{}`)))
	if !strings.Contains(svg, NoDataText) {
		t.Error("empty chart should say No data")
	}
	if strings.Contains(svg, "<path") {
		t.Error("empty chart drew paths")
	}
}

func TestRenderHTML(t *testing.T) {
	page := string(RenderHTML(chart(t, report), WithRefresh(30), WithFrameID("f-1"), WithHeadline("CI <main>")))

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<meta http-equiv="refresh" content="30">`,
		`<meta name="frame" content="f-1">`,
		"<h1>CI &lt;main&gt;</h1>",
		DefaultDescription,
		`<div class="tooltip"></div>`,
		`data-tooltip="jobA (3)"`,
		"ev.pageY + 20",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("RenderHTML() missing %q", want)
		}
	}
	if strings.Count(page, `class="tooltip"`) != 1 {
		t.Error("page should contain exactly one tooltip element")
	}
}

func TestRenderHTMLLive(t *testing.T) {
	page := string(RenderHTML(chart(t, report), WithRefresh(30), WithFrameID("f-1"), WithLive("/live")))

	if strings.Contains(page, `http-equiv="refresh"`) {
		t.Error("live page should not carry a meta refresh")
	}
	for _, want := range []string{`location.host + "/live"`, "var fallback = 30;", `<meta name="frame" content="f-1">`} {
		if !strings.Contains(page, want) {
			t.Errorf("RenderHTML() missing %q", want)
		}
	}
	if strings.Contains(string(RenderHTML(chart(t, report))), "WebSocket") {
		t.Error("static page should not open a socket")
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(chart(t, report), WithJSONFrameID("abc"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out struct {
		Frame    string `json:"frame"`
		Size     float64
		Total    float64
		Segments []struct {
			Name    string
			Color   string
			Tooltip string
			Path    string
		}
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if out.Frame != "abc" || out.Size != 600 || out.Total != 4 {
		t.Errorf("header = %q/%v/%v", out.Frame, out.Size, out.Total)
	}
	if len(out.Segments) != 4 {
		t.Fatalf("got %d segments, want 4", len(out.Segments))
	}
	if s := out.Segments[0]; s.Name != "jobA" || s.Path == "" || s.Color == "" {
		t.Errorf("first segment = %+v", s)
	}

	all, _ := RenderJSON(chart(t, report), WithJSONHidden())
	if !strings.Contains(string(all), `"name": "Failures"`) {
		t.Error("WithJSONHidden() should keep the root")
	}
}
