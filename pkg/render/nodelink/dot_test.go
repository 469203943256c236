package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/sunburst/pkg/failures"
	"github.com/matzehuels/sunburst/pkg/sunburst"
)

func chart(t *testing.T) *sunburst.Chart {
	t.Helper()
	tree, err := failures.Parse([]byte(`{
	  "jobA": {"failedCount": 3, "testsuites": [
	    {"name": "LoginSuite", "children": [{"name": "LoginTest", "failedCount": 3}]}
	  ]},
	  "jobB": {"failedCount": 1}
	}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	c, err := sunburst.BuildReport(tree, sunburst.Options{})
	if err != nil {
		t.Fatalf("BuildReport() error: %v", err)
	}
	return c
}

func TestToDOT(t *testing.T) {
	c := chart(t)
	dot := ToDOT(c, Options{})

	for _, want := range []string{
		"digraph G {",
		`"n1" [label="jobA (3)"`,
		`"n1" -> "n2";`,
		`"n2" -> "n3";`,
		`fillcolor="` + c.Segments[1].Color + `"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"n0"`) {
		t.Error("ToDOT() should drop the hidden root by default")
	}
}

func TestToDOTShowRoot(t *testing.T) {
	dot := ToDOT(chart(t), Options{ShowRoot: true, Detailed: true})
	for _, want := range []string{`"n0" -> "n1";`, `"n0" -> "n4";`, `sum: 4`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q", want)
		}
	}
}

func TestEdges(t *testing.T) {
	got := edges(chart(t))
	want := [][2]int{{0, 1}, {1, 2}, {2, 3}, {0, 4}}
	if len(got) != len(want) {
		t.Fatalf("edges() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("normalizeViewBox() changed svg without viewBox")
	}
}
