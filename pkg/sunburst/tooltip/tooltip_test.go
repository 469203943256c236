package tooltip

import (
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/sunburst/pkg/hierarchy"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"LoginTest", 3, "LoginTest (3)"},
		{"jobA", 0, "jobA"},
		{"bigJob", 1250000, "bigJob (1250000)"},
		{"", 2, " (2)"},
	}
	for _, tt := range tests {
		if got := Text(hierarchy.New(tt.name, tt.value)); got != tt.want {
			t.Errorf("Text(%s, %v) = %q, want %q", tt.name, tt.value, got, tt.want)
		}
	}
}

func TestPlace(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want Placement
	}{
		{"left half", Event{PageX: 100, PageY: 50, ViewportWidth: 1000}, Placement{Top: 70, Edge: EdgeLeft, Offset: 110}},
		{"right half", Event{PageX: 800, PageY: 50, ViewportWidth: 1000}, Placement{Top: 70, Edge: EdgeRight, Offset: 210}},
		{"exact center anchors right", Event{PageX: 500, PageY: 0, ViewportWidth: 1000}, Placement{Top: 20, Edge: EdgeRight, Offset: 510}},
		{"far right edge", Event{PageX: 1000, PageY: 5, ViewportWidth: 1000}, Placement{Top: 25, Edge: EdgeRight, Offset: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Place(tt.ev); got != tt.want {
				t.Errorf("Place() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAttachSharesOneOverlay(t *testing.T) {
	o := NewOverlay()
	var a, b Handlers
	Attach(&a, hierarchy.New("LoginTest", 3), o)
	Attach(&b, hierarchy.New("jobA", 0), o)

	if o.State().Visible {
		t.Fatal("overlay should start hidden")
	}

	a.Enter(Event{PageX: 10, PageY: 10, ViewportWidth: 600})
	s := o.State()
	if !s.Visible || s.Text != "LoginTest (3)" || s.Placement.Edge != EdgeLeft {
		t.Errorf("after enter a: %+v", s)
	}

	a.Leave()
	if o.State().Visible {
		t.Error("leave should hide the overlay")
	}
	if o.State().Text != "LoginTest (3)" {
		t.Error("leave should keep the last text")
	}

	b.Enter(Event{PageX: 590, PageY: 10, ViewportWidth: 600})
	s = o.State()
	if !s.Visible || s.Text != "jobA" || s.Placement.Edge != EdgeRight || s.Placement.Offset != 20 {
		t.Errorf("after enter b: %+v", s)
	}
}

func TestOverlayWatch(t *testing.T) {
	o := NewOverlay()
	var seen []string
	o.Watch(func(s State) { seen = append(seen, fmt.Sprintf("%v:%s", s.Visible, s.Text)) })

	o.Show("x", Event{ViewportWidth: 10})
	o.Hide()

	if got := strings.Join(seen, ","); got != "true:x,false:x" {
		t.Errorf("watch saw %s", got)
	}
}

func TestScript(t *testing.T) {
	js := Script()
	for _, want := range []string{"'.tooltip'", "ev.pageY + 20", "ev.pageX + 10", "width - ev.pageX + 10", "data-tooltip"} {
		if !strings.Contains(js, want) {
			t.Errorf("Script() missing %q", want)
		}
	}
}
