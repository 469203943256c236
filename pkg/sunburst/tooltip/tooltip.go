// Package tooltip implements the hover behavior of sunburst segments.
//
// There is exactly one [Overlay] per process. The host creates it once and
// passes it to [Attach] for every segment; segments never own a tooltip of
// their own. Attach registers two handlers on a host-provided [Segment]:
// entering shows the overlay with the node's text next to the pointer,
// leaving hides it.
//
// Placement keeps the overlay inside the viewport. It always sits
// [OffsetY] pixels below the pointer. When the pointer is in the left half
// of the viewport the overlay's left edge is anchored [OffsetX] pixels right
// of the pointer; otherwise its right edge is anchored OffsetX pixels left
// of the pointer, measured from the viewport's right edge.
package tooltip

import (
	"strconv"
	"sync"

	"github.com/matzehuels/sunburst/pkg/hierarchy"
)

const (
	// OffsetY is the distance between pointer and overlay top.
	OffsetY = 20.0
	// OffsetX is the horizontal gap between pointer and anchored edge.
	OffsetX = 10.0
)

// Text returns the hover text for n: its name, followed by its value in
// parentheses when the value is positive.
//
//	{LoginTest 3} -> "LoginTest (3)"
//	{jobA 0}      -> "jobA"
func Text(n *hierarchy.Node) string {
	if n.Value > 0 {
		return n.Name + " (" + strconv.FormatFloat(n.Value, 'f', -1, 64) + ")"
	}
	return n.Name
}

// Event is a pointer position in page coordinates together with the width
// of the viewport it occurred in.
type Event struct {
	PageX         float64
	PageY         float64
	ViewportWidth float64
}

// Edge names the overlay edge that is anchored to the pointer.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
)

func (e Edge) String() string {
	if e == EdgeRight {
		return "right"
	}
	return "left"
}

// Placement is where the overlay goes. Offset is the CSS "left" value when
// Edge is EdgeLeft and the CSS "right" value when Edge is EdgeRight; the
// other side is cleared.
type Placement struct {
	Top    float64 `json:"top"`
	Edge   Edge    `json:"edge"`
	Offset float64 `json:"offset"`
}

// Place computes the overlay placement for ev.
func Place(ev Event) Placement {
	p := Placement{Top: ev.PageY + OffsetY}
	if ev.PageX < ev.ViewportWidth/2 {
		p.Edge = EdgeLeft
		p.Offset = ev.PageX + OffsetX
	} else {
		p.Edge = EdgeRight
		p.Offset = ev.ViewportWidth - ev.PageX + OffsetX
	}
	return p
}

// State is a snapshot of the overlay.
type State struct {
	Visible   bool
	Text      string
	Placement Placement
}

// Overlay is the single shared tooltip. The zero value is a hidden overlay
// ready for use. It is safe for concurrent use.
type Overlay struct {
	mu    sync.Mutex
	state State
	watch []func(State)
}

// NewOverlay creates the process-wide overlay.
func NewOverlay() *Overlay {
	return &Overlay{}
}

// Watch registers fn to be called with the new state after every change.
// Hosts use it to redraw.
func (o *Overlay) Watch(fn func(State)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.watch = append(o.watch, fn)
}

// Show rewrites and repositions the overlay and makes it visible.
func (o *Overlay) Show(text string, ev Event) {
	o.update(func(s *State) {
		*s = State{Visible: true, Text: text, Placement: Place(ev)}
	})
}

// Hide makes the overlay invisible. Text and placement are kept.
func (o *Overlay) Hide() {
	o.update(func(s *State) { s.Visible = false })
}

// State returns the current overlay state.
func (o *Overlay) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Overlay) update(fn func(*State)) {
	o.mu.Lock()
	fn(&o.state)
	s := o.state
	watch := o.watch
	o.mu.Unlock()
	for _, w := range watch {
		w(s)
	}
}

// Segment is a rendered shape that can report pointer events. The host
// implements it and invokes the registered handlers from its event loop.
type Segment interface {
	OnPointerEnter(func(Event))
	OnPointerLeave(func())
}

// Attach wires seg to o. The text is computed once from n.
func Attach(seg Segment, n *hierarchy.Node, o *Overlay) {
	text := Text(n)
	seg.OnPointerEnter(func(ev Event) { o.Show(text, ev) })
	seg.OnPointerLeave(o.Hide)
}

// Handlers is a ready-made [Segment] that stores its handlers and lets the
// host fire them with Enter and Leave.
type Handlers struct {
	enter []func(Event)
	leave []func()
}

func (h *Handlers) OnPointerEnter(fn func(Event)) { h.enter = append(h.enter, fn) }
func (h *Handlers) OnPointerLeave(fn func())      { h.leave = append(h.leave, fn) }

// Enter fires the pointer-enter handlers.
func (h *Handlers) Enter(ev Event) {
	for _, fn := range h.enter {
		fn(ev)
	}
}

// Leave fires the pointer-leave handlers.
func (h *Handlers) Leave() {
	for _, fn := range h.leave {
		fn()
	}
}

var _ Segment = (*Handlers)(nil)
