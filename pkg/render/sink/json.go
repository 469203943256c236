package sink

import (
	"encoding/json"

	"github.com/matzehuels/sunburst/pkg/sunburst"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	frameID string
	hidden  bool
}

// WithJSONFrameID records the board frame id in the output.
func WithJSONFrameID(id string) JSONOption { return func(r *jsonRenderer) { r.frameID = id } }

// WithJSONHidden keeps hidden and zero-width segments in the output.
func WithJSONHidden() JSONOption { return func(r *jsonRenderer) { r.hidden = true } }

type jsonOutput struct {
	Frame    string        `json:"frame,omitempty"`
	Size     float64       `json:"size"`
	CenterX  float64       `json:"center_x"`
	CenterY  float64       `json:"center_y"`
	Scale    string        `json:"scale"`
	Total    float64       `json:"total"`
	Segments []jsonSegment `json:"segments"`
}

type jsonSegment struct {
	Name        string  `json:"name"`
	Depth       int     `json:"depth"`
	Value       float64 `json:"value"`
	Sum         float64 `json:"sum"`
	StartAngle  float64 `json:"start_angle"`
	EndAngle    float64 `json:"end_angle"`
	InnerRadius float64 `json:"inner_radius"`
	OuterRadius float64 `json:"outer_radius"`
	Color       string  `json:"color"`
	Tooltip     string  `json:"tooltip"`
	Path        string  `json:"path,omitempty"`
	Hidden      bool    `json:"hidden,omitempty"`
}

// RenderJSON exports the chart geometry as a pretty-printed JSON document:
// one entry per segment with its arc, color, tooltip text and SVG path, in
// chart order. External renderers can draw from it without reimplementing
// the layout.
func RenderJSON(c *sunburst.Chart, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	cx, cy := c.Surface.Center()
	out := jsonOutput{
		Frame:    r.frameID,
		Size:     c.Surface.Size,
		CenterX:  cx,
		CenterY:  cy,
		Scale:    c.Scale,
		Total:    c.Total,
		Segments: make([]jsonSegment, 0, len(c.Segments)),
	}
	for _, s := range c.Segments {
		if !r.hidden && !s.Drawable() {
			continue
		}
		out.Segments = append(out.Segments, jsonSegment{
			Name:        s.Name,
			Depth:       s.Depth,
			Value:       s.Value,
			Sum:         s.Sum,
			StartAngle:  s.Arc.StartAngle,
			EndAngle:    s.Arc.EndAngle,
			InnerRadius: s.Arc.InnerRadius,
			OuterRadius: s.Arc.OuterRadius,
			Color:       s.Color,
			Tooltip:     s.Tooltip,
			Path:        s.Arc.Path(),
			Hidden:      s.Hidden,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
