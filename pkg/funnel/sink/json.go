package sink

import (
	"encoding/json"

	"github.com/matzehuels/funnel/pkg/funnel/layout"
	"github.com/matzehuels/funnel/pkg/funnel/shape"
)

// JSONOption configures RenderJSON.
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	commands bool
}

// WithJSONCommands appends the recorded draw commands to the output.
func WithJSONCommands() JSONOption { return func(r *jsonRenderer) { r.commands = true } }

type jsonOutput struct {
	Params        jsonParams      `json:"params"`
	Primitives    []jsonPrimitive `json:"primitives"`
	Misconfigured []int           `json:"misconfigured,omitempty"`
	Commands      []Command       `json:"commands,omitempty"`
}

type jsonParams struct {
	ContainerWidth  float64 `json:"container_width"`
	ContainerHeight float64 `json:"container_height"`
	WidthTop        float64 `json:"width_top"`
	WidthBottom     float64 `json:"width_bottom"`
	FunnelHeight    float64 `json:"funnel_height"`
	SegmentHeight   float64 `json:"segment_height"`
	Segments        int     `json:"segments"`
	Angle           float64 `json:"angle"`
	OriginX         float64 `json:"origin_x"`
	OriginY         float64 `json:"origin_y"`
}

type jsonPrimitive struct {
	Kind   string          `json:"kind"`
	Shapes []jsonTrapezoid `json:"shapes"`
}

type jsonTrapezoid struct {
	X            float64     `json:"x"`
	Y            float64     `json:"y"`
	Width        float64     `json:"width"`
	Height       float64     `json:"height"`
	XL           float64     `json:"xl"`
	XR           float64     `json:"xr"`
	LeftAngle    float64     `json:"left_angle"`
	RightAngle   float64     `json:"right_angle"`
	Fill         string      `json:"fill"`
	Label        string      `json:"label,omitempty"`
	SegmentLabel string      `json:"segment_label,omitempty"`
	Value        float64     `json:"value"`
	Anchor       shape.Point `json:"anchor"`
}

// RenderJSON exports the geometry of l as a pretty-printed JSON document.
func RenderJSON(l *layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	p := l.Params
	out := jsonOutput{
		Params: jsonParams{
			ContainerWidth:  p.ContainerWidth,
			ContainerHeight: p.ContainerHeight,
			WidthTop:        p.WidthTop,
			WidthBottom:     p.WidthBottom,
			FunnelHeight:    p.FunnelHeight,
			SegmentHeight:   p.SegmentHeight,
			Segments:        p.Segments,
			Angle:           p.Angle,
			OriginX:         p.OriginX,
			OriginY:         p.OriginY,
		},
		Primitives:    make([]jsonPrimitive, 0, len(l.Primitives)),
		Misconfigured: l.Misconfigured,
	}
	for _, prim := range l.Primitives {
		jp := jsonPrimitive{Kind: prim.Kind.String()}
		for _, t := range prim.Shapes() {
			jp.Shapes = append(jp.Shapes, jsonTrapezoid{
				X:            t.X,
				Y:            t.Y,
				Width:        t.Width,
				Height:       t.Height,
				XL:           t.XL(),
				XR:           t.XR(),
				LeftAngle:    t.LeftAngle(),
				RightAngle:   t.RightAngle(),
				Fill:         t.Style.Fill,
				Label:        t.Label,
				SegmentLabel: t.SegmentLabel,
				Value:        t.Value,
				Anchor:       t.TooltipAnchor(),
			})
		}
		out.Primitives = append(out.Primitives, jp)
	}
	if r.commands {
		out.Commands = Record(l).Commands
	}

	return json.MarshalIndent(out, "", "  ")
}
