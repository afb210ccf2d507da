package shape

// Point is a position in container coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Paint carries the colours used for one quadrilateral.
type Paint struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
}

// Surface is an immediate-mode 2D drawing target.
type Surface interface {
	// Quad fills and then strokes the closed quadrilateral pts.
	Quad(pts [4]Point, paint Paint)
	// Text draws s with its left edge at at.X, vertically centred on at.Y.
	Text(s string, at Point, color string)
}

// Shape is the capability set shared by every funnel primitive.
type Shape interface {
	Draw(s Surface)
	Contains(px, py float64) bool
	TooltipAnchor() Point
}

// Style is the per-primitive appearance. It is passed by value into every
// constructor; there is no shared mutable style.
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	LabelColor  string
}

// WithFill returns a copy of s with its fill replaced when fill is non-empty.
func (s Style) WithFill(fill string) Style {
	if fill != "" {
		s.Fill = fill
	}
	return s
}
