package shape

import "math"

// Trapezoid is the quadrilateral backing one funnel segment or section.
type Trapezoid struct {
	X, Y          float64
	Width, Height float64

	Style        Style
	Label        string  // own label, reported to tooltips
	SegmentLabel string  // owning segment's label, drawn beside the shape; trailing shape only
	Value        float64 // datum value, reported to tooltips

	leftAngle, rightAngle float64
	xl, xr                float64
}

// NewTrapezoid creates a trapezoid and derives its slant runs.
// An angle of 0 gives a vertical edge.
func NewTrapezoid(x, y, width, height, leftAngle, rightAngle float64, style Style, label string) *Trapezoid {
	t := &Trapezoid{
		X: x, Y: y,
		Width: width, Height: height,
		Style:      style,
		Label:      label,
		leftAngle:  leftAngle,
		rightAngle: rightAngle,
	}
	t.derive()
	return t
}

// Props is a partial geometry update. Nil fields keep their current value.
type Props struct {
	X, Y, Width, Height *float64
}

// Rect returns Props that set all four fields.
func Rect(x, y, width, height float64) Props {
	return Props{X: &x, Y: &y, Width: &width, Height: &height}
}

// Update merges p into t and re-derives XL and XR from the current angles
// and the resulting height. It never touches the angles.
func (t *Trapezoid) Update(p Props) {
	if p.X != nil {
		t.X = *p.X
	}
	if p.Y != nil {
		t.Y = *p.Y
	}
	if p.Width != nil {
		t.Width = *p.Width
	}
	if p.Height != nil {
		t.Height = *p.Height
	}
	t.derive()
}

func (t *Trapezoid) derive() {
	t.xl = slantRun(t.Height, t.leftAngle)
	t.xr = slantRun(t.Height, t.rightAngle)
}

// slantRun is the horizontal distance a slanted edge covers over height.
// It is signed: a funnel that widens downward has negative runs, which pull
// the bottom corners outward.
func slantRun(height, angle float64) float64 {
	if angle == 0 {
		return 0
	}
	return height * math.Tan(angle)
}

// LeftAngle returns the slant of the left edge in radians.
func (t *Trapezoid) LeftAngle() float64 { return t.leftAngle }

// RightAngle returns the slant of the right edge in radians.
func (t *Trapezoid) RightAngle() float64 { return t.rightAngle }

// XL returns the horizontal run of the left edge.
func (t *Trapezoid) XL() float64 { return t.xl }

// XR returns the horizontal run of the right edge.
func (t *Trapezoid) XR() float64 { return t.xr }

// TopWidth returns the length of the top edge.
func (t *Trapezoid) TopWidth() float64 { return t.xl + t.xr + t.Width }

// Contains reports whether (px, py) lies in the trapezoid's hit band.
func (t *Trapezoid) Contains(px, py float64) bool {
	left := t.X + t.xl
	return px >= left && px <= left+t.Width &&
		py >= t.Y && py <= t.Y+t.Height
}

// TooltipAnchor returns the point a tooltip should attach to.
func (t *Trapezoid) TooltipAnchor() Point {
	return Point{
		X: t.X + (t.xl+t.xr+t.Width)/2,
		Y: t.Y + t.Height/2,
	}
}

// Vertices returns the corners in drawing order: top-left, bottom-left,
// bottom-right, top-right. The top edge is inset by half the stroke width so
// the stroke of adjacent rows does not overlap.
func (t *Trapezoid) Vertices() [4]Point {
	half := t.Style.StrokeWidth / 2
	top, bottom := t.Y+half, t.Y+t.Height
	return [4]Point{
		{X: t.X, Y: top},
		{X: t.X + t.xl, Y: bottom},
		{X: t.X + t.xl + t.Width, Y: bottom},
		{X: t.X + t.xl + t.xr + t.Width, Y: top},
	}
}

// Draw emits the trapezoid and, if present, the segment label beside its
// top-right corner run.
func (t *Trapezoid) Draw(s Surface) {
	s.Quad(t.Vertices(), Paint{
		Fill:        t.Style.Fill,
		Stroke:      t.Style.Stroke,
		StrokeWidth: t.Style.StrokeWidth,
	})

	if t.SegmentLabel == "" {
		return
	}
	s.Text(t.SegmentLabel, Point{
		X: t.X + t.xl + t.xr + t.Width,
		Y: t.Y + t.Height/2,
	}, t.Style.LabelColor)
}

var _ Shape = (*Trapezoid)(nil)
