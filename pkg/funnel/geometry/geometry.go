// Package geometry computes the global dimensions of a funnel: its absolute
// top and bottom widths, the slant angle of its outer edges, the height of
// each segment, and where the funnel block sits inside its container.
//
// All functions are pure. A [Params] value is derived in one step by
// [Compute] and never mutated afterwards; a container resize produces a new
// Params rather than patching the old one.
package geometry

import "math"

// Align selects the horizontal origin policy.
type Align uint8

const (
	// AlignCenter centres the funnel's top edge in the container.
	AlignCenter Align = iota
	// AlignLeft places the funnel's top-left corner at x = 0.
	AlignLeft
)

// String returns the flag spelling of a.
func (a Align) String() string {
	if a == AlignLeft {
		return "left"
	}
	return "center"
}

// ParseAlign maps "center" and "left" to their Align values.
func ParseAlign(s string) (Align, bool) {
	switch s {
	case "", "center", "centre":
		return AlignCenter, true
	case "left":
		return AlignLeft, true
	}
	return AlignCenter, false
}

// Fractions are the container-relative sizes of a funnel.
type Fractions struct {
	WidthTop    float64 // top width as a fraction of container width
	WidthBottom float64 // bottom width as a fraction of container width
	Height      float64 // funnel height as a fraction of container height
}

// Params holds every absolute quantity derived from a container size.
type Params struct {
	ContainerWidth  float64
	ContainerHeight float64

	WidthTop      float64
	WidthBottom   float64
	FunnelHeight  float64
	SegmentHeight float64
	Segments      int

	// Angle is the signed slant of the outer edges in radians: positive when
	// the funnel narrows downward, negative when it widens.
	Angle float64
	// Tan caches math.Tan(Angle).
	Tan float64

	OriginX float64
	OriginY float64
}

// Compute derives Params for a container of the given size.
// segments is the number of equal-height bands the funnel is divided into.
func Compute(f Fractions, width, height float64, segments int, align Align) Params {
	p := Params{
		ContainerWidth:  width,
		ContainerHeight: height,
		WidthTop:        width * f.WidthTop,
		WidthBottom:     width * f.WidthBottom,
		FunnelHeight:    height * f.Height,
		Segments:        max(segments, 0),
	}

	if p.FunnelHeight > 0 {
		p.Angle = math.Atan((p.WidthTop - p.WidthBottom) / (2 * p.FunnelHeight))
		p.Tan = math.Tan(p.Angle)
	}
	if p.Segments > 0 {
		p.SegmentHeight = p.FunnelHeight / float64(p.Segments)
	}

	if align == AlignCenter {
		p.OriginX = (width - p.WidthTop) / 2
	}
	p.OriginY = (height - p.FunnelHeight) / 2
	return p
}

// WidthAt returns the funnel width at a vertical offset from its top edge.
// The two endpoints are returned exactly so that rounding in Tan never
// leaks into the configured top and bottom widths.
func (p Params) WidthAt(y float64) float64 {
	switch y {
	case 0:
		return p.WidthTop
	case p.FunnelHeight:
		return p.WidthBottom
	}
	return p.WidthTop - 2*y*p.Tan
}

// XOffsetAt returns how far the funnel's left edge is inset from OriginX at
// a vertical offset from the top.
func (p Params) XOffsetAt(y float64) float64 {
	return y * p.Tan
}

// SegmentTop returns the offset from the funnel top of segment i's top edge.
func (p Params) SegmentTop(i int) float64 {
	if i >= p.Segments {
		return p.FunnelHeight
	}
	return float64(i) * p.SegmentHeight
}
