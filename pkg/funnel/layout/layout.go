package layout

import (
	"math"

	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel/geometry"
	"github.com/matzehuels/funnel/pkg/funnel/shape"
)

// Segment is one horizontal band of input data.
type Segment struct {
	Value    float64   `json:"value" toml:"value"`
	Color    string    `json:"color,omitempty" toml:"color,omitempty"`
	Label    string    `json:"label,omitempty" toml:"label,omitempty"`
	Sections []Section `json:"sections,omitempty" toml:"sections,omitempty"`
}

// Section is a weighted subdivision of a composite Segment.
type Section struct {
	Value float64 `json:"value" toml:"value"`
	Color string  `json:"color,omitempty" toml:"color,omitempty"`
	Label string  `json:"label,omitempty" toml:"label,omitempty"`
}

// Composite reports whether s is split into sections.
func (s Segment) Composite() bool { return len(s.Sections) > 0 }

// Kind tags the variant held by a Primitive.
type Kind uint8

const (
	KindLeaf Kind = iota
	KindGroup
)

func (k Kind) String() string {
	if k == KindGroup {
		return "group"
	}
	return "leaf"
}

// Primitive is the layout of one segment.
type Primitive struct {
	Kind  Kind
	Leaf  *shape.Trapezoid   // set when Kind == KindLeaf
	Group []*shape.Trapezoid // set when Kind == KindGroup
}

// Shapes returns the trapezoids of p in drawing order.
func (p Primitive) Shapes() []*shape.Trapezoid {
	if p.Kind == KindGroup {
		return p.Group
	}
	return []*shape.Trapezoid{p.Leaf}
}

// Layout is the positioned form of a segment list.
type Layout struct {
	Params     geometry.Params
	Primitives []Primitive
	// Misconfigured lists the indices of composite segments whose section
	// values sum to zero (or are not finite); their sections have zero width.
	Misconfigured []int
}

// Build lays out segments for p, which must have been computed for
// len(segments) segments. Every segment gets a primitive even when
// misconfigured; in that case the returned error has code
// SEGMENT_MISCONFIGURED and the layout is still usable.
func Build(segments []Segment, p geometry.Params, style shape.Style) (*Layout, error) {
	if p.Segments != len(segments) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"params computed for %d segments, got %d", p.Segments, len(segments))
	}

	l := &Layout{
		Params:     p,
		Primitives: make([]Primitive, 0, len(segments)),
	}

	for i, seg := range segments {
		rects, ok := place(p, i, sectionValues(seg))
		if !ok {
			l.Misconfigured = append(l.Misconfigured, i)
		}

		if !seg.Composite() {
			r := rects[0]
			t := shape.NewTrapezoid(r.x, r.y, r.w, r.h, p.Angle, p.Angle, style.WithFill(seg.Color), seg.Label)
			t.SegmentLabel = seg.Label
			t.Value = seg.Value
			l.Primitives = append(l.Primitives, Primitive{Kind: KindLeaf, Leaf: t})
			continue
		}

		last := len(seg.Sections) - 1
		group := make([]*shape.Trapezoid, len(seg.Sections))
		for j, sec := range seg.Sections {
			var left, right float64
			if j == 0 {
				left = p.Angle
			}
			if j == last {
				right = p.Angle
			}
			r := rects[j]
			t := shape.NewTrapezoid(r.x, r.y, r.w, r.h, left, right, style.WithFill(sec.Color), sec.Label)
			t.Value = sec.Value
			if j == last {
				t.SegmentLabel = seg.Label
			}
			group[j] = t
		}
		l.Primitives = append(l.Primitives, Primitive{Kind: KindGroup, Group: group})
	}

	if len(l.Misconfigured) > 0 {
		return l, errors.New(errors.ErrCodeSegmentMisconfigured,
			"segments %v: section values must sum to a positive number", l.Misconfigured)
	}
	return l, nil
}

// Reflow moves and resizes every trapezoid for p without reallocating any.
// p must describe the same number of segments the layout was built with.
func (l *Layout) Reflow(p geometry.Params) error {
	if p.Segments != len(l.Primitives) {
		return errors.New(errors.ErrCodeStaleLayout,
			"reflow for %d segments on a layout of %d; rebuild required", p.Segments, len(l.Primitives))
	}

	for i, prim := range l.Primitives {
		shapes := prim.Shapes()
		values := make([]float64, 0, len(shapes))
		if prim.Kind == KindGroup {
			for _, t := range shapes {
				values = append(values, t.Value)
			}
		}

		rects, _ := place(p, i, values)
		for j, t := range shapes {
			r := rects[j]
			t.Update(shape.Rect(r.x, r.y, r.w, r.h))
		}
	}
	l.Params = p
	return nil
}

// Draw renders every primitive in order. Later entries paint over earlier ones.
func (l *Layout) Draw(s shape.Surface) {
	for _, prim := range l.Primitives {
		switch prim.Kind {
		case KindLeaf:
			prim.Leaf.Draw(s)
		case KindGroup:
			for _, t := range prim.Group {
				t.Draw(s)
			}
		}
	}
}

// Shapes returns all trapezoids in drawing order.
func (l *Layout) Shapes() []*shape.Trapezoid {
	var out []*shape.Trapezoid
	for _, prim := range l.Primitives {
		out = append(out, prim.Shapes()...)
	}
	return out
}

type rect struct{ x, y, w, h float64 }

// place computes the rectangles (top-left anchor, bottom width, height) for
// segment i. values holds the section values of a composite segment and is
// empty for a leaf. ok is false when a composite's values cannot be
// apportioned; its sections are then placed with zero width.
func place(p geometry.Params, i int, values []float64) (rects []rect, ok bool) {
	top := p.SegmentTop(i)
	width := p.WidthAt(p.SegmentTop(i + 1))
	x := p.OriginX + p.XOffsetAt(top)
	y := p.OriginY + top
	h := p.SegmentHeight

	if len(values) == 0 {
		return []rect{{x, y, width, h}}, true
	}

	var total float64
	for _, v := range values {
		total += v
	}
	ok = total > 0 && !math.IsInf(total, 0)

	rects = make([]rect, len(values))
	var cursor float64
	for j, v := range values {
		var w float64
		if ok {
			w = width / total * v
		}
		rects[j] = rect{x + cursor, y, w, h}
		cursor += w
		if j == 0 {
			cursor += h * p.Tan
		}
	}
	return rects, ok
}

func sectionValues(s Segment) []float64 {
	if !s.Composite() {
		return nil
	}
	values := make([]float64, len(s.Sections))
	for i, sec := range s.Sections {
		values[i] = sec.Value
	}
	return values
}
