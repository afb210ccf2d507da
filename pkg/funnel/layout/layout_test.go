package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel/geometry"
	"github.com/matzehuels/funnel/pkg/funnel/shape"
)

const tol = 1e-9

var (
	testFractions = geometry.Fractions{WidthTop: 0.75, WidthBottom: 0.2, Height: 0.9}
	testStyle     = shape.Style{Fill: "#000000", Stroke: "#ffffff", StrokeWidth: 1, LabelColor: "#666666"}
)

func params(w, h float64, n int) geometry.Params {
	return geometry.Compute(testFractions, w, h, n, geometry.AlignCenter)
}

func build(t *testing.T, segs []Segment, w, h float64) *Layout {
	t.Helper()
	l, err := Build(segs, params(w, h, len(segs)), testStyle)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return l
}

func near(a, b float64) bool { return math.Abs(a-b) <= tol }

func TestBuildEmpty(t *testing.T) {
	l := build(t, nil, 400, 300)
	if len(l.Primitives) != 0 {
		t.Errorf("Primitives = %d, want 0", len(l.Primitives))
	}

	var s recorder
	l.Draw(&s)
	if len(s.quads) != 0 {
		t.Error("drawing an empty layout should be a no-op")
	}
}

func TestBuildParamsMismatch(t *testing.T) {
	_, err := Build([]Segment{{Value: 1}}, params(400, 300, 3), testStyle)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Build() error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestBuildTwoLeavesScenario(t *testing.T) {
	l := build(t, []Segment{
		{Value: 10, Color: "#ff0000", Label: "Visits"},
		{Value: 5, Color: "#00ff00", Label: "Orders"},
	}, 400, 300)

	if len(l.Primitives) != 2 {
		t.Fatalf("Primitives = %d, want 2", len(l.Primitives))
	}
	for i, p := range l.Primitives {
		if p.Kind != KindLeaf || p.Leaf == nil {
			t.Fatalf("primitive %d kind = %v, want leaf", i, p.Kind)
		}
	}

	s1, s2 := l.Primitives[0].Leaf, l.Primitives[1].Leaf
	if !near(s1.Y, 15) || !near(s1.Y+s1.Height, 150) {
		t.Errorf("segment 1 spans y=[%v, %v], want [15, 150]", s1.Y, s1.Y+s1.Height)
	}
	if !near(s2.Y, 150) || !near(s2.Y+s2.Height, 285) {
		t.Errorf("segment 2 spans y=[%v, %v], want [150, 285]", s2.Y, s2.Y+s2.Height)
	}
	if !(s1.Width > s2.Width) {
		t.Errorf("widths should narrow: %v then %v", s1.Width, s2.Width)
	}
	if !near(s2.Width, l.Params.WidthBottom) {
		t.Errorf("last segment width = %v, want bottom width %v", s2.Width, l.Params.WidthBottom)
	}
	if s1.Style.Fill != "#ff0000" || s2.Style.Fill != "#00ff00" {
		t.Error("segment colours should become fills")
	}
	if s1.SegmentLabel != "Visits" || s1.Label != "Visits" || s1.Value != 10 {
		t.Errorf("segment 1 label/value = %q %q %v", s1.Label, s1.SegmentLabel, s1.Value)
	}
	if s1.LeftAngle() != l.Params.Angle || s1.RightAngle() != l.Params.Angle {
		t.Error("leaf segments are slanted on both sides")
	}
}

func TestBuildContinuousSilhouette(t *testing.T) {
	segs := make([]Segment, 6)
	for i := range segs {
		segs[i] = Segment{Value: float64(i + 1)}
	}
	l := build(t, segs, 640, 480)
	shapes := l.Shapes()
	for i := 1; i < len(shapes); i++ {
		above, below := shapes[i-1], shapes[i]
		// The bottom-left corner of one row is the top-left corner of the next.
		if !near(above.X+above.XL(), below.X) {
			t.Errorf("row %d: left edge jumps from %v to %v", i, above.X+above.XL(), below.X)
		}
		if !near(above.X+above.XL()+above.Width, below.X+below.TopWidth()) {
			t.Errorf("row %d: right edge jumps", i)
		}
	}
}

func TestBuildHeightsSum(t *testing.T) {
	for n := 1; n <= 12; n++ {
		segs := make([]Segment, n)
		l := build(t, segs, 500, 700)
		var sum float64
		for _, s := range l.Shapes() {
			sum += s.Height
		}
		if !near(sum, l.Params.FunnelHeight) {
			t.Errorf("n=%d: heights sum to %v, want %v", n, sum, l.Params.FunnelHeight)
		}
	}
}

func TestBuildSections(t *testing.T) {
	l := build(t, []Segment{{
		Value: 4,
		Label: "Channels",
		Sections: []Section{
			{Value: 1, Color: "#111111", Label: "a"},
			{Value: 1, Color: "#222222", Label: "b"},
			{Value: 2, Color: "#333333", Label: "c"},
		},
	}}, 400, 300)

	prim := l.Primitives[0]
	if prim.Kind != KindGroup || len(prim.Group) != 3 {
		t.Fatalf("primitive = %+v, want group of 3", prim)
	}
	a, b, c := prim.Group[0], prim.Group[1], prim.Group[2]

	if !near(a.Width, b.Width) || !near(c.Width, 2*a.Width) {
		t.Errorf("widths %v:%v:%v, want ratio 1:1:2", a.Width, b.Width, c.Width)
	}

	p := l.Params
	if a.LeftAngle() != p.Angle || a.RightAngle() != 0 {
		t.Error("first section: slanted left, vertical right")
	}
	if b.LeftAngle() != 0 || b.RightAngle() != 0 {
		t.Error("inner section: vertical on both sides")
	}
	if c.LeftAngle() != 0 || c.RightAngle() != p.Angle {
		t.Error("last section: vertical left, slanted right")
	}

	// The second section starts where the first one's slanted edge ends.
	if !near(b.X, a.X+a.XL()+a.Width) {
		t.Errorf("second section x = %v, want %v", b.X, a.X+a.XL()+a.Width)
	}
	if !near(c.X, b.X+b.Width) {
		t.Errorf("third section x = %v, want %v", c.X, b.X+b.Width)
	}

	if c.SegmentLabel != "Channels" || a.SegmentLabel != "" || b.SegmentLabel != "" {
		t.Error("segment label belongs to the last section only")
	}
	if a.Label != "a" || a.Style.Fill != "#111111" || a.Value != 1 {
		t.Errorf("section a = %+v", a)
	}
}

func TestBuildSectionsReconstructSegment(t *testing.T) {
	segs := []Segment{
		{Value: 1},
		{Value: 1, Sections: []Section{{Value: 3}, {Value: 5}, {Value: 0.5}, {Value: 7}}},
		{Value: 1, Sections: []Section{{Value: 2}}},
	}
	l := build(t, segs, 800, 600)

	for i, prim := range l.Primitives {
		if prim.Kind != KindGroup {
			continue
		}
		p := l.Params
		bottomWidth := p.WidthAt(p.SegmentTop(i + 1))

		var sum float64
		for _, s := range prim.Group {
			sum += s.Width
		}
		if !near(sum, bottomWidth) {
			t.Errorf("segment %d: section widths sum to %v, want %v", i, sum, bottomWidth)
		}

		first, last := prim.Group[0], prim.Group[len(prim.Group)-1]
		extent := last.X + last.XL() + last.Width - first.X
		if !near(extent, bottomWidth+p.SegmentHeight*p.Tan) {
			t.Errorf("segment %d: bottom extent %v, want width + compensation %v", i, extent, bottomWidth+p.SegmentHeight*p.Tan)
		}
		if !near(first.X, p.OriginX+p.XOffsetAt(p.SegmentTop(i))) {
			t.Errorf("segment %d: first section x = %v", i, first.X)
		}
	}
}

func TestBuildSectionsMatchLeafOutline(t *testing.T) {
	leaf := build(t, []Segment{{Value: 1}}, 400, 300).Primitives[0].Leaf
	group := build(t, []Segment{{Value: 1, Sections: []Section{{Value: 1}, {Value: 2}, {Value: 3}}}}, 400, 300).Primitives[0].Group

	first, last := group[0], group[len(group)-1]
	if !near(first.X, leaf.X) {
		t.Errorf("top-left %v, want %v", first.X, leaf.X)
	}
	if !near(last.X+last.TopWidth(), leaf.X+leaf.TopWidth()) {
		t.Errorf("top-right %v, want %v", last.X+last.TopWidth(), leaf.X+leaf.TopWidth())
	}
	if !near(last.X+last.XL()+last.Width, leaf.X+leaf.XL()+leaf.Width) {
		t.Error("bottom-right corner differs from the leaf outline")
	}
}

func TestBuildWideningFunnel(t *testing.T) {
	p := geometry.Compute(geometry.Fractions{WidthTop: 0.2, WidthBottom: 0.8, Height: 1}, 500, 400, 2, geometry.AlignCenter)
	l, err := Build([]Segment{
		{Value: 1},
		{Value: 1, Sections: []Section{{Value: 1}, {Value: 1}}},
	}, p, testStyle)
	if err != nil {
		t.Fatal(err)
	}
	if p.Angle >= 0 {
		t.Fatalf("Angle = %v, want negative", p.Angle)
	}

	leaf := l.Primitives[0].Leaf
	if !near(leaf.TopWidth(), p.WidthTop) {
		t.Errorf("top width = %v, want %v", leaf.TopWidth(), p.WidthTop)
	}
	if !(leaf.Width > leaf.TopWidth()) {
		t.Error("a widening segment has a longer bottom edge")
	}

	a, b := l.Primitives[1].Group[0], l.Primitives[1].Group[1]
	if !near(b.X, a.X+a.XL()+a.Width) {
		t.Errorf("sections overlap or gap: second x = %v, want %v", b.X, a.X+a.XL()+a.Width)
	}
	if !near(b.X+b.XL()+b.Width-(a.X+a.XL()), p.WidthBottom) {
		t.Error("bottom row should span the bottom width")
	}
}

func TestBuildMisconfiguredSections(t *testing.T) {
	segs := []Segment{
		{Value: 1},
		{Value: 1, Sections: []Section{{Value: 0}, {Value: 0}}},
	}
	l, err := Build(segs, params(400, 300, 2), testStyle)
	if !errors.Is(err, errors.ErrCodeSegmentMisconfigured) {
		t.Fatalf("Build() error = %v, want %s", err, errors.ErrCodeSegmentMisconfigured)
	}
	if l == nil || len(l.Primitives) != 2 {
		t.Fatal("layout should still be returned")
	}
	if len(l.Misconfigured) != 1 || l.Misconfigured[0] != 1 {
		t.Errorf("Misconfigured = %v, want [1]", l.Misconfigured)
	}
	for _, s := range l.Primitives[1].Group {
		if s.Width != 0 || math.IsNaN(s.X) || math.IsInf(s.X, 0) {
			t.Errorf("misconfigured section = %+v, want zero width with finite position", s)
		}
	}
}

func TestReflowKeepsIdentity(t *testing.T) {
	segs := []Segment{
		{Value: 1},
		{Value: 1, Sections: []Section{{Value: 1}, {Value: 3}}},
	}
	l := build(t, segs, 400, 300)
	before := l.Shapes()
	angles := make([][2]float64, len(before))
	for i, s := range before {
		angles[i] = [2]float64{s.LeftAngle(), s.RightAngle()}
	}

	if err := l.Reflow(params(800, 600, 2)); err != nil {
		t.Fatalf("Reflow() error = %v", err)
	}

	after := l.Shapes()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("shape %d was reallocated", i)
		}
		if angles[i] != [2]float64{after[i].LeftAngle(), after[i].RightAngle()} {
			t.Errorf("shape %d angles changed", i)
		}
	}

	fresh := build(t, segs, 800, 600).Shapes()
	for i := range after {
		got, want := after[i], fresh[i]
		if !near(got.X, want.X) || !near(got.Y, want.Y) || !near(got.Width, want.Width) ||
			!near(got.Height, want.Height) || !near(got.XL(), want.XL()) || !near(got.XR(), want.XR()) {
			t.Errorf("shape %d after reflow = %+v, want %+v", i, got, want)
		}
	}
	if l.Params.ContainerWidth != 800 {
		t.Error("layout params should follow the reflow")
	}
}

func TestReflowIdempotent(t *testing.T) {
	segs := []Segment{
		{Value: 1, Sections: []Section{{Value: 2}, {Value: 1}, {Value: 1}}},
		{Value: 1},
		{Value: 1},
	}
	l := build(t, segs, 400, 300)
	p := params(1024, 768, 3)

	if err := l.Reflow(p); err != nil {
		t.Fatal(err)
	}
	snapshot := make([]shape.Trapezoid, 0)
	for _, s := range l.Shapes() {
		snapshot = append(snapshot, *s)
	}

	if err := l.Reflow(p); err != nil {
		t.Fatal(err)
	}
	for i, s := range l.Shapes() {
		if *s != snapshot[i] {
			t.Errorf("shape %d changed on second reflow: %+v vs %+v", i, *s, snapshot[i])
		}
	}
}

func TestReflowSegmentCountMismatch(t *testing.T) {
	l := build(t, []Segment{{Value: 1}, {Value: 2}}, 400, 300)
	before := *l.Primitives[0].Leaf

	err := l.Reflow(params(800, 600, 3))
	if !errors.Is(err, errors.ErrCodeStaleLayout) {
		t.Fatalf("Reflow() error = %v, want %s", err, errors.ErrCodeStaleLayout)
	}
	if *l.Primitives[0].Leaf != before {
		t.Error("a rejected reflow must not touch primitives")
	}
}

func TestReflowToZeroSize(t *testing.T) {
	l := build(t, []Segment{{Value: 1}, {Value: 1, Sections: []Section{{Value: 1}, {Value: 1}}}}, 400, 300)
	if err := l.Reflow(params(0, 0, 2)); err != nil {
		t.Fatal(err)
	}
	for i, s := range l.Shapes() {
		for _, v := range []float64{s.X, s.Y, s.Width, s.Height, s.XL(), s.XR()} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("shape %d has non-finite geometry: %+v", i, s)
			}
		}
	}
}

func TestDrawOrder(t *testing.T) {
	l := build(t, []Segment{
		{Value: 1, Color: "#000001", Label: "first"},
		{Value: 1, Sections: []Section{{Value: 1, Color: "#000002"}, {Value: 1, Color: "#000003"}}, Label: "second"},
		{Value: 1, Color: "#000004"},
	}, 400, 300)

	var s recorder
	l.Draw(&s)

	want := []string{"#000001", "#000002", "#000003", "#000004"}
	if len(s.quads) != len(want) {
		t.Fatalf("got %d quads, want %d", len(s.quads), len(want))
	}
	for i, q := range s.quads {
		if q.Fill != want[i] {
			t.Errorf("quad %d fill = %s, want %s", i, q.Fill, want[i])
		}
	}
	if len(s.texts) != 2 || s.texts[0] != "first" || s.texts[1] != "second" {
		t.Errorf("labels = %v, want [first second]", s.texts)
	}
}

func TestKindString(t *testing.T) {
	if KindLeaf.String() != "leaf" || KindGroup.String() != "group" {
		t.Error("unexpected Kind strings")
	}
}

type recorder struct {
	quads []shape.Paint
	texts []string
}

func (r *recorder) Quad(_ [4]shape.Point, p shape.Paint) { r.quads = append(r.quads, p) }
func (r *recorder) Text(s string, _ shape.Point, _ string) { r.texts = append(r.texts, s) }
