package funnel

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel/hit"
	"github.com/matzehuels/funnel/pkg/funnel/layout"
	"github.com/matzehuels/funnel/pkg/funnel/shape"
)

var sample = []layout.Segment{
	{Value: 100, Label: "Visits", Color: "#1f77b4"},
	{Value: 40, Label: "Carts", Sections: []layout.Section{
		{Value: 1, Label: "web", Color: "#ff7f0e"},
		{Value: 1, Label: "app"},
	}},
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"left align", func(c *Config) { c.Align = "left" }, true},
		{"empty align", func(c *Config) { c.Align = "" }, true},
		{"zero bottom", func(c *Config) { c.WidthBottom = 0 }, true},
		{"widening", func(c *Config) { c.WidthTop, c.WidthBottom = 0.2, 0.9 }, true},
		{"top above one", func(c *Config) { c.WidthTop = 1.5 }, false},
		{"negative bottom", func(c *Config) { c.WidthBottom = -0.1 }, false},
		{"zero height", func(c *Config) { c.Height = 0 }, false},
		{"nan height", func(c *Config) { c.Height = math.NaN() }, false},
		{"negative stroke", func(c *Config) { c.StrokeWidth = -1 }, false},
		{"bad fill", func(c *Config) { c.FillColor = "black" }, false},
		{"empty stroke", func(c *Config) { c.StrokeColor = "" }, false},
		{"bad align", func(c *Config) { c.Align = "right" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("Validate() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestNewRejects(t *testing.T) {
	bad := DefaultConfig()
	bad.Height = 2
	if _, err := New(bad, sample, 400, 300); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("New(bad config) error = %v", err)
	}
	if _, err := New(DefaultConfig(), sample, -1, 300); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("New(negative width) error = %v", err)
	}
	if _, err := New(DefaultConfig(), sample, 400, math.Inf(1)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("New(infinite height) error = %v", err)
	}
	badData := []layout.Segment{{Value: 1, Sections: []layout.Section{{Value: 1, Color: "nope"}}}}
	if _, err := New(DefaultConfig(), badData, 400, 300); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("New(bad section colour) error = %v", err)
	}
}

func TestNewLaysOut(t *testing.T) {
	c, err := New(DefaultConfig(), sample, 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	p := c.Params()
	if p.WidthTop != 300 || p.WidthBottom != 80 || p.OriginX != 50 || p.OriginY != 15 {
		t.Errorf("Params() = %+v", p)
	}
	if got := len(c.Layout().Primitives); got != 2 {
		t.Fatalf("primitives = %d, want 2", got)
	}
	leaf := c.Layout().Primitives[0].Leaf
	if leaf.Style.Fill != "#1f77b4" || leaf.Style.Stroke != "#FFFFFF" || leaf.Style.LabelColor != "#666666" {
		t.Errorf("leaf style = %+v", leaf.Style)
	}
	app := c.Layout().Primitives[1].Group[1]
	if app.Style.Fill != "#000000" {
		t.Errorf("section without colour should use the config fill, got %q", app.Style.Fill)
	}
	if w, h := c.Size(); w != 400 || h != 300 {
		t.Errorf("Size() = %v, %v", w, h)
	}
}

func TestNewMisconfiguredWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	data := []layout.Segment{{Value: 1, Sections: []layout.Section{{Value: 0}, {Value: 0}}}}
	c, err := New(DefaultConfig(), data, 400, 300, WithLogger(logger))
	if err != nil {
		t.Fatalf("New() error = %v, want a warning only", err)
	}
	if got := c.Layout().Misconfigured; len(got) != 1 || got[0] != 0 {
		t.Errorf("Misconfigured = %v, want [0]", got)
	}
	if !strings.Contains(buf.String(), "WARN") {
		t.Errorf("expected a warning in the log, got %q", buf.String())
	}
}

func TestResizeKeepsIdentity(t *testing.T) {
	c, err := New(DefaultConfig(), sample, 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	before := c.Layout().Shapes()

	if err := c.Resize(800, 600); err != nil {
		t.Fatal(err)
	}
	after := c.Layout().Shapes()
	if len(before) != len(after) {
		t.Fatalf("shape count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("shape %d was reallocated by Resize", i)
		}
	}
	if c.Params().WidthTop != 600 {
		t.Errorf("WidthTop after resize = %v, want 600", c.Params().WidthTop)
	}
	if err := c.Resize(-5, 10); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Resize(-5, 10) error = %v", err)
	}
	if w, _ := c.Size(); w != 800 {
		t.Errorf("failed resize changed width to %v", w)
	}
}

func TestSetDataRebuilds(t *testing.T) {
	c, err := New(DefaultConfig(), sample, 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	old := c.Layout().Primitives[0].Leaf

	if err := c.SetData([]layout.Segment{{Value: 1}, {Value: 2}, {Value: 3}}); err != nil {
		t.Fatal(err)
	}
	if got := len(c.Layout().Primitives); got != 3 {
		t.Fatalf("primitives = %d, want 3", got)
	}
	if c.Layout().Primitives[0].Leaf == old {
		t.Error("SetData should create new trapezoids")
	}
	if c.Params().SegmentHeight != 90 {
		t.Errorf("SegmentHeight = %v, want 90", c.Params().SegmentHeight)
	}

	a := c.Layout().Primitives[2].Leaf.TooltipAnchor()
	if hits := c.Hits(hit.Event{X: a.X, Y: a.Y}); len(hits) != 1 {
		t.Errorf("router still points at the old layout: %v", hits)
	}
}

func TestHandleEventTooltip(t *testing.T) {
	var shown []hit.Item
	c, err := New(DefaultConfig(), sample, 400, 300,
		WithTooltip(hit.TooltipFunc(func(items []hit.Item) { shown = items })))
	if err != nil {
		t.Fatal(err)
	}

	a := c.Layout().Primitives[0].Leaf.TooltipAnchor()
	items := c.HandleEvent(hit.Event{Kind: hit.Click, X: a.X, Y: a.Y})
	if len(items) != 1 || items[0].Label != "Visits" || items[0].Value != 100 {
		t.Fatalf("HandleEvent() = %+v", items)
	}
	if len(shown) != 1 {
		t.Errorf("tooltip saw %+v", shown)
	}

	c.HandleEvent(hit.Event{Kind: hit.Leave})
	if len(shown) != 0 {
		t.Errorf("tooltip after leave = %+v, want empty", shown)
	}
}

type countingSurface struct{ quads, texts int }

func (s *countingSurface) Quad([4]shape.Point, shape.Paint)  { s.quads++ }
func (s *countingSurface) Text(string, shape.Point, string) { s.texts++ }

func TestDraw(t *testing.T) {
	c, err := New(DefaultConfig(), sample, 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	var s countingSurface
	c.Draw(&s)
	if s.quads != 3 || s.texts != 2 {
		t.Errorf("Draw() quads=%d texts=%d, want 3 and 2", s.quads, s.texts)
	}
}

func TestZeroSizeAndEmptyData(t *testing.T) {
	c, err := New(DefaultConfig(), nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	var s countingSurface
	c.Draw(&s)
	if s.quads != 0 {
		t.Error("empty chart should draw nothing")
	}
	if items := c.HandleEvent(hit.Event{}); len(items) != 0 {
		t.Errorf("empty chart hits = %+v", items)
	}
}
