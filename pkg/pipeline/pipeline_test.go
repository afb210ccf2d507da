package pipeline

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/funnel/pkg/cache"
	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel"
	"github.com/matzehuels/funnel/pkg/funnel/layout"
	fio "github.com/matzehuels/funnel/pkg/io"
)

func testDoc() *fio.Document {
	doc := fio.NewDocument()
	doc.Segments = []layout.Segment{
		{Value: 100, Label: "Visits"},
		{Value: 40, Label: "Carts", Sections: []layout.Section{{Value: 1}, {Value: 2}}},
	}
	return doc
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight || o.Scale != DefaultScale {
		t.Errorf("defaults not applied: %+v", o)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", o.Formats)
	}

	bad := []Options{
		{Width: -1},
		{Scale: -2},
		{Align: "right"},
		{Background: "white"},
		{Formats: []string{"svg", "gif"}},
	}
	for _, o := range bad {
		if err := o.ValidateAndSetDefaults(); err == nil {
			t.Errorf("ValidateAndSetDefaults(%+v) should fail", o)
		}
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	o := Options{Width: 10, Height: 20, Scale: 3, Title: "t", Commands: true}
	o.FontSize = 14
	if k := o.ArtifactKeyOpts(FormatSVG); k.Scale != 0 || k.Title != "t" || k.FontSize != 14 {
		t.Errorf("svg key opts = %+v", k)
	}
	if k := o.ArtifactKeyOpts(FormatPNG); k.Scale != 3 || k.Title != "" || k.FontSize != 0 {
		t.Errorf("png key opts without a font = %+v", k)
	}
	o.Font = "/fonts/a.ttf"
	if k := o.ArtifactKeyOpts(FormatPNG); k.Font != "/fonts/a.ttf" || k.FontSize != 14 {
		t.Errorf("png key opts with a font = %+v", k)
	}
	if k := o.ArtifactKeyOpts(FormatJSON); !k.Commands {
		t.Errorf("json key opts = %+v", k)
	}
}

type countingCache struct {
	cache.Cache
	gets, sets int
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.gets++
	return c.Cache.Get(ctx, key)
}

func (c *countingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.sets++
	return c.Cache.Set(ctx, key, data, ttl)
}

func TestExecute(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cc := &countingCache{Cache: fc}
	r := quietRunner(cc)
	ctx := context.Background()
	opts := Options{Width: 400, Height: 300, Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, testDoc(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheHit {
		t.Error("first run should miss the cache")
	}
	if !bytes.HasPrefix(first.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact missing")
	}
	if !bytes.Contains(first.Artifacts[FormatJSON], []byte(`"kind": "group"`)) {
		t.Error("json artifact missing the group primitive")
	}
	if first.Stats.Segments != 2 || cc.sets != 2 {
		t.Errorf("stats=%+v sets=%d", first.Stats, cc.sets)
	}

	second, err := r.Execute(ctx, testDoc(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit || second.DocHash != first.DocHash {
		t.Errorf("second run should hit the cache: %+v", second)
	}
	if !bytes.Equal(second.Artifacts[FormatSVG], first.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	refreshed, err := r.Execute(ctx, testDoc(), Options{Width: 400, Height: 300, Formats: opts.Formats, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteFontSizeMissesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(fc)
	ctx := context.Background()

	if _, err := r.Execute(ctx, testDoc(), Options{}); err != nil {
		t.Fatal(err)
	}
	big, err := r.Execute(ctx, testDoc(), Options{FontSize: 30})
	if err != nil {
		t.Fatal(err)
	}
	if big.CacheHit {
		t.Error("a different font size should miss the cache")
	}
	svg := string(big.Artifacts[FormatSVG])
	if !strings.Contains(svg, `font-size="30.0"`) || strings.Contains(svg, `font-size="12.0"`) {
		t.Errorf("svg rendered with the wrong font size:\n%s", svg)
	}
}

func TestExecuteAlignOverrideChangesHash(t *testing.T) {
	r := quietRunner(nil)
	ctx := context.Background()

	center, err := r.Execute(ctx, testDoc(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	left, err := r.Execute(ctx, testDoc(), Options{Align: "left"})
	if err != nil {
		t.Fatal(err)
	}
	if center.DocHash == left.DocHash {
		t.Error("align override should change the document hash")
	}
	if !strings.Contains(string(left.Artifacts[FormatSVG]), `points="0.00,`) {
		t.Error("left-aligned funnel should start at x = 0")
	}
}

func TestExecuteInvalidDocument(t *testing.T) {
	doc := testDoc()
	doc.Config.Height = 0
	_, err := quietRunner(nil).Execute(context.Background(), doc, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Execute() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestRenderWithCacheInfo(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(fc)
	ctx := context.Background()

	c, err := funnel.New(funnel.DefaultConfig(), testDoc().Segments, 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Formats: []string{FormatSVG}}
	if _, hit, err := r.RenderWithCacheInfo(ctx, c, "h", opts); err != nil || hit {
		t.Fatalf("first render hit=%v err=%v", hit, err)
	}
	if _, hit, err := r.RenderWithCacheInfo(ctx, c, "h", opts); err != nil || !hit {
		t.Fatalf("second render hit=%v err=%v", hit, err)
	}

	if err := c.Resize(200, 100); err != nil {
		t.Fatal(err)
	}
	arts, hit, err := r.RenderWithCacheInfo(ctx, c, "h", opts)
	if err != nil || hit {
		t.Fatalf("resized render hit=%v err=%v", hit, err)
	}
	if !bytes.Contains(arts[FormatSVG], []byte(`viewBox="0 0 200.0 100.0"`)) {
		t.Error("render should use the chart's current size")
	}
}
