package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/matzehuels/funnel/pkg/funnel/shape"
)

// PNGOption configures RenderPNG.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	fontPath   string
	fontSize   float64
	background string
}

// WithScale sets the pixel density (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithFont loads a TrueType/OpenType font for labels. Without a font, labels
// are skipped.
func WithFont(path string, points float64) PNGOption {
	return func(r *pngRenderer) { r.fontPath, r.fontSize = path, points }
}

// WithPNGBackground fills the image before drawing. The default is transparent.
func WithPNGBackground(color string) PNGOption {
	return func(r *pngRenderer) { r.background = color }
}

// PNGSurface rasterises draw commands onto a gg context.
type PNGSurface struct {
	ctx *gg.Context
	err error
}

// NewPNGSurface wraps ctx.
func NewPNGSurface(ctx *gg.Context) *PNGSurface {
	return &PNGSurface{ctx: ctx}
}

// Quad fills and strokes the quadrilateral.
func (s *PNGSurface) Quad(pts [4]shape.Point, p shape.Paint) {
	s.path(pts)
	s.ctx.SetFillBrush(gg.Solid(rgba(p.Fill, "#000000")))
	s.keep(s.ctx.FillPreserve())
	if p.StrokeWidth <= 0 {
		s.ctx.ClearPath()
		return
	}
	s.ctx.SetStrokeBrush(gg.Solid(rgba(p.Stroke, "#ffffff")))
	s.ctx.SetLineWidth(p.StrokeWidth)
	s.keep(s.ctx.Stroke())
}

// Text draws str left-aligned and vertically centred on at. It is a no-op
// when no font face is set on the context. Glyphs are drawn in device
// space, so the position is transformed here.
func (s *PNGSurface) Text(str string, at shape.Point, color string) {
	s.ctx.SetFillBrush(gg.Solid(rgba(color, "#000000")))
	x, y := s.ctx.TransformPoint(at.X, at.Y)
	s.ctx.DrawStringAnchored(str, x, y, 0, 0.5)
}

// Err returns the first rasterisation error.
func (s *PNGSurface) Err() error { return s.err }

func (s *PNGSurface) path(pts [4]shape.Point) {
	s.ctx.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		s.ctx.LineTo(pt.X, pt.Y)
	}
	s.ctx.ClosePath()
}

func (s *PNGSurface) keep(err error) {
	if s.err == nil {
		s.err = err
	}
}

// RenderPNG rasterises c at width x height user units.
func RenderPNG(c Drawer, width, height float64, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, fontSize: defaultFontSize}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) || math.IsInf(r.scale, 0) {
		return nil, fmt.Errorf("invalid scale %v", r.scale)
	}

	pw := max(1, int(math.Ceil(width*r.scale)))
	ph := max(1, int(math.Ceil(height*r.scale)))
	ctx := gg.NewContext(pw, ph)
	defer ctx.Close()

	if r.background != "" {
		ctx.ClearWithColor(rgba(r.background, "#ffffff"))
	}

	if r.fontPath != "" {
		src, err := text.NewFontSourceFromFile(r.fontPath)
		if err != nil {
			return nil, fmt.Errorf("load font %s: %w", r.fontPath, err)
		}
		defer src.Close()
		ctx.SetFont(src.Face(r.fontSize * r.scale))
	}

	ctx.Scale(r.scale, r.scale)
	s := NewPNGSurface(ctx)
	c.Draw(s)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("rasterise: %w", err)
	}

	var buf bytes.Buffer
	if err := ctx.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func rgba(hex, fallback string) gg.RGBA {
	c := parseColor(hex, fallback)
	return gg.RGB(c.R, c.G, c.B)
}

var _ shape.Surface = (*PNGSurface)(nil)
