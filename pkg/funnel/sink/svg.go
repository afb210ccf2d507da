package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/funnel/pkg/funnel/shape"
)

const defaultFontSize = 12

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	title      string
	fontSize   float64
	fontFamily string
}

// WithBackground fills the canvas with a solid colour behind the chart.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithTitle sets the document <title>.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithFontSize sets the label font size in user units.
func WithFontSize(size float64) SVGOption { return func(r *svgRenderer) { r.fontSize = size } }

// WithFontFamily sets the CSS font-family of labels.
func WithFontFamily(family string) SVGOption {
	return func(r *svgRenderer) { r.fontFamily = family }
}

// SVGSurface writes draw commands as SVG elements.
type SVGSurface struct {
	buf      *bytes.Buffer
	fontSize float64
	family   string
}

// NewSVGSurface returns a surface appending elements to buf.
func NewSVGSurface(buf *bytes.Buffer) *SVGSurface {
	return &SVGSurface{buf: buf, fontSize: defaultFontSize, family: "sans-serif"}
}

// Quad writes a <polygon>.
func (s *SVGSurface) Quad(pts [4]shape.Point, p shape.Paint) {
	fmt.Fprintf(s.buf, `  <polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s"`,
		pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y, pts[3].X, pts[3].Y, svgColor(p.Fill))
	if p.StrokeWidth > 0 {
		fmt.Fprintf(s.buf, ` stroke="%s" stroke-width="%.2f" stroke-linejoin="round"`, svgColor(p.Stroke), p.StrokeWidth)
	}
	s.buf.WriteString("/>\n")
}

// Text writes a <text> element whose left edge and vertical middle sit at at.
func (s *SVGSurface) Text(str string, at shape.Point, color string) {
	fmt.Fprintf(s.buf, `  <text x="%.2f" y="%.2f" dominant-baseline="middle" font-family="%s" font-size="%.1f" fill="%s">%s</text>`+"\n",
		at.X, at.Y, escapeXML(s.family), s.fontSize, svgColor(color), escapeXML(str))
}

// RenderSVG draws c onto a width x height SVG document.
func RenderSVG(c Drawer, width, height float64, opts ...SVGOption) []byte {
	r := svgRenderer{fontSize: defaultFontSize, fontFamily: "sans-serif"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", svgColor(r.background))
	}

	s := NewSVGSurface(&buf)
	s.fontSize = r.fontSize
	s.family = r.fontFamily
	c.Draw(s)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

var _ shape.Surface = (*SVGSurface)(nil)
