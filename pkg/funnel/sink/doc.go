// Package sink provides drawing surfaces and export formats for funnel charts.
//
// Every renderer accepts a [Drawer], usually a *funnel.Chart, and replays its
// draw pass onto a concrete [shape.Surface]:
//
//   - [RenderSVG] writes polygons and text into an SVG document.
//   - [RenderPNG] rasterises through a gogpu/gg context.
//   - [RenderJSON] exports the geometry of a layout.
//   - [Recorder] keeps the draw commands in memory.
//
// Colours arrive as hex strings. Surfaces that need numeric colours convert
// them with go-colorful; an unparseable colour falls back to black.
package sink

import "github.com/matzehuels/funnel/pkg/funnel/shape"

// Drawer is anything that can replay itself onto a surface.
type Drawer interface {
	Draw(s shape.Surface)
}
