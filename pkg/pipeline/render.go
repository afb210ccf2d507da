package pipeline

import (
	"fmt"

	"github.com/matzehuels/funnel/pkg/funnel"
	"github.com/matzehuels/funnel/pkg/funnel/sink"
)

// Render generates artifacts for c in every requested format. The container
// size is taken from the chart, not from opts.
func Render(c *funnel.Chart, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(c, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(c *funnel.Chart, format string, opts Options) ([]byte, error) {
	w, h := c.Size()
	switch format {
	case FormatSVG:
		return sink.RenderSVG(c, w, h, buildSVGOptions(opts)...), nil
	case FormatPNG:
		return sink.RenderPNG(c, w, h, buildPNGOptions(opts)...)
	case FormatJSON:
		var jsonOpts []sink.JSONOption
		if opts.Commands {
			jsonOpts = append(jsonOpts, sink.WithJSONCommands())
		}
		return sink.RenderJSON(c.Layout(), jsonOpts...)
	default:
		return nil, ValidateFormat(format)
	}
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithFontSize(opts.FontSize)}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}

func buildPNGOptions(opts Options) []sink.PNGOption {
	pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
	if opts.Background != "" {
		pngOpts = append(pngOpts, sink.WithPNGBackground(opts.Background))
	}
	if opts.Font != "" {
		pngOpts = append(pngOpts, sink.WithFont(opts.Font, opts.FontSize))
	}
	return pngOpts
}
