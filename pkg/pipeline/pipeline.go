// Package pipeline turns funnel documents into rendered artifacts.
//
// The pipeline has two stages:
//
//  1. Layout: validate the document and build a [funnel.Chart] for the
//     requested container size.
//  2. Render: replay the chart onto the requested sinks (SVG, PNG, JSON).
//
// A [Runner] wraps both stages with an artifact cache keyed by document
// content and render options, and is shared by the CLI and the HTTP server.
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Width:   800,
//	    Height:  600,
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/funnel/pkg/cache"
	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel/geometry"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default container width in user units.
	DefaultWidth = 800.0

	// DefaultHeight is the default container height in user units.
	DefaultHeight = 600.0

	// DefaultScale is the default PNG pixel density.
	DefaultScale = 2.0

	// DefaultFontSize is the default label size in points.
	DefaultFontSize = 12.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. It supports JSON for API requests.
type Options struct {
	// Layout options
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Align  string  `json:"align,omitempty"` // overrides the document's align when set

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Font       string   `json:"font,omitempty"`
	FontSize   float64  `json:"font_size,omitempty"`
	Background string   `json:"background,omitempty"`
	Title      string   `json:"title,omitempty"`
	Commands   bool     `json:"commands,omitempty"` // include draw commands in JSON output

	Refresh bool `json:"refresh,omitempty"` // ignore cached artifacts

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DocHash is the content hash of the effective document.
	DocHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Segments      int
	Misconfigured int
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks every entry of formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults fills zero values with defaults and validates the
// result. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}

	if err := errors.ValidateDimension("width", o.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("height", o.Height); err != nil {
		return err
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be a positive number (got %v)", o.Scale)
	}
	if o.Align != "" {
		if _, ok := geometry.ParseAlign(o.Align); !ok {
			return errors.New(errors.ErrCodeInvalidInput, "align must be center or left (got %q)", o.Align)
		}
	}
	if o.Background != "" {
		if err := errors.ValidateColor("background", o.Background); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "render options")
		}
	}
	return ValidateFormats(o.Formats)
}

// ArtifactKeyOpts returns the cache key options for format.
func (o Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format: format,
		Width:  o.Width,
		Height: o.Height,
		Align:  o.Align,
	}
	switch format {
	case FormatPNG:
		opts.Scale = o.Scale
		opts.Background = o.Background
		if o.Font != "" {
			opts.Font = o.Font
			opts.FontSize = o.FontSize
		}
	case FormatSVG:
		opts.FontSize = o.FontSize
		opts.Background = o.Background
		opts.Title = o.Title
	case FormatJSON:
		opts.Commands = o.Commands
	}
	return opts
}
