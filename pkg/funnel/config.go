package funnel

import (
	"math"

	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel/geometry"
	"github.com/matzehuels/funnel/pkg/funnel/shape"
)

// Config is the container-relative appearance of a chart. It is fixed for
// the lifetime of a Chart; resizing re-derives absolute values from it.
type Config struct {
	WidthTop    float64 `json:"width_top" toml:"width_top"`
	WidthBottom float64 `json:"width_bottom" toml:"width_bottom"`
	Height      float64 `json:"height" toml:"height"`

	StrokeColor string  `json:"stroke_color" toml:"stroke_color"`
	StrokeWidth float64 `json:"stroke_width" toml:"stroke_width"`
	FillColor   string  `json:"fill_color" toml:"fill_color"`
	LabelColor  string  `json:"label_color" toml:"label_color"`

	// Align is "center" (default) or "left".
	Align string `json:"align,omitempty" toml:"align"`

	// EqualHeight is accepted for compatibility and has no effect; segments
	// always share the funnel height equally.
	EqualHeight bool `json:"equal_height" toml:"equal_height"`
}

// DefaultConfig returns the stock funnel appearance.
func DefaultConfig() Config {
	return Config{
		WidthTop:    0.75,
		WidthBottom: 0.2,
		Height:      0.9,
		StrokeColor: "#FFFFFF",
		StrokeWidth: 1,
		FillColor:   "#000000",
		LabelColor:  "#666666",
		Align:       geometry.AlignCenter.String(),
		EqualHeight: true,
	}
}

// Validate reports the first invalid field as an INVALID_CONFIG error.
func (c Config) Validate() error {
	if err := errors.ValidateFraction("width_top", c.WidthTop, 0); err != nil {
		return err
	}
	if err := errors.ValidateFraction("width_bottom", c.WidthBottom, 0); err != nil {
		return err
	}
	if err := errors.ValidatePositiveFraction("height", c.Height); err != nil {
		return err
	}
	if math.IsNaN(c.StrokeWidth) || math.IsInf(c.StrokeWidth, 0) || c.StrokeWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "stroke_width must be >= 0 (got %v)", c.StrokeWidth)
	}
	for _, col := range []struct{ name, value string }{
		{"stroke_color", c.StrokeColor},
		{"fill_color", c.FillColor},
		{"label_color", c.LabelColor},
	} {
		if err := errors.ValidateColor(col.name, col.value); err != nil {
			return err
		}
	}
	if _, ok := geometry.ParseAlign(c.Align); !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "align must be center or left (got %q)", c.Align)
	}
	return nil
}

// Fractions returns the geometric part of c.
func (c Config) Fractions() geometry.Fractions {
	return geometry.Fractions{WidthTop: c.WidthTop, WidthBottom: c.WidthBottom, Height: c.Height}
}

// Alignment returns the parsed Align field. Invalid values fall back to
// center; Validate rejects them earlier.
func (c Config) Alignment() geometry.Align {
	a, _ := geometry.ParseAlign(c.Align)
	return a
}

// Style returns the base style every primitive starts from.
func (c Config) Style() shape.Style {
	return shape.Style{
		Fill:        c.FillColor,
		Stroke:      c.StrokeColor,
		StrokeWidth: c.StrokeWidth,
		LabelColor:  c.LabelColor,
	}
}
