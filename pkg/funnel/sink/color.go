package sink

import (
	"github.com/lucasb-eyer/go-colorful"
)

// parseColor converts a hex colour, falling back to fallback and then black.
func parseColor(hex, fallback string) colorful.Color {
	if c, err := colorful.Hex(hex); err == nil {
		return c
	}
	if c, err := colorful.Hex(fallback); err == nil {
		return c
	}
	return colorful.Color{}
}

// svgColor returns hex in canonical "#rrggbb" form, or "none" when it is
// empty or unparseable.
func svgColor(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "none"
	}
	return c.Hex()
}
