package errors

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ValidateFraction checks that v is a finite number in [min, 1].
// Fractions scale the container size, so anything outside that range
// produces a funnel that overflows or inverts its frame.
func ValidateFraction(name string, v, min float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number", name)
	}
	if v < min || v > 1 {
		return New(ErrCodeInvalidConfig, "%s = %v out of range [%v, 1]", name, v, min)
	}
	return nil
}

// ValidatePositiveFraction is ValidateFraction with an exclusive zero bound.
func ValidatePositiveFraction(name string, v float64) error {
	if err := ValidateFraction(name, v, 0); err != nil {
		return err
	}
	if v == 0 {
		return New(ErrCodeInvalidConfig, "%s must be greater than 0", name)
	}
	return nil
}

// ValidateDimension checks that a container dimension is finite and non-negative.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative (got %v)", name, v)
	}
	return nil
}

// ValidateColor checks that s is a "#rgb" or "#rrggbb" hex colour.
func ValidateColor(name, s string) error {
	if s == "" {
		return New(ErrCodeInvalidConfig, "%s cannot be empty", name)
	}
	if _, err := colorful.Hex(s); err != nil {
		return Wrap(ErrCodeInvalidConfig, err, "%s: invalid hex colour %q", name, s)
	}
	return nil
}
