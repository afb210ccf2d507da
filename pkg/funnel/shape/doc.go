// Package shape defines the drawable, hit-testable primitive of a funnel
// chart and the drawing surface it renders onto.
//
// # Trapezoid
//
// A [Trapezoid] is anchored at its top-left corner (X, Y) and has two
// independently slanted edges. Width is the length of the bottom edge; each
// slanted edge adds a horizontal run (XL on the left, XR on the right) to the
// top edge:
//
//	(X, Y)                              (X+XL+XR+Width, Y)
//	   \                                    /
//	    \                                  /
//	   (X+XL, Y+Height) ---- (X+XL+Width, Y+Height)
//
// XL and XR are always derived from Height and the edge angles; they have no
// setters. Angles are fixed at construction, so a reflow only ever moves or
// resizes a trapezoid.
//
// # Hit region
//
// [Trapezoid.Contains] tests the axis-aligned band [X+XL, X+XL+Width] x
// [Y, Y+Height], inclusive on every side. It is not a point-in-polygon test;
// slanted corners outside the band do not hit.
//
// # Surfaces
//
// A [Surface] receives filled-and-stroked quadrilaterals and text labels in
// container coordinates. Implementations live in the sink package.
package shape
