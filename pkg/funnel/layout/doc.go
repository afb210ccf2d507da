// Package layout turns an ordered list of funnel segments into positioned
// trapezoids, keeps them in step with the container size, and draws them.
//
// # Structure
//
// A [Layout] holds one [Primitive] per input segment, in input order. A
// primitive is a tagged variant: [KindLeaf] wraps a single trapezoid for a
// segment without sections, [KindGroup] wraps one trapezoid per section of a
// composite segment. Consumers switch on Kind rather than inspecting values.
//
// # Placement
//
// Segments have equal heights. A segment's width is the funnel width at its
// bottom edge, and its left origin follows the funnel's slanted left edge at
// its top edge, so the stack forms one continuous silhouette. Sections split
// their segment's width in proportion to their values; only the outermost
// sections keep the slanted edges, inner boundaries are vertical. After the
// first section the horizontal cursor also advances by the left edge's slant
// run, so the second section starts exactly where the first one's edge ends.
//
// # Reflow
//
// [Layout.Reflow] recomputes placements for new [geometry.Params] and pushes
// them into the existing trapezoids with Update. Trapezoid pointers handed
// out earlier (to an open tooltip, say) keep observing the same objects. A
// layout can only be reflowed for the segment count it was built with; new
// data needs a fresh [Build].
package layout
