// Package hit maps pointer events to the funnel primitives under them and
// hands the result to a tooltip collaborator.
package hit

import (
	"fmt"
	"strings"

	"github.com/matzehuels/funnel/pkg/funnel/layout"
	"github.com/matzehuels/funnel/pkg/funnel/shape"
)

// EventKind distinguishes pointer events.
type EventKind uint8

const (
	Move EventKind = iota
	Click
	Leave
)

var kindNames = [...]string{Move: "move", Click: "click", Leave: "leave"}

func (k EventKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// ParseEventKind parses "move", "click" or "leave".
func ParseEventKind(s string) (EventKind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return EventKind(k), nil
		}
	}
	return Move, fmt.Errorf("unknown event kind %q (must be move, click or leave)", s)
}

// Event is a pointer event in container coordinates.
type Event struct {
	Kind EventKind
	X, Y float64
}

// Item is what a tooltip needs to know about one hit primitive.
type Item struct {
	Anchor shape.Point `json:"anchor"`
	Label  string      `json:"label,omitempty"`
	Value  float64     `json:"value"`
}

// Tooltip receives the hits of every routed event. An empty slice means
// nothing is under the pointer and any open tooltip should close.
type Tooltip interface {
	Show(items []Item)
}

// TooltipFunc adapts a function to Tooltip.
type TooltipFunc func(items []Item)

// Show calls f(items).
func (f TooltipFunc) Show(items []Item) { f(items) }

// Router hit-tests events against a layout.
type Router struct {
	layout  *layout.Layout
	tooltip Tooltip
}

// NewRouter creates a router over l. tooltip may be nil.
func NewRouter(l *layout.Layout, tooltip Tooltip) *Router {
	return &Router{layout: l, tooltip: tooltip}
}

// SetLayout points the router at a rebuilt layout.
func (r *Router) SetLayout(l *layout.Layout) { r.layout = l }

// Hits returns the primitives containing the event position, in layout
// order. Leave events always return nil.
func (r *Router) Hits(ev Event) []*shape.Trapezoid {
	if ev.Kind == Leave || r.layout == nil {
		return nil
	}

	var hits []*shape.Trapezoid
	for _, prim := range r.layout.Primitives {
		switch prim.Kind {
		case layout.KindGroup:
			for _, t := range prim.Group {
				if t.Contains(ev.X, ev.Y) {
					hits = append(hits, t)
				}
			}
		case layout.KindLeaf:
			if prim.Leaf.Contains(ev.X, ev.Y) {
				hits = append(hits, prim.Leaf)
			}
		}
	}
	return hits
}

// Handle routes ev, passes the resulting items to the tooltip and returns them.
func (r *Router) Handle(ev Event) []Item {
	items := Items(r.Hits(ev))
	if r.tooltip != nil {
		r.tooltip.Show(items)
	}
	return items
}

// Items converts hit primitives to tooltip items. A shape without its own
// label falls back to its segment label.
func Items(hits []*shape.Trapezoid) []Item {
	items := make([]Item, 0, len(hits))
	for _, t := range hits {
		label := t.Label
		if label == "" {
			label = t.SegmentLabel
		}
		items = append(items, Item{
			Anchor: t.TooltipAnchor(),
			Label:  label,
			Value:  t.Value,
		})
	}
	return items
}
