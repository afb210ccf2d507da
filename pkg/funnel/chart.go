// Package funnel assembles the geometry, layout and hit-test packages into a
// single chart object.
//
// A [Chart] owns one layout for one container size. [Chart.Resize] reflows
// the existing trapezoids in place, so pointers obtained from
// [Chart.Layout] or from hit results stay valid; [Chart.SetData] replaces
// them all.
//
//	c, err := funnel.New(funnel.DefaultConfig(), segments, 800, 600)
//	if err != nil {
//		return err
//	}
//	svg := sink.RenderSVG(c, 800, 600)
//
// A Chart is not safe for concurrent use.
package funnel

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel/geometry"
	"github.com/matzehuels/funnel/pkg/funnel/hit"
	"github.com/matzehuels/funnel/pkg/funnel/layout"
	"github.com/matzehuels/funnel/pkg/funnel/shape"
)

// Option configures a Chart.
type Option func(*Chart)

// WithLogger sets the logger used for data warnings.
func WithLogger(l *log.Logger) Option {
	return func(c *Chart) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTooltip registers the collaborator notified on every HandleEvent.
func WithTooltip(t hit.Tooltip) Option {
	return func(c *Chart) { c.tooltip = t }
}

// Chart is a funnel chart bound to a container size.
type Chart struct {
	cfg    Config
	data   []layout.Segment
	width  float64
	height float64

	layout *layout.Layout
	router *hit.Router

	logger  *log.Logger
	tooltip hit.Tooltip
}

// New validates cfg and data and lays the chart out for a width x height
// container. Segments whose sections cannot be apportioned are logged and
// drawn with zero-width sections rather than failing construction.
func New(cfg Config, data []layout.Segment, width, height float64, opts ...Option) (*Chart, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateSize(width, height); err != nil {
		return nil, err
	}
	if err := validateData(data); err != nil {
		return nil, err
	}

	c := &Chart{
		cfg:    cfg,
		width:  width,
		height: height,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.build(data); err != nil {
		return nil, err
	}
	c.router = hit.NewRouter(c.layout, c.tooltip)
	return c, nil
}

func (c *Chart) build(data []layout.Segment) error {
	data = append([]layout.Segment(nil), data...)
	p := geometry.Compute(c.cfg.Fractions(), c.width, c.height, len(data), c.cfg.Alignment())

	l, err := layout.Build(data, p, c.cfg.Style())
	switch {
	case errors.Is(err, errors.ErrCodeSegmentMisconfigured):
		c.logger.Warn("segment sections sum to zero; drawing them with zero width",
			"segments", l.Misconfigured)
	case err != nil:
		return err
	}

	c.data = data
	c.layout = l
	c.logger.Debug("built funnel layout",
		"segments", len(data),
		"width", c.width,
		"height", c.height,
		"angle", p.Angle)
	return nil
}

// Resize recomputes the geometry for a new container size and moves the
// existing trapezoids to match.
func (c *Chart) Resize(width, height float64) error {
	if err := validateSize(width, height); err != nil {
		return err
	}
	p := geometry.Compute(c.cfg.Fractions(), width, height, len(c.layout.Primitives), c.cfg.Alignment())
	if err := c.layout.Reflow(p); err != nil {
		return err
	}
	c.width, c.height = width, height
	c.logger.Debug("reflowed funnel layout", "width", width, "height", height)
	return nil
}

// SetData replaces the chart's segments and rebuilds every primitive.
// Previously returned trapezoids are detached from the chart.
func (c *Chart) SetData(data []layout.Segment) error {
	if err := validateData(data); err != nil {
		return err
	}
	if err := c.build(data); err != nil {
		return err
	}
	c.router.SetLayout(c.layout)
	return nil
}

// Draw renders the chart onto s.
func (c *Chart) Draw(s shape.Surface) { c.layout.Draw(s) }

// HandleEvent hit-tests ev and notifies the tooltip, if any.
func (c *Chart) HandleEvent(ev hit.Event) []hit.Item { return c.router.Handle(ev) }

// Hits returns the trapezoids under ev without notifying the tooltip.
func (c *Chart) Hits(ev hit.Event) []*shape.Trapezoid { return c.router.Hits(ev) }

// Layout returns the current layout.
func (c *Chart) Layout() *layout.Layout { return c.layout }

// Params returns the geometry of the current layout.
func (c *Chart) Params() geometry.Params { return c.layout.Params }

// Size returns the container size.
func (c *Chart) Size() (width, height float64) { return c.width, c.height }

// Config returns the chart configuration.
func (c *Chart) Config() Config { return c.cfg }

// Data returns a copy of the chart's segments.
func (c *Chart) Data() []layout.Segment {
	return append([]layout.Segment(nil), c.data...)
}

func validateSize(width, height float64) error {
	if err := errors.ValidateDimension("width", width); err != nil {
		return err
	}
	return errors.ValidateDimension("height", height)
}

func validateData(data []layout.Segment) error {
	for i, seg := range data {
		if seg.Color != "" {
			if err := errors.ValidateColor("color", seg.Color); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "segment %d", i)
			}
		}
		for j, sec := range seg.Sections {
			if sec.Color == "" {
				continue
			}
			if err := errors.ValidateColor("color", sec.Color); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "segment %d section %d", i, j)
			}
		}
	}
	return nil
}
