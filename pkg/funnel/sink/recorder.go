package sink

import "github.com/matzehuels/funnel/pkg/funnel/shape"

// Command is one recorded draw call. Exactly one of Quad or Text is set.
type Command struct {
	Quad *QuadCommand `json:"quad,omitempty"`
	Text *TextCommand `json:"text,omitempty"`
}

// QuadCommand is a recorded Surface.Quad call.
type QuadCommand struct {
	Points [4]shape.Point `json:"points"`
	Paint  shape.Paint    `json:"paint"`
}

// TextCommand is a recorded Surface.Text call.
type TextCommand struct {
	Text  string      `json:"text"`
	At    shape.Point `json:"at"`
	Color string      `json:"color"`
}

// Recorder is a Surface that keeps every draw call in order.
type Recorder struct {
	Commands []Command
}

// Quad records a quadrilateral.
func (r *Recorder) Quad(pts [4]shape.Point, p shape.Paint) {
	r.Commands = append(r.Commands, Command{Quad: &QuadCommand{Points: pts, Paint: p}})
}

// Text records a label.
func (r *Recorder) Text(s string, at shape.Point, color string) {
	r.Commands = append(r.Commands, Command{Text: &TextCommand{Text: s, At: at, Color: color}})
}

// Quads returns the recorded quadrilaterals.
func (r *Recorder) Quads() []QuadCommand {
	var out []QuadCommand
	for _, c := range r.Commands {
		if c.Quad != nil {
			out = append(out, *c.Quad)
		}
	}
	return out
}

// Texts returns the recorded labels.
func (r *Recorder) Texts() []TextCommand {
	var out []TextCommand
	for _, c := range r.Commands {
		if c.Text != nil {
			out = append(out, *c.Text)
		}
	}
	return out
}

// Reset discards all commands.
func (r *Recorder) Reset() { r.Commands = r.Commands[:0] }

// Record replays d onto a fresh Recorder.
func Record(d Drawer) *Recorder {
	r := &Recorder{}
	d.Draw(r)
	return r
}

var _ shape.Surface = (*Recorder)(nil)
