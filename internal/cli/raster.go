package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/funnel/pkg/funnel/shape"
)

// cellAspect is the height of a terminal cell in units of its width. A chart
// shown in cols x rows cells is laid out at cols x rows*cellAspect.
const cellAspect = 2.0

type cell struct {
	ch rune
	fg string
	bg string
}

// termSurface rasterises draw commands onto a grid of terminal cells. Quads
// colour the background of every cell whose centre they cover; text replaces
// the cell glyphs.
type termSurface struct {
	cols, rows int
	cells      []cell
}

func newTermSurface(cols, rows int) *termSurface {
	cols, rows = max(cols, 0), max(rows, 0)
	s := &termSurface{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	for i := range s.cells {
		s.cells[i].ch = ' '
	}
	return s
}

func (s *termSurface) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return nil
	}
	return &s.cells[row*s.cols+col]
}

// Quad fills the cells covered by pts. Strokes are not drawn; a cell is too
// coarse for them.
func (s *termSurface) Quad(pts [4]shape.Point, p shape.Paint) {
	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, pt := range pts[1:] {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	c0, c1 := int(math.Floor(minX)), int(math.Ceil(maxX))
	r0, r1 := int(math.Floor(minY/cellAspect)), int(math.Ceil(maxY/cellAspect))
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			c := s.at(col, row)
			if c == nil {
				continue
			}
			if insideQuad(pts, float64(col)+0.5, (float64(row)+0.5)*cellAspect) {
				c.bg = p.Fill
			}
		}
	}
}

// Text writes str starting at the cell containing at, clipped to the grid.
func (s *termSurface) Text(str string, at shape.Point, color string) {
	col := int(math.Floor(at.X))
	row := int(math.Floor(at.Y / cellAspect))
	for _, r := range str {
		if c := s.at(col, row); c != nil {
			c.ch, c.fg = r, color
		}
		col++
	}
}

// mark overlays ch at a cell, keeping its background.
func (s *termSurface) mark(col, row int, ch rune) {
	if c := s.at(col, row); c != nil {
		c.ch = ch
		c.fg = ""
	}
}

// String renders the grid with ANSI colours, one line per row. Runs of cells
// with the same colours share one style.
func (s *termSurface) String() string {
	var b strings.Builder
	for row := 0; row < s.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		line := s.cells[row*s.cols : (row+1)*s.cols]
		for i := 0; i < len(line); {
			j := i
			var run strings.Builder
			for j < len(line) && line[j].fg == line[i].fg && line[j].bg == line[i].bg {
				run.WriteRune(line[j].ch)
				j++
			}
			b.WriteString(cellStyle(line[i]).Render(run.String()))
			i = j
		}
	}
	return b.String()
}

// Plain returns the grid glyphs without colours.
func (s *termSurface) Plain() string {
	var b strings.Builder
	for row := 0; row < s.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for _, c := range s.cells[row*s.cols : (row+1)*s.cols] {
			b.WriteRune(c.ch)
		}
	}
	return b.String()
}

func cellStyle(c cell) lipgloss.Style {
	st := lipgloss.NewStyle()
	if c.bg != "" {
		st = st.Background(lipgloss.Color(c.bg))
	}
	if c.fg != "" {
		st = st.Foreground(lipgloss.Color(c.fg))
	} else {
		st = st.Foreground(colorWhite)
	}
	return st
}

// insideQuad reports whether (x, y) lies inside or on the convex polygon
// pts. Degenerate quads contain nothing.
func insideQuad(pts [4]shape.Point, x, y float64) bool {
	var pos, neg bool
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		switch {
		case cross > 0:
			pos = true
		case cross < 0:
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return pos || neg
}

var _ shape.Surface = (*termSurface)(nil)
