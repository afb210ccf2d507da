package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/funnel/pkg/funnel"
	"github.com/matzehuels/funnel/pkg/funnel/hit"
)

// chromeLines is the number of terminal lines used around the chart.
const chromeLines = 4

var (
	tipLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tipDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// InspectModel - Interactive chart preview
// =============================================================================

// InspectModel is the bubbletea model for the terminal chart preview. The
// cursor is moved with the arrow keys; the shapes under it are listed below
// the chart, as a tooltip would show them.
type InspectModel struct {
	Chart *funnel.Chart
	Title string

	Cols, Rows int // chart area in cells
	CursorX    int
	CursorY    int

	Items   []hit.Item
	Clicked bool
	Err     error
}

// NewInspectModel creates a model showing c in a cols x rows cell area.
func NewInspectModel(c *funnel.Chart, title string, cols, rows int) InspectModel {
	m := InspectModel{Chart: c, Title: title, CursorX: cols / 2, CursorY: rows / 4}
	return m.resize(cols, rows)
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.CursorY--
		case "down", "j":
			m.CursorY++
		case "left", "h":
			m.CursorX--
		case "right", "l":
			m.CursorX++
		case "enter", " ":
			return m.probe(hit.Click), nil
		default:
			return m, nil
		}
		m = m.clamp()
		return m.probe(hit.Move), nil
	case tea.WindowSizeMsg:
		m = m.resize(msg.Width, msg.Height-chromeLines)
		return m.probe(hit.Move), nil
	}
	return m, nil
}

// resize reflows the chart for a cols x rows cell area.
func (m InspectModel) resize(cols, rows int) InspectModel {
	m.Cols, m.Rows = max(cols, 1), max(rows, 1)
	if err := m.Chart.Resize(float64(m.Cols), float64(m.Rows)*cellAspect); err != nil {
		m.Err = err
	}
	return m.clamp()
}

func (m InspectModel) clamp() InspectModel {
	m.CursorX = min(max(m.CursorX, 0), m.Cols-1)
	m.CursorY = min(max(m.CursorY, 0), m.Rows-1)
	return m
}

// probe hit-tests the centre of the cursor cell.
func (m InspectModel) probe(kind hit.EventKind) InspectModel {
	x := float64(m.CursorX) + 0.5
	y := (float64(m.CursorY) + 0.5) * cellAspect
	m.Items = m.Chart.HandleEvent(hit.Event{Kind: kind, X: x, Y: y})
	m.Clicked = kind == hit.Click
	return m
}

// Canvas draws the chart and cursor without the surrounding chrome.
func (m InspectModel) Canvas() *termSurface {
	s := newTermSurface(m.Cols, m.Rows)
	m.Chart.Draw(s)
	s.mark(m.CursorX, m.CursorY, '+')
	return s
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("  ")
	b.WriteString(tipDimStyle.Render("arrows: move  enter: click  q: quit"))
	b.WriteString("\n")
	b.WriteString(m.Canvas().String())
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(StyleWarning.Render(m.Err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.tooltip())
	return b.String()
}

func (m InspectModel) tooltip() string {
	if len(m.Items) == 0 {
		return tipDimStyle.Render("  nothing under cursor")
	}
	parts := make([]string, 0, len(m.Items))
	for _, it := range m.Items {
		label := it.Label
		if label == "" {
			label = "(unlabelled)"
		}
		parts = append(parts, tipLabelStyle.Render(label)+" "+
			StyleNumber.Render(strconv.FormatFloat(it.Value, 'g', -1, 64)))
	}
	prefix := "  "
	if m.Clicked {
		prefix = StyleSuccess.Render(iconSuccess) + " "
	}
	return prefix + strings.Join(parts, tipDimStyle.Render(" · ")) +
		tipDimStyle.Render(fmt.Sprintf("  @ %d,%d", m.CursorX, m.CursorY))
}
