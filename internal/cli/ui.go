package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI 256 palette shared by command output, the hit table and the inspector.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles used outside this file.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleLink    = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

const iconSuccess = "✓"

// status is the leading glyph of a one-line message.
type status struct {
	glyph string
	style lipgloss.Style
	body  lipgloss.Style
}

var (
	statusOK   = status{iconSuccess, StyleSuccess, lipgloss.NewStyle()}
	statusFail = status{"✗", lipgloss.NewStyle().Foreground(colorRed), lipgloss.NewStyle()}
	statusWarn = status{"!", StyleWarning, StyleWarning}
	statusNote = status{"›", lipgloss.NewStyle().Foreground(colorGray), lipgloss.NewStyle()}
)

func (s status) println(format string, args ...any) {
	fmt.Println(s.style.Render(s.glyph) + " " + s.body.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { statusOK.println(format, args...) }
func printError(format string, args ...any)   { statusFail.println(format, args...) }
func printWarning(format string, args ...any) { statusWarn.println(format, args...) }
func printInfo(format string, args ...any)    { statusNote.println(format, args...) }

// printDetail prints an indented, dimmed line under a status message.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

// printStats summarises a render: segment count, misconfigured segments
// and whether the artifacts came from the cache.
func printStats(segments, misconfigured int, cached bool) {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d segments", segments))}
	if misconfigured > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d misconfigured", misconfigured)))
	}
	if cached {
		parts = append(parts, StyleSuccess.Render("cached"))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGray).Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + lipgloss.NewStyle().Foreground(colorBlue).Render(cmd))
}
