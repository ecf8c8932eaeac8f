package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Layout constants - single source of truth for viewport dimensions
const (
	MinViewportWidth  = 100
	MaxViewportWidth  = 140
	DefaultWidth      = 110
	DefaultHeight     = 32
	MinViewportHeight = 20
)

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	ViewportWidth  int // clamped terminal width
	ViewportHeight int // clamped terminal height
	InnerWidth     int // width for content inside borders
	TableWidth     int // sum of column widths + separators
	TableHeight    int // visible data rows
}

// NewLayout creates a Layout from the terminal size, clamping to sane bounds
func NewLayout(terminalWidth, terminalHeight int) Layout {
	width := clamp(terminalWidth, MinViewportWidth, MaxViewportWidth)
	height := terminalHeight
	if height < MinViewportHeight {
		height = MinViewportHeight
	}

	// header (3) + query line (2) + status (2) + borders (4) + footer box (3)
	tableHeight := height - 14
	if tableHeight < 5 {
		tableHeight = 5
	}

	return Layout{
		ViewportWidth:  width,
		ViewportHeight: height,
		InnerWidth:     width - 2,
		TableWidth:     width - 4,
		TableHeight:    tableHeight,
	}
}

// DefaultLayout returns a layout for when the terminal size is unknown
func DefaultLayout() Layout {
	return NewLayout(DefaultWidth, DefaultHeight)
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Color palette - centralized color definitions
var (
	ColorBorder    = lipgloss.Color("96")  // muted purple
	ColorHighlight = lipgloss.Color("54")  // dark purple background
	ColorText      = lipgloss.Color("15")  // bright white
	ColorAccent    = lipgloss.Color("212") // pink
	ColorWarn      = lipgloss.Color("220") // yellow
	ColorError     = lipgloss.Color("196") // red
	ColorTextDim   = lipgloss.Color("241") // gray
	colorWhite     = lipgloss.Color("15")
)

// Common styles - reusable style definitions
var (
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Italic(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(ColorWarn)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)
)

// NewBorderStyleWithColor returns a rounded border style in the given color
func NewBorderStyleWithColor(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color)
}

// ApplyTableStyles applies the standard table look: bold header with a
// bottom border, selection handled by RenderTableWithSelection.
func ApplyTableStyles(t *table.Model) {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(false).
		Bold(true).
		Foreground(ColorText)
	// Neutral selection; full-width highlight is applied at render time
	styles.Selected = lipgloss.NewStyle()
	styles.Cell = styles.Cell.Foreground(ColorText)
	t.SetStyles(styles)
}

// NewAppSpinner returns the standard spinner used for remote calls
func NewAppSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorAccent)
	return s
}

// PadContentToHeight pads content with newlines to fill the target height
func PadContentToHeight(content string, targetHeight int) string {
	lines := strings.Count(content, "\n")
	if lines < targetHeight {
		content += strings.Repeat("\n", targetHeight-lines)
	}
	return content
}

// BuildTwoBoxView renders the standard layout: a bordered main box over a
// one-row bordered footer with centered help text.
func BuildTwoBoxView(content, helpText string, layout Layout) string {
	mainHeight := layout.ViewportHeight - 6
	if mainHeight < 10 {
		mainHeight = 10
	}
	content = PadContentToHeight(content, mainHeight)

	var b strings.Builder
	b.WriteString(BorderStyle.
		Width(layout.InnerWidth).
		Height(mainHeight).
		Render(content))
	b.WriteString("\n")
	b.WriteString(NewBorderStyleWithColor(colorWhite).
		Width(layout.InnerWidth).
		Height(1).
		Render(CenterTextPadded(HintStyle.Render(helpText), layout.InnerWidth)))
	return b.String()
}

// NewAppTheme creates a huh theme matching the app's palette
func NewAppTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)
	t.Blurred.Title = t.Focused.Title

	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Blurred.Description = t.Focused.Description

	t.Focused.Base = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Base = t.Focused.Base

	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorHighlight).
		Bold(true).
		Padding(0, 1)

	t.Focused.UnselectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(ColorAccent)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(ColorAccent)

	return t
}
