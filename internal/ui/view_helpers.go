package ui

// view_helpers.go provides common View() rendering helpers shared by the
// browse and library models.

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// StringWidth returns the printable width of a string, ANSI-aware
func StringWidth(s string) int {
	return lipgloss.Width(s)
}

// ViewHeader renders title + full-width divider + spacing.
func ViewHeader(title string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", innerWidth))
	b.WriteString("\n\n")
	return b.String()
}

// CenterTextPadded centers text and pads to the full width.
func CenterTextPadded(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	leftPad := (width - textW) / 2
	rightPad := width - textW - leftPad
	return strings.Repeat(" ", leftPad) + text + strings.Repeat(" ", rightPad)
}

// Truncate shortens a string to the given width, appending "..." when it
// had to cut.
func Truncate(s string, w int) string {
	if len(s) <= w {
		return s
	}
	if w <= 3 {
		return s[:w]
	}
	return s[:w-3] + "..."
}

// RenderTableWithSelection renders a bubbles table with a full-width
// selection highlight. Line 0 of the table output is the header; data rows
// follow, scrolled by the table's internal viewport. The visible cursor row
// is re-rendered with the selection background spanning InnerWidth.
func RenderTableWithSelection(t table.Model, layout Layout) string {
	lines := strings.Split(t.View(), "\n")

	cursor := t.Cursor()
	height := t.Height()
	totalRows := len(t.Rows())

	// Mirror the bubbles table viewport: scrolling starts once the cursor
	// moves past the visible window.
	start := 0
	if totalRows > height {
		if cursor >= height {
			start = cursor - height + 1
		}
		if maxStart := totalRows - height; start > maxStart {
			start = maxStart
		}
	}
	visibleCursor := cursor - start

	var out []string
	for i, line := range lines {
		if i == 0 {
			out = append(out, NormalStyle.Render(line))
			out = append(out, strings.Repeat("─", layout.InnerWidth))
			continue
		}
		if i-1 == visibleCursor && totalRows > 0 {
			clean := line
			if StringWidth(clean) < layout.InnerWidth {
				clean += strings.Repeat(" ", layout.InnerWidth-StringWidth(clean))
			}
			out = append(out, SelectedStyle.Render(clean))
			continue
		}
		out = append(out, NormalStyle.Render(line))
	}
	return strings.Join(out, "\n")
}
