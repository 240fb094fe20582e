package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// GridCell is one rendered segment.
type GridCell struct {
	Text  string
	Style lipgloss.Style
}

// GridRow is one day of the spiral.
type GridRow struct {
	Label      string
	LabelStyle lipgloss.Style
	Cells      []GridCell
}

// GridViewState holds everything needed to draw the segment grid.
type GridViewState struct {
	Width       int
	Height      int
	LabelWidth  int
	CellWidth   int
	Header      []string // one label per column
	HeaderStyle lipgloss.Style
	Rows        []GridRow
	Bg          lipgloss.Color
}

// RenderGrid renders a header line followed by one line per row.
// Rows that do not fit in Height are dropped from the bottom.
func RenderGrid(state GridViewState) string {
	if state.Width <= 0 || state.Height <= 0 || state.CellWidth <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(state.HeaderStyle.Render(padCell("", state.LabelWidth)))
	for _, h := range state.Header {
		sb.WriteString(state.HeaderStyle.Render(padCell(h, state.CellWidth)))
	}

	for i, row := range state.Rows {
		if i+1 >= state.Height {
			break
		}
		sb.WriteString("\n")
		sb.WriteString(row.LabelStyle.Render(padCell(row.Label, state.LabelWidth)))
		for _, cell := range row.Cells {
			sb.WriteString(cell.Style.Render(centerCell(cell.Text, state.CellWidth)))
		}
	}

	return PlaceBox(state.Width, state.Height, lipgloss.Top, sb.String(), state.Bg)
}

// padCell left-aligns s in exactly width cells.
func padCell(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// centerCell centers s in exactly width cells.
func centerCell(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	gap := width - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}
