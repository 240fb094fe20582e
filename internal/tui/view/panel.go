package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// PanelViewState holds the side panel content.
type PanelViewState struct {
	Width      int
	Height     int
	Title      string
	TitleStyle lipgloss.Style
	Lines      []string // wrapped to Width
	Empty      string
	EmptyStyle lipgloss.Style
	Bg         lipgloss.Color
}

// RenderPanel renders a titled, word-wrapped panel.
func RenderPanel(state PanelViewState) string {
	if state.Width <= 0 || state.Height <= 0 {
		return ""
	}

	out := []string{state.TitleStyle.Render(state.Title), ""}
	if len(state.Lines) == 0 {
		out = append(out, state.EmptyStyle.Render(state.Empty))
	}
	for _, line := range state.Lines {
		out = append(out, WrapLines(line, state.Width)...)
	}
	if len(out) > state.Height {
		out = out[:state.Height]
	}

	return PlaceBox(state.Width, state.Height, lipgloss.Top, strings.Join(out, "\n"), state.Bg)
}

// WrapLines word-wraps s to width and splits it into lines.
func WrapLines(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	return strings.Split(wordwrap.String(s, width), "\n")
}
