package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	InnerW     int
	FooterH    int
	PromptLine string // empty unless the prompt is open
	StatusLine string
	HelpLine   string
	VAlign     lipgloss.Position
	Bg         lipgloss.Color
}

// RenderFooter renders the prompt, status, and help lines.
func RenderFooter(state FooterViewState) string {
	if state.FooterH <= 0 {
		return ""
	}

	lines := make([]string, 0, 3)
	if state.PromptLine != "" {
		lines = append(lines, state.PromptLine)
	}
	lines = append(lines, state.StatusLine, state.HelpLine)
	return PlaceBox(state.InnerW, state.FooterH, state.VAlign, strings.Join(lines, "\n"), state.Bg)
}
