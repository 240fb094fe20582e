package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/spiral/internal/palette"
)

const (
	cellWidth  = 3  // terminal columns per segment
	labelWidth = 11 // "Wed 15 Jan " row labels
	panelWidth = 34 // side panel, hidden on narrow terminals
)

// Styles holds all lipgloss styles for the TUI, derived from a palette.
type Styles struct {
	palette *palette.Palette

	// Theme colors as lipgloss colors
	colorBg      lipgloss.Color
	colorFg      lipgloss.Color
	colorFgMuted lipgloss.Color
	colorAccent  lipgloss.Color
	colorCurrent lipgloss.Color
	colorPanelBg lipgloss.Color

	TitleStyle  lipgloss.Style
	HeaderStyle lipgloss.Style

	// Row labels
	RowLabelStyle        lipgloss.Style
	RowLabelCurrentStyle lipgloss.Style

	// Cells
	EmptyCellStyle   lipgloss.Style
	CurrentCellStyle lipgloss.Style // empty cell holding now

	// Side panel
	PanelTitleStyle lipgloss.Style
	PanelTextStyle  lipgloss.Style
	PanelMutedStyle lipgloss.Style

	PromptStyle lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style

	ModalStyle lipgloss.Style
	ModalBg    lipgloss.Color

	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a palette.
func NewStyles(p *palette.Palette) *Styles {
	t := p.Theme()
	s := &Styles{palette: p}

	s.colorBg = palette.Color(t.Bg)
	s.colorFg = palette.Color(t.Fg)
	s.colorFgMuted = palette.Color(t.FgMuted)
	s.colorAccent = palette.Color(t.Accent)
	s.colorCurrent = palette.Color(t.Current)
	s.colorPanelBg = palette.Color(p.Muted(t.FgMuted))

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.HeaderStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.RowLabelStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)
	s.RowLabelCurrentStyle = s.RowLabelStyle.
		Foreground(s.colorCurrent).
		Bold(true)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)
	s.CurrentCellStyle = s.EmptyCellStyle.
		Foreground(s.colorCurrent)

	s.PanelTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)
	s.PanelTextStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)
	s.PanelMutedStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.PromptStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)
	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg)
	s.ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.Color(p.Resolve("red", ""))).
		Background(s.colorBg)
	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.ModalBg = s.colorPanelBg
	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		BorderBackground(s.ModalBg).
		Foreground(s.colorFg).
		Background(s.ModalBg).
		Padding(1, 2)

	s.AppStyle = lipgloss.NewStyle().
		Background(s.colorBg)

	return s
}

// EventCell returns the style of a cell showing an event of color hex.
// Cells on the cursor are drawn reversed; the current hour is underlined.
func (s *Styles) EventCell(hex string, cursor, current bool) lipgloss.Style {
	style := lipgloss.NewStyle().
		Foreground(palette.Color(s.palette.TextOn(hex))).
		Background(palette.Color(hex))
	if current {
		style = style.Underline(true).Bold(true)
	}
	if cursor {
		style = style.Reverse(true)
	}
	return style
}

// Empty returns the style of a cell without visible events.
func (s *Styles) Empty(cursor, current bool) lipgloss.Style {
	style := s.EmptyCellStyle
	if current {
		style = s.CurrentCellStyle
	}
	if cursor {
		style = style.
			Foreground(s.colorBg).
			Background(s.colorAccent)
	}
	return style
}

// Swatch renders a one-cell color chip.
func (s *Styles) Swatch(hex string) string {
	return lipgloss.NewStyle().
		Foreground(palette.Color(hex)).
		Background(s.colorBg).
		Render("■")
}
