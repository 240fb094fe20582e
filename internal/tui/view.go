package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/spiral/internal/event"
	"github.com/javiermolinar/spiral/internal/layout"
	"github.com/javiermolinar/spiral/internal/tui/input"
	"github.com/javiermolinar/spiral/internal/tui/view"
)

const (
	headerHeight = 2
	minGridWidth = labelWidth + layout.SegmentsPerDay*cellWidth
)

// View renders the TUI.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.ViewState {
	modal := m.renderModal()
	return view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      m.renderAppContent(),
		ModalContent:     modal,
		ShowModal:        modal != "",
		ModalBg:          m.styles.ModalBg,
		EmptyPlaceholder: "Loading...",
	}
}

func (m Model) renderAppContent() string {
	footerH := m.footerHeight()
	bodyH := m.height - headerHeight - footerH
	if m.width < minGridWidth || bodyH < 2 {
		return "Terminal too small"
	}

	gridW := minGridWidth
	panelW := m.width - gridW - 1
	if panelW < 20 {
		panelW = 0
		gridW = m.width
	} else {
		panelW = min(panelW, panelWidth)
	}

	header := view.PlaceBox(m.width, headerHeight, lipgloss.Top, m.headerText(), m.styles.colorBg)
	grid := view.RenderGrid(m.gridViewState(gridW, bodyH))
	body := grid
	if panelW > 0 {
		gap := view.PlaceBox(1, bodyH, lipgloss.Top, "", m.styles.colorBg)
		panel := view.RenderPanel(m.panelViewState(panelW, bodyH))
		body = lipgloss.JoinHorizontal(lipgloss.Top, grid, gap, panel)
	}
	footer := view.RenderFooter(m.footerViewState(footerH))

	content := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return view.PadLinesWithBackground(m.styles.AppStyle.Render(content), m.width, m.height, m.styles.colorBg)
}

func (m Model) headerText() string {
	start := m.window.Start().In(m.loc)
	end := m.window.End().In(m.loc)
	title := m.styles.TitleStyle.Render("spiral")
	span := m.styles.HeaderStyle.Render(fmt.Sprintf("  %s → %s  ·  %d days",
		start.Format("Mon 02 Jan 15:04"), end.Format("Mon 02 Jan 15:04"), m.window.Days))

	calendars := "all calendars"
	if visible := m.engine.Visible(); visible != nil {
		calendars = strings.Join(visible.Names(), ", ")
		if calendars == "" {
			calendars = "no calendars"
		}
	}
	line := title + span + m.styles.HeaderStyle.Render("  ·  "+calendars)
	if m.loading {
		line += m.styles.StatusStyle.Render("  loading…")
	}
	return line
}

func (m Model) panelViewState(width, height int) view.PanelViewState {
	start, end := m.cursorHour()
	title := fmt.Sprintf("%s %s-%s",
		start.In(m.loc).Format("Mon 02 Jan"), start.In(m.loc).Format("15:04"), end.In(m.loc).Format("15:04"))

	return view.PanelViewState{
		Width:      width,
		Height:     height,
		Title:      title,
		TitleStyle: m.styles.PanelTitleStyle,
		Lines:      m.panelLines(),
		Empty:      "No events",
		EmptyStyle: m.styles.PanelMutedStyle,
		Bg:         m.styles.colorBg,
	}
}

// panelLines describes each overlap in the cursor segment.
func (m Model) panelLines() []string {
	overlaps := m.cursorOverlaps()
	if len(overlaps) == 0 {
		return nil
	}
	l := m.engine.Layout(m.window)

	lines := make([]string, 0, len(overlaps)*3)
	for _, o := range overlaps {
		e := o.Event
		lines = append(lines,
			m.styles.Swatch(o.Color)+" "+m.styles.PanelTextStyle.Render(e.Title),
			m.styles.PanelMutedStyle.Render("  "+m.overlapSummary(o, l)),
		)
		if e.Description != "" {
			lines = append(lines, m.styles.PanelMutedStyle.Render("  "+e.Description))
		}
	}
	return lines
}

// overlapSummary renders "10:00-11:30 · :00-:60 · lane 1/2 · Work".
func (m Model) overlapSummary(o layout.Overlap, l *layout.Layout) string {
	e := o.Event
	parts := []string{
		fmt.Sprintf("%s-%s", e.Start.In(m.loc).Format("15:04"), e.End.In(m.loc).Format("15:04")),
		fmt.Sprintf(":%02.0f-:%02.0f", o.StartMinute, o.EndMinute),
	}
	if lane, ok := l.Lane(e); ok {
		parts = append(parts, fmt.Sprintf("lane %d/%d", lane+1, l.LaneBudget(e)))
	}
	parts = append(parts, e.CalendarOrDefault())
	return strings.Join(parts, " · ")
}

// segmentDetail is the plain text copied with the copy key.
func (m Model) segmentDetail() string {
	start, end := m.cursorHour()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s-%s\n", start.In(m.loc).Format("Mon 02 Jan"), start.In(m.loc).Format("15:04"), end.In(m.loc).Format("15:04"))

	overlaps := m.cursorOverlaps()
	if len(overlaps) == 0 {
		sb.WriteString("No events\n")
		return sb.String()
	}
	l := m.engine.Layout(m.window)
	for _, o := range overlaps {
		fmt.Fprintf(&sb, "- %s (%s) %s\n", o.Event.Title, event.FormatMinutes(int(o.TotalDurationMinutes)), m.overlapSummary(o, l))
	}
	return sb.String()
}

func (m Model) footerHeight() int {
	if m.help.ShowAll {
		return 8
	}
	if m.mode == ModePrompt {
		return 3
	}
	return 2
}

func (m Model) footerViewState(height int) view.FooterViewState {
	status := m.styles.StatusStyle.Render(m.statusMsg)
	if m.err != nil {
		status = m.styles.ErrorStyle.Render(m.statusMsg)
	}

	prompt := ""
	if m.mode == ModePrompt {
		prompt = m.prompt.View()
		if matches := m.promptSuggestions(); matches != "" {
			status = m.styles.HelpStyle.Render(matches)
		}
	}

	return view.FooterViewState{
		InnerW:     m.width,
		FooterH:    height,
		PromptLine: prompt,
		StatusLine: status,
		HelpLine:   m.help.View(m.keys),
		VAlign:     lipgloss.Bottom,
		Bg:         m.styles.colorBg,
	}
}

func (m Model) renderModal() string {
	switch m.mode {
	case ModeConfirm:
		if m.pending == nil {
			return ""
		}
		return m.styles.ModalStyle.Render(fmt.Sprintf("Delete %q?\n\n%s",
			m.pending.Title, "y / enter: delete    n / esc: cancel"))
	case ModeInit:
		return m.styles.ModalStyle.Render("Welcome to spiral\n\nThese will be created:\n  " +
			strings.Join(m.initState.Pending(), "\n  ") + "\n\nenter: create    q: quit")
	}
	return ""
}

// promptSuggestions lists slash commands matching the prompt.
func (m Model) promptSuggestions() string {
	matches := input.PromptMatchingCommands(m.prompt.Value(), input.Commands)
	if len(matches) == 0 {
		return ""
	}
	parts := make([]string, 0, len(matches))
	for _, c := range matches {
		parts = append(parts, c.Name+" "+c.Description)
	}
	return strings.Join(parts, "  |  ")
}
