package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/spiral/internal/config"
	"github.com/javiermolinar/spiral/internal/dateutil"
	"github.com/javiermolinar/spiral/internal/event"
	"github.com/javiermolinar/spiral/internal/layout"
	"github.com/javiermolinar/spiral/internal/tui/commands"
	"github.com/javiermolinar/spiral/internal/tui/input"
)

// keyMap holds the normal mode bindings.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	HourBack key.Binding
	HourFwd  key.Binding
	DayBack  key.Binding
	DayFwd   key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Now      key.Binding
	Add      key.Binding
	Command  key.Binding
	Delete   key.Binding
	Color    key.Binding
	Toggle   key.Binding
	ShowAll  key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "newer day")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "older day")),
		Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "prev hour")),
		Right:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "next hour")),
		HourBack: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "window -1h")),
		HourFwd:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "window +1h")),
		DayBack:  key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "window -1d")),
		DayFwd:   key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "window +1d")),
		ZoomIn:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fewer days")),
		ZoomOut:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more days")),
		Now:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "now")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Command:  key.NewBinding(key.WithKeys("/", ":"), key.WithHelp("/", "command")),
		Delete:   key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Color:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "color")),
		Toggle:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "hide calendar")),
		ShowAll:  key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "reset calendars")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Delete, k.Color, k.Toggle, k.HourFwd, k.ZoomOut, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Now},
		{k.HourBack, k.HourFwd, k.DayBack, k.DayFwd, k.ZoomIn, k.ZoomOut},
		{k.Add, k.Command, k.Delete, k.Color, k.Copy},
		{k.Toggle, k.ShowAll, k.Help, k.Quit},
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeConfirm:
		return m.handleConfirmKeys(msg)
	case ModeInit:
		return m.handleInitKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	// Cursor
	case key.Matches(msg, m.keys.Up):
		m.cursor.Day--
		m.clampCursor()
		LogCursorMove(m.cursor, "up")
	case key.Matches(msg, m.keys.Down):
		m.cursor.Day++
		m.clampCursor()
		LogCursorMove(m.cursor, "down")
	case key.Matches(msg, m.keys.Left):
		m.moveSegment(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveSegment(1)

	// Window
	case key.Matches(msg, m.keys.HourBack):
		m.shiftWindow(-time.Hour)
	case key.Matches(msg, m.keys.HourFwd):
		m.shiftWindow(time.Hour)
	case key.Matches(msg, m.keys.DayBack):
		m.shiftWindow(-24 * time.Hour)
	case key.Matches(msg, m.keys.DayFwd):
		m.shiftWindow(24 * time.Hour)
	case key.Matches(msg, m.keys.ZoomIn):
		m.setDays(m.window.Days - 1)
	case key.Matches(msg, m.keys.ZoomOut):
		m.setDays(m.window.Days + 1)
	case key.Matches(msg, m.keys.Now):
		m.window = layout.NewWindow(m.config.Reference(m.nowFunc()), m.window.Days)
		m.focusNow()
		LogWindow(m.window, "now")

	// Events
	case key.Matches(msg, m.keys.Add):
		return m.openPrompt("")
	case key.Matches(msg, m.keys.Command):
		return m.openPrompt("/")
	case key.Matches(msg, m.keys.Delete):
		sel := m.selected()
		if sel == nil {
			return m, statusCmd("Nothing to delete here")
		}
		m.pending = sel
		LogModeChange(m.mode, ModeConfirm, "delete")
		m.mode = ModeConfirm
	case key.Matches(msg, m.keys.Color):
		sel := m.selected()
		if sel == nil {
			return m, statusCmd("Nothing to color here")
		}
		edited := sel.Clone()
		edited.SetColor(m.palette.Next(sel.Color))
		return m, commands.UpdateEvent(m.repo, edited)
	case key.Matches(msg, m.keys.Toggle):
		sel := m.selected()
		if sel == nil {
			return m, statusCmd("Nothing selected")
		}
		return m.toggleCalendar(sel.CalendarOrDefault())
	case key.Matches(msg, m.keys.ShowAll):
		m.engine.SetVisibleCalendars(layout.NewCalendarFilter(m.config.Calendars.Visible...))
		return m, statusCmd("Showing " + strings.Join(m.config.Calendars.Visible, ", "))
	case key.Matches(msg, m.keys.Copy):
		return m, commands.CopyToClipboard(m.segmentDetail())
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// moveSegment steps the cursor through segments, wrapping across rows.
func (m *Model) moveSegment(delta int) {
	n := m.cursor.Day*layout.SegmentsPerDay + m.cursor.Segment + delta
	n = max(0, min(m.window.Hours()-1, n))
	m.cursor = Position{Day: n / layout.SegmentsPerDay, Segment: n % layout.SegmentsPerDay}
	LogCursorMove(m.cursor, "segment")
}

// shiftWindow rotates the window, keeping the cursor on the same cell.
func (m *Model) shiftWindow(d time.Duration) {
	m.window = m.window.Shift(d)
	LogWindow(m.window, "shift")
}

// setDays resizes the window within the configured limits.
func (m *Model) setDays(days int) {
	days = max(config.MinDays, min(config.MaxDays, days))
	if days == m.window.Days {
		return
	}
	m.window = m.window.WithDays(days)
	m.clampCursor()
	LogWindow(m.window, "zoom")
}

// selected returns the first visible event in the cursor segment.
func (m Model) selected() *event.Event {
	overlaps := m.cursorOverlaps()
	if len(overlaps) == 0 {
		return nil
	}
	return overlaps[0].Event
}

func (m Model) toggleCalendar(calendar string) (tea.Model, tea.Cmd) {
	visible := m.engine.Visible()
	if visible == nil {
		return m, statusCmd("All calendars are shown")
	}
	visible = visible.Toggle(calendar)
	m.engine.SetVisibleCalendars(visible)
	state := "hidden"
	if visible.Visible(calendar) {
		state = "shown"
	}
	return m, statusCmd(fmt.Sprintf("%s %s", calendar, state))
}

func (m Model) openPrompt(initial string) (tea.Model, tea.Cmd) {
	LogModeChange(m.mode, ModePrompt, "prompt")
	m.mode = ModePrompt
	m.prompt.SetValue(initial)
	m.prompt.CursorEnd()
	return m, m.prompt.Focus()
}

func (m Model) closePrompt() Model {
	LogModeChange(m.mode, ModeNormal, "prompt closed")
	m.mode = ModeNormal
	m.prompt.Blur()
	m.prompt.SetValue("")
	return m
}

// handlePromptKeys handles keys while the prompt is open.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closePrompt(), nil
	case "tab":
		if value, ok := input.PromptAutocomplete(m.prompt.Value(), input.Commands); ok {
			m.prompt.SetValue(value)
			m.prompt.CursorEnd()
		}
		return m, nil
	case "enter":
		value := m.prompt.Value()
		m = m.closePrompt()
		return m.runPrompt(value)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// runPrompt executes a submitted prompt line.
func (m Model) runPrompt(value string) (tea.Model, tea.Cmd) {
	name, arg, err := input.ParseCommand(value)
	if errors.Is(err, input.ErrEmptyInput) {
		return m, nil
	}

	switch name {
	case "/add":
		return m.addAtCursor(arg)
	case "/goto":
		t, err := dateutil.ParseDateTime(arg, m.nowFunc(), m.loc)
		if err != nil {
			return m, errCmd(err)
		}
		m.window = windowShowing(t, m.window.Days)
		m.focusOn(t)
		LogWindow(m.window, "goto")
		return m, nil
	case "/days":
		days, err := strconv.Atoi(arg)
		if err != nil || days < config.MinDays || days > config.MaxDays {
			return m, errCmd(fmt.Errorf("days must be between %d and %d", config.MinDays, config.MaxDays))
		}
		m.setDays(days)
		return m, nil
	case "/toggle":
		if arg == "" {
			return m, errCmd(errors.New("usage: /toggle CALENDAR"))
		}
		return m.toggleCalendar(arg)
	case "/title":
		sel := m.selected()
		if sel == nil {
			return m, statusCmd("Nothing selected")
		}
		edited := sel.Clone()
		if err := edited.SetTitle(arg); err != nil {
			return m, errCmd(err)
		}
		return m, commands.UpdateEvent(m.repo, edited)
	}
	return m, errCmd(fmt.Errorf("unknown command %s", name))
}

// windowShowing returns a window whose top-left cell holds t.
func windowShowing(t time.Time, days int) layout.Window {
	w := layout.NewWindow(dateutil.TruncateToHour(t), days)
	return w.Shift(-time.Duration(w.TotalVisibleSegments()-1) * time.Hour)
}

// focusOn moves the cursor to the cell holding t, if visible.
func (m *Model) focusOn(t time.Time) {
	if pos, ok := cellAt(m.window, t); ok {
		m.cursor = pos
	}
	m.clampCursor()
}

// addAtCursor creates an event starting at the cursor hour.
func (m Model) addAtCursor(arg string) (tea.Model, tea.Cmd) {
	title, length, err := input.ParseAdd(arg)
	if err != nil {
		return m, errCmd(err)
	}
	start, _ := m.cursorHour()
	e, err := event.New(title, start, start.Add(length), event.WithCalendar(m.config.Calendars.Default))
	if err != nil {
		return m, errCmd(err)
	}
	return m, commands.CreateEvent(m.repo, e)
}

// handleConfirmKeys handles the delete confirmation.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	target := m.pending
	switch msg.String() {
	case "y", "enter":
		m.pending = nil
		m.mode = ModeNormal
		if target == nil {
			return m, nil
		}
		return m, commands.DeleteEvent(m.repo, target)
	case "n", "esc", "q":
		m.pending = nil
		LogModeChange(m.mode, ModeNormal, "delete cancelled")
		m.mode = ModeNormal
	}
	return m, nil
}

// handleInitKeys handles the first-run prompt.
func (m Model) handleInitKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "y":
		updated, err := m.initializeStorage()
		if err != nil {
			return m, errCmd(err)
		}
		updated.mode = ModeNormal
		return updated, commands.LoadEvents(updated.repo)
	case "q", "esc", "n":
		return m, tea.Quit
	}
	return m, nil
}

func statusCmd(msg string) tea.Cmd {
	return func() tea.Msg { return commands.StatusMsgCmd{Msg: msg} }
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg { return commands.ErrMsg{Err: err} }
}
