// Package tui provides the terminal spiral view for spiral.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/spiral/internal/config"
	"github.com/javiermolinar/spiral/internal/event"
	"github.com/javiermolinar/spiral/internal/layout"
	"github.com/javiermolinar/spiral/internal/palette"
	"github.com/javiermolinar/spiral/internal/tui/commands"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt
	ModeConfirm // confirm deleting an event
	ModeInit    // first run, storage not created yet
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModePrompt:
		return "Prompt"
	case ModeConfirm:
		return "Confirm"
	case ModeInit:
		return "Init"
	default:
		return "Unknown"
	}
}

// Position is a (day, segment) cell of the grid. Day 0 is the top row.
type Position struct {
	Day     int
	Segment int
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo   event.Repository
	config *config.Config

	// Theme and styles
	palette *palette.Palette
	styles  *Styles

	// Event state. The list is only mutated from Update.
	list   *event.List
	engine *layout.Engine
	window layout.Window

	// State
	cursor  Position
	mode    Mode
	loading bool

	// Components
	keys   keyMap
	help   help.Model
	prompt textinput.Model

	// Delete confirmation target
	pending *event.Event

	initState InitState

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string    // Temporary status/error message
	statusTime time.Time // When to clear message

	err     error
	nowFunc func() time.Time
	loc     *time.Location
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithInitState sets the startup initialization state.
func WithInitState(state InitState) ModelOption {
	return func(m *Model) {
		m.initState = state
		if state.NeedsInit {
			m.mode = ModeInit
		}
	}
}

// WithNow overrides the clock.
func WithNow(now func() time.Time) ModelOption {
	return func(m *Model) { m.nowFunc = now }
}

// WithLocation sets the zone used for labels and typed times.
func WithLocation(loc *time.Location) ModelOption {
	return func(m *Model) { m.loc = loc }
}

// New creates a new TUI model.
func New(repo event.Repository, cfg *config.Config, opts ...ModelOption) *Model {
	theme, err := palette.Load(cfg.UI.Theme)
	if err != nil {
		theme = nil
	}
	p := palette.New(theme)
	styles := NewStyles(p)

	ti := textinput.New()
	ti.Placeholder = "Title [duration] or /command"
	ti.CharLimit = 256
	ti.PromptStyle = styles.PromptStyle
	ti.TextStyle = styles.PromptStyle
	ti.PlaceholderStyle = styles.HelpStyle

	h := help.New()
	h.Styles.ShortKey = styles.StatusStyle
	h.Styles.ShortDesc = styles.HelpStyle
	h.Styles.FullKey = styles.StatusStyle
	h.Styles.FullDesc = styles.HelpStyle

	list := event.NewList(nil)
	m := &Model{
		repo:    repo,
		config:  cfg,
		palette: p,
		styles:  styles,
		list:    list,
		engine: layout.NewEngine(list,
			layout.WithVisibleCalendars(layout.NewCalendarFilter(cfg.Calendars.Visible...)),
			layout.WithColors(p)),
		mode:    ModeNormal,
		loading: true,
		keys:    newKeyMap(),
		help:    h,
		prompt:  ti,
		nowFunc: time.Now,
		loc:     time.Local,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.window = layout.NewWindow(cfg.Reference(m.nowFunc()), cfg.Window.Days)
	m.focusNow()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.initState.NeedsInit || m.repo == nil {
		return nil
	}
	return commands.LoadEvents(m.repo)
}

// focusNow moves the cursor to the current hour if it is visible.
func (m *Model) focusNow() {
	if pos, ok := cellAt(m.window, m.nowFunc()); ok {
		m.cursor = pos
	}
	m.clampCursor()
}

// Run starts the TUI. A nil repository is opened from the configured path,
// asking first when the config or database does not exist yet.
func Run(repo event.Repository, cfg *config.Config) error {
	initialRepo := repo
	var initState InitState

	if repo == nil {
		state, err := DetectInitState(cfg)
		if err != nil {
			return err
		}
		initState = state
		if !state.NeedsInit {
			repo, err = openRepo(state.DBPath)
			if err != nil {
				return err
			}
		}
	}

	model := New(repo, cfg, WithInitState(initState))
	p := tea.NewProgram(*model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if initialRepo == nil {
		if m, ok := finalModel.(Model); ok && m.repo != nil {
			_ = m.repo.Close()
		}
	}
	return err
}
