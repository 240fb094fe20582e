package tui

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/javiermolinar/spiral/internal/config"
	"github.com/javiermolinar/spiral/internal/db"
	"github.com/javiermolinar/spiral/internal/event"
)

// InitState describes the files spiral still has to create on first run.
// The config fields echo what will be written to the new config file.
type InitState struct {
	NeedsInit     bool
	ConfigMissing bool
	DBMissing     bool
	ConfigPath    string
	DBPath        string

	Theme           string
	Calendars       []string
	DefaultCalendar string
	Days            int
}

// DetectInitState reports which of the config file and event database are
// missing for cfg.
func DetectInitState(cfg *config.Config) (InitState, error) {
	state := InitState{
		ConfigPath:      config.DefaultConfigPath(),
		DBPath:          cfg.Storage.DBPath,
		Theme:           cfg.UI.Theme,
		Calendars:       cfg.Calendars.Visible,
		DefaultCalendar: cfg.Calendars.Default,
		Days:            cfg.Window.Days,
	}

	var err error
	if state.ConfigMissing, err = missing(state.ConfigPath); err != nil {
		return InitState{}, fmt.Errorf("checking config path: %w", err)
	}
	if state.DBMissing, err = missing(state.DBPath); err != nil {
		return InitState{}, fmt.Errorf("checking db path: %w", err)
	}
	state.NeedsInit = state.ConfigMissing || state.DBMissing
	return state, nil
}

// Pending lists one line per file to be created.
func (s InitState) Pending() []string {
	var lines []string
	if s.ConfigMissing {
		lines = append(lines, fmt.Sprintf("config: %s (theme %s, calendars %s, default %s, %d-day spiral)",
			s.ConfigPath, s.Theme, strings.Join(s.Calendars, ", "), s.DefaultCalendar, s.Days))
	}
	if s.DBMissing {
		lines = append(lines, fmt.Sprintf("events: %s", s.DBPath))
	}
	return lines
}

func missing(path string) (bool, error) {
	if path == "" {
		return true, nil
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, fs.ErrNotExist):
		return true, nil
	default:
		return false, err
	}
}

func openRepo(dbPath string) (event.Repository, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening event database: %w", err)
	}
	return repo, nil
}

// initializeStorage runs once the user accepts the first-run prompt. It
// writes the config with the theme and calendars shown in the prompt, then
// opens the event database.
func (m Model) initializeStorage() (Model, error) {
	if m.initState.ConfigMissing {
		if err := m.config.SaveTo(m.initState.ConfigPath); err != nil {
			return m, fmt.Errorf("saving config: %w", err)
		}
	}
	if m.repo == nil {
		repo, err := openRepo(m.initState.DBPath)
		if err != nil {
			return m, err
		}
		m.repo = repo
	}
	m.initState = InitState{}
	return m, nil
}
