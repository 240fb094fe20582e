// Package ui provides the spiral command line interface.
package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/spiral/internal/config"
	"github.com/javiermolinar/spiral/internal/db"
	"github.com/javiermolinar/spiral/internal/debuglog"
	"github.com/javiermolinar/spiral/internal/event"
	"github.com/javiermolinar/spiral/internal/layout"
	"github.com/javiermolinar/spiral/internal/palette"
	"github.com/javiermolinar/spiral/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo    event.Repository
	ownRepo bool // repo was opened by the app and must be closed
	config  *config.Config
	root    *cobra.Command
	debug   bool // Enable debug logging
	now     func() time.Time
	loc     *time.Location // display and input zone
	palette *palette.Palette
}

// AppOption configures optional App behavior.
type AppOption func(*App)

// WithNow overrides the clock.
func WithNow(now func() time.Time) AppOption {
	return func(a *App) { a.now = now }
}

// WithLocation sets the zone used to parse and print times.
func WithLocation(loc *time.Location) AppOption {
	return func(a *App) { a.loc = loc }
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repository is opened lazily from the configured path.
func NewApp(repo event.Repository, cfg *config.Config, opts ...AppOption) *App {
	a := &App{repo: repo, config: cfg, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(a)
	}

	theme, err := palette.Load(cfg.UI.Theme)
	if err != nil {
		theme = nil
	}
	a.palette = palette.New(theme)

	a.root = &cobra.Command{
		Use:   "spiral",
		Short: "A spiral calendar for the terminal",
		Long: `Spiral lays out your calendar as a spiral of hours.

Events that overlap share lanes; the TUI shows the visible window
as one row per day and one cell per hour.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return debuglog.Init(a.debug)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			debuglog.Close()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.Run(a.repo, a.config)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging to "+debuglog.DefaultPath)

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.resizeCmd())
	a.root.AddCommand(a.colorCmd())
	a.root.AddCommand(a.tagCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.layoutCmd())
	a.root.AddCommand(a.segmentCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spiral %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Root exposes the root command, mainly for tests.
func (a *App) Root() *cobra.Command {
	return a.root
}

// Close releases the repository if the app opened it.
func (a *App) Close() error {
	if a.ownRepo && a.repo != nil {
		return a.repo.Close()
	}
	return nil
}

// ensureRepo opens the configured database on first use.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	path := a.config.Storage.DBPath
	if path == "" {
		return fmt.Errorf("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(path)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	a.repo = repo
	a.ownRepo = true
	return nil
}

// loadEvents returns every stored event as a versioned list.
func (a *App) loadEvents(ctx context.Context) (*event.List, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	events, err := a.repo.ListAllEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return event.NewList(events), nil
}

// getEvent parses an ID argument and loads the event.
func (a *App) getEvent(ctx context.Context, arg string) (*event.Event, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}
	e, err := a.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// saveEvent persists an edited event and logs failures.
func (a *App) saveEvent(ctx context.Context, e *event.Event) error {
	if err := a.repo.UpdateEvent(ctx, e); err != nil {
		debuglog.Error("EVENT_UPDATE_FAILED", err, map[string]any{"id": e.ID})
		return fmt.Errorf("updating event: %w", err)
	}
	return nil
}

// window builds the layout window from flag values.
func (a *App) window(from string, days int) (layout.Window, error) {
	ref := a.config.Reference(a.now())
	if from != "" {
		t, err := a.parseWhen(from)
		if err != nil {
			return layout.Window{}, err
		}
		ref = t
	}
	if days <= 0 {
		days = a.config.Window.Days
	}
	if days > config.MaxDays {
		return layout.Window{}, fmt.Errorf("days must be at most %d", config.MaxDays)
	}
	return layout.NewWindow(ref, days), nil
}

// visibleFilter returns the configured calendar filter, or nil when all is set.
func (a *App) visibleFilter(all bool) layout.CalendarFilter {
	if all {
		return nil
	}
	return layout.NewCalendarFilter(a.config.Calendars.Visible...)
}
