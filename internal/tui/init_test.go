package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javiermolinar/spiral/internal/config"
)

func TestDetectInitState(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.Storage.DBPath = filepath.Join(dir, "spiral.db")

	state, err := DetectInitState(cfg)
	if err != nil {
		t.Fatalf("DetectInitState() error = %v", err)
	}
	if !state.DBMissing || !state.NeedsInit {
		t.Errorf("fresh dir: DBMissing=%v NeedsInit=%v, want both true", state.DBMissing, state.NeedsInit)
	}
	if state.ConfigPath != config.DefaultConfigPath() {
		t.Errorf("ConfigPath = %q, want %q", state.ConfigPath, config.DefaultConfigPath())
	}
	if state.Theme != "mocha" || state.Days != 2 || state.DefaultCalendar != "Home" {
		t.Errorf("state = %+v, want config values carried over", state)
	}
	if strings.Join(state.Calendars, ",") != "Home,Work" {
		t.Errorf("Calendars = %v", state.Calendars)
	}

	if err := os.WriteFile(cfg.Storage.DBPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	state, err = DetectInitState(cfg)
	if err != nil {
		t.Fatalf("DetectInitState() error = %v", err)
	}
	if state.DBMissing {
		t.Error("existing database reported missing")
	}
}

func TestInitStatePending(t *testing.T) {
	tests := []struct {
		name  string
		state InitState
		want  []string
	}{
		{
			name: "config and database",
			state: InitState{
				ConfigMissing: true, DBMissing: true,
				ConfigPath: "/c/config.toml", DBPath: "/d/spiral.db",
				Theme: "latte", Calendars: []string{"Home", "Work"}, DefaultCalendar: "Work", Days: 14,
			},
			want: []string{
				"config: /c/config.toml (theme latte, calendars Home, Work, default Work, 14-day spiral)",
				"events: /d/spiral.db",
			},
		},
		{
			name:  "database only",
			state: InitState{DBMissing: true, DBPath: "/d/spiral.db", Theme: "latte"},
			want:  []string{"events: /d/spiral.db"},
		},
		{
			name:  "nothing missing",
			state: InitState{ConfigPath: "/c/config.toml"},
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.state.Pending()
			if strings.Join(got, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("Pending() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInitializeStorage(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.UI.Theme = "latte"
	state := InitState{
		NeedsInit:     true,
		ConfigMissing: true,
		DBMissing:     true,
		ConfigPath:    filepath.Join(dir, "config", "config.toml"),
		DBPath:        filepath.Join(dir, "data", "spiral.db"),
	}
	m := New(nil, cfg, WithInitState(state))

	m2, err := m.initializeStorage()
	if err != nil {
		t.Fatalf("initializeStorage() error = %v", err)
	}
	if m2.repo == nil {
		t.Fatal("repository not opened")
	}
	t.Cleanup(func() { m2.repo.Close() })
	if m2.initState.NeedsInit {
		t.Error("init state not cleared")
	}
	if _, err := os.Stat(state.DBPath); err != nil {
		t.Errorf("database not created: %v", err)
	}
	saved, err := config.LoadFrom(state.ConfigPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if saved.UI.Theme != "latte" || saved.Window.Days != 2 {
		t.Errorf("saved config theme=%q days=%d, want latte/2", saved.UI.Theme, saved.Window.Days)
	}
}
