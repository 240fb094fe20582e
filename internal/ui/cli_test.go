package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/spiral/internal/config"
	"github.com/javiermolinar/spiral/internal/db"
	"github.com/javiermolinar/spiral/internal/event"
)

func TestMain(m *testing.M) {
	DisableColor()
	os.Exit(m.Run())
}

// 2025-01-15 is a Wednesday.
var testNow = time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	repo *db.SQLite
	cfg  *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	repo, err := db.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("creating repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(dir, "test.db")
	cfg.UI.Theme = "mocha"
	return &testEnv{repo: repo, cfg: cfg}
}

// run executes one command on a fresh App so flag values never leak
// between invocations.
func (env *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	app := NewApp(env.repo, env.cfg,
		WithNow(func() time.Time { return testNow }),
		WithLocation(time.UTC))
	var out bytes.Buffer
	root := app.Root()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := app.Execute()
	return out.String(), err
}

func (env *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := env.run(t, "", args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func (env *testEnv) create(t *testing.T, title, start, end string) *event.Event {
	t.Helper()
	e, err := event.New(title, parseUTC(t, start), parseUTC(t, end))
	if err != nil {
		t.Fatalf("event.New failed: %v", err)
	}
	if err := env.repo.CreateEvent(context.Background(), e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	return e
}

func parseUTC(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		t.Fatalf("bad time %q: %v", s, err)
	}
	return ts
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestAddAndList(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "add", "Standup", "--start", "2025-01-15 10:00", "--duration", "90")
	assertContains(t, out, "Created event #1: Standup Wed 15 Jan 10:00-11:30 (1h30m) [Home]")

	out = env.mustRun(t, "list")
	assertContains(t, out, "ID", "Standup", "1h30m", "1 events")
}

func TestAdd_WithEndAndCalendar(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "add", "Review", "--start", "14:00", "--end", "15:15", "--calendar", "Work", "--color", "green")
	assertContains(t, out, "Wed 15 Jan 14:00-15:15 (1h15m) [Work]")

	e, err := env.repo.GetEvent(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if e.Color != "green" {
		t.Errorf("Color = %q, want green", e.Color)
	}
}

func TestAdd_NextFreeSlot(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Busy", "2025-01-15 09:30", "2025-01-15 10:30")

	out := env.mustRun(t, "add", "Focus", "--duration", "30m")
	assertContains(t, out, "Wed 15 Jan 10:30-11:00")
}

func TestAdd_Repeat(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "add", "Gym", "--start", "2025-01-15 18:00", "--repeat", "FREQ=DAILY;COUNT=3")
	assertContains(t, out, "Created 3 occurrences")

	all, err := env.repo.ListAllEvents(context.Background())
	if err != nil {
		t.Fatalf("ListAllEvents failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if !all[2].Start.Equal(parseUTC(t, "2025-01-17 18:00")) {
		t.Errorf("third occurrence starts %v", all[2].Start)
	}
}

func TestAdd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad start", []string{"add", "X", "--start", "noon"}},
		{"end before start", []string{"add", "X", "--start", "10:00", "--end", "09:00"}},
		{"unknown color", []string{"add", "X", "--start", "10:00", "--color", "chartreuse"}},
		{"end and duration", []string{"add", "X", "--start", "10:00", "--end", "11:00", "--duration", "30"}},
		{"bad repeat", []string{"add", "X", "--start", "10:00", "--repeat", "FREQ=SOMETIMES"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if _, err := env.run(t, "", tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestList_FiltersCalendars(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Home event", "2025-01-15 10:00", "2025-01-15 11:00")
	hidden := env.create(t, "Gym event", "2025-01-15 12:00", "2025-01-15 13:00")
	hidden.SetCalendar("Gym")
	if err := env.repo.UpdateEvent(context.Background(), hidden); err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}

	out := env.mustRun(t, "list", "--start", "2025-01-15")
	if strings.Contains(out, "Gym event") {
		t.Errorf("hidden calendar listed:\n%s", out)
	}

	out = env.mustRun(t, "list", "--start", "2025-01-15", "--all")
	assertContains(t, out, "Home event", "Gym event")

	out = env.mustRun(t, "list", "--start", "2025-01-15", "--calendar", "Gym")
	assertContains(t, out, "Gym event")
	if strings.Contains(out, "Home event") {
		t.Errorf("--calendar Gym listed Home:\n%s", out)
	}

	out = env.mustRun(t, "list", "--start", "2025-01-20")
	assertContains(t, out, "No events found")
}

func TestList_Week(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Monday", "2025-01-13 10:00", "2025-01-13 11:00")
	env.create(t, "Sunday", "2025-01-19 10:00", "2025-01-19 11:00")
	env.create(t, "Next week", "2025-01-20 10:00", "2025-01-20 11:00")

	out := env.mustRun(t, "list", "--week")
	assertContains(t, out, "Monday", "Sunday", "2 events")
	if strings.Contains(out, "Next week") {
		t.Errorf("--week listed the following week:\n%s", out)
	}

	out = env.mustRun(t, "list", "--week", "--start", "2025-01-22")
	assertContains(t, out, "Next week", "1 events")
}

func TestAdd_OutsideWorkingHoursNote(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "add", "Late call", "--start", "22:00", "--duration", "30m")
	assertContains(t, out, "Note: starts outside working hours", "Wed 15 Jan 22:00-22:30")

	out = env.mustRun(t, "add", "Lunch", "--start", "12:00")
	if strings.Contains(out, "outside working hours") {
		t.Errorf("noon flagged as outside working hours:\n%s", out)
	}
}

func TestMoveAndResize(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Standup", "2025-01-15 10:00", "2025-01-15 11:00")

	out := env.mustRun(t, "move", "1", "--by", "30m")
	assertContains(t, out, "Wed 15 Jan 10:30-11:30 (1h)")

	out = env.mustRun(t, "resize", "1", "--duration", "15")
	assertContains(t, out, "Wed 15 Jan 10:30-10:45 (15m)")

	out = env.mustRun(t, "move", "1", "--to", "2025-01-16 08:00")
	assertContains(t, out, "Thu 16 Jan 08:00-08:15")

	if _, err := env.run(t, "", "move", "1"); err == nil {
		t.Error("move without --to or --by should fail")
	}
	if _, err := env.run(t, "", "resize", "1", "--end", "2025-01-16 07:00"); !errors.Is(err, event.ErrEndBeforeStart) {
		t.Errorf("resize before start: got %v, want ErrEndBeforeStart", err)
	}
}

func TestColorTagDelete(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Standup", "2025-01-15 10:00", "2025-01-15 11:00")

	out := env.mustRun(t, "color", "1", "green")
	assertContains(t, out, "Colored event #1")

	if _, err := env.run(t, "", "color", "1", "chartreuse"); err == nil {
		t.Error("unknown color should fail")
	}

	out = env.mustRun(t, "tag", "1", "Gym")
	assertContains(t, out, "Tagged event #1 as Gym", "is hidden")

	out = env.mustRun(t, "color", "1", "none")
	e, err := env.repo.GetEvent(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if e.Color != "" || e.Calendar != "Gym" {
		t.Errorf("got color %q calendar %q", e.Color, e.Calendar)
	}
	assertContains(t, out, "Colored event #1")

	out = env.mustRun(t, "delete", "1")
	assertContains(t, out, "Deleted event #1")

	if _, err := env.run(t, "", "move", "1", "--by", "1h"); !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("got %v, want ErrEventNotFound", err)
	}
	if _, err := env.run(t, "", "delete", "abc"); err == nil {
		t.Error("non-numeric ID should fail")
	}
}

func TestLayoutCmd(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "A", "2025-01-15 10:00", "2025-01-15 11:00")
	env.create(t, "B", "2025-01-15 10:30", "2025-01-15 11:30")
	env.create(t, "C", "2025-01-15 13:00", "2025-01-15 14:00")
	env.create(t, "Outside", "2025-01-20 13:00", "2025-01-20 14:00")

	out := env.mustRun(t, "layout", "--from", "2025-01-15 00:00", "--days", "1")
	assertContains(t, out, "2 lanes, 2 components", "1/2", "2/2", "1/1", "C1", "C2")
	if strings.Contains(out, "Outside") {
		t.Errorf("event outside the window listed:\n%s", out)
	}

	out = env.mustRun(t, "layout", "--from", "2025-02-01 00:00", "--days", "1")
	assertContains(t, out, "No events in this window.")

	if _, err := env.run(t, "", "layout", "--days", "61"); err == nil {
		t.Error("oversized window should fail")
	}
}

func TestSegmentCmd(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "A", "2025-01-15 10:00", "2025-01-15 11:00")
	env.create(t, "B", "2025-01-15 10:30", "2025-01-15 11:30")

	// (day 0, segment 13) of a two-day window is 10:00-11:00 on the first day.
	out := env.mustRun(t, "segment", "--from", "2025-01-15 00:00", "--days", "2", "--day", "0", "--segment", "13")
	assertContains(t, out, "Segment 10 (day 0, hour 13): Wed 15 Jan 10:00-11:00", ":00-:60", ":30-:60")
	if strings.Index(out, "#1 A") > strings.Index(out, "#2 B") {
		t.Errorf("earlier start should be listed first:\n%s", out)
	}

	out = env.mustRun(t, "segment", "--from", "2025-01-15 00:00", "--days", "2", "--day", "0", "--segment", "0")
	assertContains(t, out, "No events in this segment.")

	if _, err := env.run(t, "", "segment", "--segment", "24"); err == nil {
		t.Error("segment 24 should fail")
	}
}

func TestExportImport(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Standup", "2025-01-15 10:00", "2025-01-15 11:00")
	env.create(t, "Review", "2025-01-16 14:00", "2025-01-16 15:00")

	dir := t.TempDir()
	icsPath := filepath.Join(dir, "calendar.ics")
	out := env.mustRun(t, "export", "--out", icsPath)
	assertContains(t, out, "Exported 2 events")

	data, err := os.ReadFile(icsPath)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	assertContains(t, string(data), "BEGIN:VCALENDAR", "SUMMARY:Standup")

	other := newTestEnv(t)
	out = other.mustRun(t, "import", icsPath)
	assertContains(t, out, "Imported 2 events")

	out = other.mustRun(t, "import", icsPath)
	assertContains(t, out, "Imported 0 events, 2 already present")

	yamlOut := env.mustRun(t, "export", "--format", "yaml")
	assertContains(t, yamlOut, "title: Standup", "title: Review")

	yamlPath := filepath.Join(dir, "events.yaml")
	if err := os.WriteFile(yamlPath, []byte(yamlOut), 0o644); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}
	third := newTestEnv(t)
	out = third.mustRun(t, "import", yamlPath)
	assertContains(t, out, "Imported 2 events")

	if _, err := env.run(t, "", "import", filepath.Join(dir, "missing.ics")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestImport_Stdin(t *testing.T) {
	env := newTestEnv(t)
	doc := `events:
  - title: Lunch
    start: 2025-01-15T12:00:00Z
    duration: 45m
`
	out, err := env.run(t, doc, "import", "-", "--format", "yaml")
	if err != nil {
		t.Fatalf("import failed: %v\n%s", err, out)
	}
	assertContains(t, out, "Imported 1 events")
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format  string
		path    string
		want    string
		wantErr bool
	}{
		{"", "", formatICS, false},
		{"", "out.ics", formatICS, false},
		{"", "out.YML", formatYAML, false},
		{"", "events.yaml", formatYAML, false},
		{"YAML", "out.ics", formatYAML, false},
		{"ical", "", formatICS, false},
		{"csv", "", "", true},
	}

	for _, tt := range tests {
		got, err := resolveFormat(tt.format, tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveFormat(%q, %q) error = %v", tt.format, tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %q, want %q", tt.format, tt.path, got, tt.want)
		}
	}
}

func TestLaneBar(t *testing.T) {
	tests := []struct {
		lane, budget int
		want         string
	}{
		{0, 3, "█░░"},
		{2, 3, "░░█"},
		{0, 1, "█"},
		{0, 0, ""},
	}
	for _, tt := range tests {
		if got := LaneBar(tt.lane, tt.budget); got != tt.want {
			t.Errorf("LaneBar(%d, %d) = %q, want %q", tt.lane, tt.budget, got, tt.want)
		}
	}
}

func TestConfigCmd(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := env.run(t, "n\n", "config", "--file", path)
	if err != nil {
		t.Fatalf("config failed: %v\n%s", err, out)
	}
	assertContains(t, out, "Created "+path, "[window]", "days       = 7")

	// Change days and keep every other default.
	out, err = env.run(t, "y\n14\n\n\n\n\n\n\n\n\n", "config", "--file", path)
	if err != nil {
		t.Fatalf("config edit failed: %v\n%s", err, out)
	}
	assertContains(t, out, "Configuration saved!")

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Window.Days != 14 {
		t.Errorf("Days = %d, want 14", cfg.Window.Days)
	}
}

func TestVersionCmd(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun(t, "version")
	assertContains(t, out, "spiral dev")
}
