package integration

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/spiral/internal/db"
	"github.com/javiermolinar/spiral/internal/event"
	"github.com/javiermolinar/spiral/internal/eventfile"
	"github.com/javiermolinar/spiral/internal/ics"
	"github.com/javiermolinar/spiral/internal/layout"
	"github.com/javiermolinar/spiral/internal/palette"
)

// openRepo creates a fresh repository for each test with automatic cleanup.
func openRepo(t *testing.T) *db.SQLite {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// mustParse parses a "2006-01-02 15:04" UTC timestamp or fails the test.
func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", s, err)
	}
	return ts
}

// seed stores the fixture week used by most tests:
//
//	A 09:00-11:00 Home, B 10:00-12:00 Work, C 10:30-10:45 Home
//	D 14:00-15:00 Home, E next day 09:00-10:00 Work
func seed(t *testing.T, repo *db.SQLite) {
	t.Helper()
	fixtures := []struct {
		title, start, end, calendar string
	}{
		{"A", "2025-03-10 09:00", "2025-03-10 11:00", "Home"},
		{"B", "2025-03-10 10:00", "2025-03-10 12:00", "Work"},
		{"C", "2025-03-10 10:30", "2025-03-10 10:45", "Home"},
		{"D", "2025-03-10 14:00", "2025-03-10 15:00", "Home"},
		{"E", "2025-03-11 09:00", "2025-03-11 10:00", "Work"},
	}

	events := make([]*event.Event, 0, len(fixtures))
	for _, f := range fixtures {
		e, err := event.New(f.title, mustParse(t, f.start), mustParse(t, f.end), event.WithCalendar(f.calendar))
		if err != nil {
			t.Fatalf("failed to build %s: %v", f.title, err)
		}
		events = append(events, e)
	}
	if err := repo.CreateEvents(context.Background(), events); err != nil {
		t.Fatalf("failed to store fixtures: %v", err)
	}
}

func testWindow(t *testing.T) layout.Window {
	t.Helper()
	return layout.NewWindow(mustParse(t, "2025-03-10 00:00"), 2)
}

// loadWindow reads the events overlapping w from the repository.
func loadWindow(t *testing.T, repo *db.SQLite, w layout.Window) *event.List {
	t.Helper()
	events, err := repo.ListEventsInRange(context.Background(), w.Start(), w.End())
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	return event.NewList(events)
}

func byTitle(t *testing.T, list *event.List, title string) *event.Event {
	t.Helper()
	for _, e := range list.Events() {
		if e.Title == title {
			return e
		}
	}
	t.Fatalf("event %q not found", title)
	return nil
}

func lanesByTitle(l *layout.Layout) map[string]int {
	out := make(map[string]int, len(l.Lanes))
	for e, lane := range l.Lanes {
		out[e.Title] = lane
	}
	return out
}

func TestLayoutFromStoredEvents(t *testing.T) {
	repo := openRepo(t)
	seed(t, repo)
	w := testWindow(t)

	list := loadWindow(t, repo, w)
	if list.Len() != 5 {
		t.Fatalf("got %d events, want 5", list.Len())
	}
	engine := layout.NewEngine(list)
	l := engine.Layout(w)

	wantLanes := map[string]int{"A": 0, "B": 1, "C": 2, "D": 0, "E": 0}
	got := lanesByTitle(l)
	for title, lane := range wantLanes {
		if got[title] != lane {
			t.Errorf("lane of %s = %d, want %d", title, got[title], lane)
		}
	}
	if l.NumLanes != 3 {
		t.Errorf("NumLanes = %d, want 3", l.NumLanes)
	}
	if len(l.Components) != 3 {
		t.Fatalf("got %d components, want 3", len(l.Components))
	}

	a, b, c, d := byTitle(t, list, "A"), byTitle(t, list, "B"), byTitle(t, list, "C"), byTitle(t, list, "D")
	ca, _ := l.Component(a)
	cb, _ := l.Component(b)
	cc, _ := l.Component(c)
	cd, _ := l.Component(d)
	if ca != cb || cb != cc {
		t.Error("A, B and C should share a component")
	}
	if cd == ca {
		t.Error("D should be in its own component")
	}
	if l.LaneBudget(a) != 3 || l.LaneBudget(d) != 1 {
		t.Errorf("lane budgets A=%d D=%d, want 3 and 1", l.LaneBudget(a), l.LaneBudget(d))
	}
}

func TestLayoutStableAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spiral.db")
	w := testWindow(t)

	repo, err := db.New(path)
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	seed(t, repo)
	first := lanesByTitle(layout.NewEngine(loadWindow(t, repo, w)).Layout(w))
	if err := repo.Close(); err != nil {
		t.Fatalf("failed to close repo: %v", err)
	}

	reopened, err := db.New(path)
	if err != nil {
		t.Fatalf("failed to reopen repo: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	second := lanesByTitle(layout.NewEngine(loadWindow(t, reopened, w)).Layout(w))

	if len(first) != len(second) {
		t.Fatalf("lane maps differ in size: %v vs %v", first, second)
	}
	for title, lane := range first {
		if second[title] != lane {
			t.Errorf("lane of %s changed from %d to %d", title, lane, second[title])
		}
	}
}

func TestSegmentOverlapsFromStoredEvents(t *testing.T) {
	repo := openRepo(t)
	seed(t, repo)
	w := testWindow(t)
	list := loadWindow(t, repo, w)

	// The hour 2025-03-10 10:00 is absolute id 10: day 0, segment 13.
	start, _ := w.SegmentHour(0, 13)
	if !start.Equal(mustParse(t, "2025-03-10 10:00")) {
		t.Fatalf("segment hour = %v", start)
	}

	engine := layout.NewEngine(list)
	overlaps := engine.Segment(w, 0, 13)
	titles := make([]string, len(overlaps))
	for i, o := range overlaps {
		titles[i] = o.Event.Title
	}
	if strings.Join(titles, ",") != "A,B,C" {
		t.Fatalf("overlap order = %v, want A,B,C", titles)
	}
	c := overlaps[2]
	if c.StartMinute != 30 || c.EndMinute != 45 || c.TotalDurationMinutes != 15 {
		t.Errorf("C overlap = %+v", c)
	}

	engine.SetVisibleCalendars(layout.NewCalendarFilter("Home"))
	if got := len(engine.Segment(w, 0, 13)); got != 2 {
		t.Errorf("with Work hidden got %d overlaps, want 2", got)
	}
	if lanesByTitle(engine.Layout(w))["C"] != 2 {
		t.Error("hiding Work moved C out of its lane")
	}
}

func TestDeleteRebuildsLayout(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	seed(t, repo)
	w := testWindow(t)

	list := loadWindow(t, repo, w)
	engine := layout.NewEngine(list)
	if engine.Layout(w).NumLanes != 3 {
		t.Fatal("expected three lanes before delete")
	}

	c := byTitle(t, list, "C")
	if err := repo.DeleteEvent(ctx, c.ID); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if err := list.Remove(c); err != nil {
		t.Fatalf("failed to remove from list: %v", err)
	}

	l := engine.Layout(w)
	if l.NumLanes != 2 {
		t.Errorf("NumLanes = %d after delete, want 2", l.NumLanes)
	}
	if _, ok := l.Lane(c); ok {
		t.Error("deleted event still has a lane")
	}
	if _, err := repo.GetEvent(ctx, c.ID); err == nil {
		t.Error("deleted event still stored")
	}
}

func TestRescheduleRebuildsLayout(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	seed(t, repo)
	w := testWindow(t)

	list := loadWindow(t, repo, w)
	engine := layout.NewEngine(list)
	before := engine.Layout(w)

	d := byTitle(t, list, "D")
	if err := d.Reschedule(mustParse(t, "2025-03-10 10:15"), mustParse(t, "2025-03-10 10:50")); err != nil {
		t.Fatalf("failed to reschedule: %v", err)
	}
	if err := repo.UpdateEvent(ctx, d); err != nil {
		t.Fatalf("failed to update: %v", err)
	}
	list.Touch()

	after := engine.Layout(w)
	if after == before {
		t.Fatal("layout was not rebuilt")
	}
	if after.NumLanes != 4 {
		t.Errorf("NumLanes = %d, want 4", after.NumLanes)
	}
	if got := len(after.Components); got != 2 {
		t.Errorf("got %d components, want 2", got)
	}

	stored, err := repo.GetEvent(ctx, d.ID)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if !stored.Start.Equal(d.Start) || !stored.End.Equal(d.End) {
		t.Errorf("stored %v-%v, want %v-%v", stored.Start, stored.End, d.Start, d.End)
	}
}

func TestICSRoundTripKeepsLayout(t *testing.T) {
	src := openRepo(t)
	ctx := context.Background()
	seed(t, src)
	w := testWindow(t)

	theme, err := palette.Load("mocha")
	if err != nil {
		t.Fatalf("failed to load theme: %v", err)
	}
	events, err := src.ListAllEvents(ctx)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	data, err := ics.Export(events, ics.ExportOptions{Colors: palette.New(theme)})
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}

	res, err := ics.Import(strings.NewReader(data), ics.ImportOptions{DefaultCalendar: "Home"})
	if err != nil {
		t.Fatalf("failed to import: %v", err)
	}
	if len(res.Events) != len(events) || res.Skipped != 0 {
		t.Fatalf("imported %d events (%d skipped), want %d", len(res.Events), res.Skipped, len(events))
	}

	dst := openRepo(t)
	if err := dst.CreateEvents(ctx, res.Events); err != nil {
		t.Fatalf("failed to store imported events: %v", err)
	}

	want := lanesByTitle(layout.NewEngine(loadWindow(t, src, w)).Layout(w))
	got := lanesByTitle(layout.NewEngine(loadWindow(t, dst, w)).Layout(w))
	for title, lane := range want {
		if got[title] != lane {
			t.Errorf("lane of %s = %d after round trip, want %d", title, got[title], lane)
		}
	}

	for _, e := range res.Events {
		if e.Title == "B" && e.Calendar != "Work" {
			t.Errorf("B calendar = %q, want Work", e.Calendar)
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	src := openRepo(t)
	ctx := context.Background()
	seed(t, src)

	events, err := src.ListAllEvents(ctx)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	var buf bytes.Buffer
	if err := eventfile.Write(&buf, events); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	decoded, err := eventfile.Read(&buf, "Home")
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	if len(decoded) != len(events) {
		t.Fatalf("decoded %d events, want %d", len(decoded), len(events))
	}
	for i, e := range decoded {
		orig := events[i]
		if e.Title != orig.Title || !e.Start.Equal(orig.Start) || !e.End.Equal(orig.End) || e.Calendar != orig.Calendar {
			t.Errorf("event %d = %+v, want %+v", i, e, orig)
		}
	}
}
