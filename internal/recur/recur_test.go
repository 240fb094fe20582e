package recur

import (
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/spiral/internal/event"
)

func baseEvent(t *testing.T) *event.Event {
	t.Helper()
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC) // Monday
	e, err := event.New("Standup", start, start.Add(15*time.Minute), event.WithCalendar("Work"), event.WithColor("green"))
	if err != nil {
		t.Fatalf("event.New failed: %v", err)
	}
	return e
}

func TestExpand_Count(t *testing.T) {
	base := baseEvent(t)

	got, err := Expand(base, "FREQ=DAILY;COUNT=3", Options{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d occurrences, want 3", len(got))
	}

	uids := make(map[string]bool)
	for i, occ := range got {
		wantStart := base.Start.AddDate(0, 0, i)
		if !occ.Start.Equal(wantStart) {
			t.Errorf("occurrence %d starts %v, want %v", i, occ.Start, wantStart)
		}
		if occ.Duration() != 15*time.Minute {
			t.Errorf("occurrence %d duration %v", i, occ.Duration())
		}
		if occ.Calendar != "Work" || occ.Color != "green" || occ.Title != "Standup" {
			t.Errorf("occurrence %d lost metadata: %+v", i, occ)
		}
		uids[occ.UID] = true
	}
	if len(uids) != 3 {
		t.Errorf("got %d distinct UIDs, want 3", len(uids))
	}
	if got[0].UID != base.UID {
		t.Error("first occurrence should keep the base UID")
	}
	if got[1] == base || got[0] == base {
		t.Error("occurrences must be copies")
	}
}

func TestExpand_WeekdaysUntil(t *testing.T) {
	base := baseEvent(t)
	until := time.Date(2025, 1, 19, 23, 59, 0, 0, time.UTC)

	got, err := Expand(base, "RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR", Options{Until: until})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	// Two weeks of Mon/Wed/Fri.
	if len(got) != 6 {
		t.Fatalf("got %d occurrences, want 6", len(got))
	}
	for _, occ := range got {
		switch occ.Start.Weekday() {
		case time.Monday, time.Wednesday, time.Friday:
		default:
			t.Errorf("unexpected weekday %v", occ.Start.Weekday())
		}
	}
}

func TestExpand_MaxAndExDates(t *testing.T) {
	base := baseEvent(t)

	got, err := Expand(base, "FREQ=DAILY", Options{
		Max:     4,
		ExDates: []time.Time{base.Start.AddDate(0, 0, 1)},
	})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d occurrences, want 4", len(got))
	}
	if got[1].Start.Equal(base.Start.AddDate(0, 0, 1)) {
		t.Error("excluded date was expanded")
	}
}

func TestExpand_Errors(t *testing.T) {
	base := baseEvent(t)

	if _, err := Expand(base, "  ", Options{}); !errors.Is(err, ErrEmptyRule) {
		t.Errorf("empty rule err = %v", err)
	}
	if _, err := Expand(base, "FREQ=SOMETIMES", Options{}); err == nil {
		t.Error("expected error for invalid FREQ")
	}

	broken := &event.Event{Title: "x", Start: base.Start, End: base.Start}
	if _, err := Expand(broken, "FREQ=DAILY;COUNT=2", Options{}); !errors.Is(err, event.ErrEndBeforeStart) {
		t.Errorf("invalid base err = %v", err)
	}
}
