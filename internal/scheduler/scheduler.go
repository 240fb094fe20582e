// Package scheduler finds free time for new events.
package scheduler

import (
	"errors"
	"strings"
	"time"

	"github.com/javiermolinar/spiral/internal/event"
)

// searchDays bounds how far ahead NextFreeSlot looks.
const searchDays = 14

// ErrNoFreeSlot is returned when no gap fits within the search horizon.
var ErrNoFreeSlot = errors.New("no free slot found")

// Scheduler provides time-aware scheduling operations.
type Scheduler struct {
	workdays map[string]bool
	dayStart string // "HH:MM"
	dayEnd   string // "HH:MM"
}

// New creates a new Scheduler with the given configuration.
// An empty workdays list means every day is a workday.
func New(workdays []string, dayStart, dayEnd string) *Scheduler {
	wd := make(map[string]bool)
	for _, d := range workdays {
		wd[strings.ToLower(d)] = true
	}
	if len(wd) == 0 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			wd[strings.ToLower(d.String())] = true
		}
	}
	return &Scheduler{
		workdays: wd,
		dayStart: dayStart,
		dayEnd:   dayEnd,
	}
}

// NextFreeSlot returns the earliest start at or after from, rounded up to 15
// minutes and inside work hours, where an event of the given duration
// overlaps none of the valid events.
func (s *Scheduler) NextFreeSlot(events []*event.Event, from time.Time, duration time.Duration) (time.Time, error) {
	if duration <= 0 {
		return time.Time{}, event.ErrEndBeforeStart
	}

	day := startOfDay(from)
	for range searchDays {
		if s.IsWorkday(day) {
			open := day.Add(time.Duration(parseTime(s.dayStart)) * time.Minute)
			closing := day.Add(time.Duration(parseTime(s.dayEnd)) * time.Minute)
			start := open
			if from.After(open) {
				start = roundUpTo15Min(from)
			}
			for !start.Add(duration).After(closing) {
				blocker := firstBlocker(events, start, start.Add(duration))
				if blocker == nil {
					return start, nil
				}
				start = roundUpTo15Min(blocker.End)
			}
		}
		day = day.AddDate(0, 0, 1)
	}

	return time.Time{}, ErrNoFreeSlot
}

// firstBlocker returns the overlapping event that ends last, so the search
// can skip past all of them at once.
func firstBlocker(events []*event.Event, start, end time.Time) *event.Event {
	var blocker *event.Event
	for _, e := range events {
		if !e.Overlaps(start, end) {
			continue
		}
		if blocker == nil || e.End.After(blocker.End) {
			blocker = e
		}
	}
	return blocker
}

// IsWorkday returns true if the given time falls on a configured workday.
func (s *Scheduler) IsWorkday(t time.Time) bool {
	weekday := strings.ToLower(t.Weekday().String())
	return s.workdays[weekday]
}

// IsWithinWorkHours returns true if the given time is within configured work hours.
func (s *Scheduler) IsWithinWorkHours(t time.Time) bool {
	if !s.IsWorkday(t) {
		return false
	}
	nowTime := t.Format("15:04")
	return nowTime >= s.dayStart && nowTime < s.dayEnd
}

// DayStart returns the configured day start time.
func (s *Scheduler) DayStart() string {
	return s.dayStart
}

// DayEnd returns the configured day end time.
func (s *Scheduler) DayEnd() string {
	return s.dayEnd
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// roundUpTo15Min rounds a time up to the next 15-minute boundary.
func roundUpTo15Min(t time.Time) time.Time {
	minute := t.Minute()
	remainder := minute % 15
	if remainder == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t
	}
	return t.Add(time.Duration(15-remainder) * time.Minute).Truncate(time.Minute)
}

// parseTime parses "HH:MM" to minutes since midnight.
func parseTime(s string) int {
	if len(s) < 5 {
		return 0
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + m
}
