// Package layout assigns calendar events to lanes over a visible window and
// groups overlapping events into components.
package layout

import (
	"time"

	"github.com/javiermolinar/spiral/internal/event"
)

const (
	// SegmentsPerDay is the number of one-hour segments in a day.
	SegmentsPerDay = 24
	// MinDays is the smallest window length.
	MinDays = 1
)

// Source is the live event set consumed by the engine.
type Source interface {
	Events() []*event.Event
	Version() uint64
}

// Window is the visible time range [Reference, Reference+Days*24h).
type Window struct {
	Reference time.Time
	Days      int
}

// NewWindow returns a window clamped to at least one day, in UTC.
func NewWindow(reference time.Time, days int) Window {
	if days < MinDays {
		days = MinDays
	}
	return Window{Reference: reference.UTC(), Days: days}
}

func (w Window) days() int {
	if w.Days < MinDays {
		return MinDays
	}
	return w.Days
}

// Start returns the window start instant.
func (w Window) Start() time.Time {
	return w.Reference
}

// End returns the exclusive window end instant.
func (w Window) End() time.Time {
	return w.Reference.Add(time.Duration(w.days()) * 24 * time.Hour)
}

// Hours returns the number of hourly buckets in the window.
func (w Window) Hours() int {
	return w.days() * SegmentsPerDay
}

// Bucket returns the i-th hourly bucket [start, start+1h) of the window.
func (w Window) Bucket(i int) (start, end time.Time) {
	start = w.Reference.Add(time.Duration(i) * time.Hour)
	return start, start.Add(time.Hour)
}

// TotalVisibleSegments returns (days-1)*24, the base of the segment mapping.
func (w Window) TotalVisibleSegments() int {
	return (w.days() - 1) * SegmentsPerDay
}

// SegmentID maps (day, segment) to an absolute hour offset from Reference.
// Later absolute ids map to smaller day values; the spiral drawing relies on
// this inversion.
func (w Window) SegmentID(day, segment int) int {
	return w.TotalVisibleSegments() - (day*SegmentsPerDay + segment) - 1
}

// SegmentHour returns the hour bucket [start, start+1h) of (day, segment).
func (w Window) SegmentHour(day, segment int) (start, end time.Time) {
	return w.Bucket(w.SegmentID(day, segment))
}

// Shift returns the window moved by d.
func (w Window) Shift(d time.Duration) Window {
	return Window{Reference: w.Reference.Add(d), Days: w.Days}
}

// WithDays returns the window with a new length, clamped to MinDays.
func (w Window) WithDays(days int) Window {
	return NewWindow(w.Reference, days)
}
