package layout

import (
	"sort"
	"strings"

	"github.com/javiermolinar/spiral/internal/event"
)

// ColorResolver turns an event color value into a display color.
type ColorResolver interface {
	Resolve(color, calendar string) string
}

// CalendarFilter is the set of visible calendar tags.
// A nil filter shows every calendar.
type CalendarFilter map[string]struct{}

// NewCalendarFilter returns a filter showing the named calendars.
func NewCalendarFilter(names ...string) CalendarFilter {
	f := make(CalendarFilter, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			f[n] = struct{}{}
		}
	}
	return f
}

// Visible reports whether the calendar is shown.
func (f CalendarFilter) Visible(calendar string) bool {
	if f == nil {
		return true
	}
	if calendar == "" {
		calendar = event.DefaultCalendar
	}
	_, ok := f[calendar]
	return ok
}

// Toggle flips a calendar's visibility and returns the new filter.
func (f CalendarFilter) Toggle(calendar string) CalendarFilter {
	if f == nil {
		return f
	}
	out := make(CalendarFilter, len(f)+1)
	for k := range f {
		out[k] = struct{}{}
	}
	if _, ok := out[calendar]; ok {
		delete(out, calendar)
	} else {
		out[calendar] = struct{}{}
	}
	return out
}

// Names returns the visible calendars sorted by name.
func (f CalendarFilter) Names() []string {
	names := make([]string, 0, len(f))
	for k := range f {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Overlap is the visible part of one event inside a one-hour segment.
type Overlap struct {
	Event *event.Event
	Color string

	// StartMinute and EndMinute bound the covered part of the hour, 0..60.
	StartMinute float64
	EndMinute   float64

	// Full, unclipped event extent.
	TotalDurationMinutes float64
	StartUTCMs           int64
	EndUTCMs             int64
}

// SegmentOverlaps returns the events visible in segment (day, segment) of w.
// Events on hidden calendars are skipped before overlap testing. The result
// is ordered longer events first, then earlier start, then list order.
func SegmentOverlaps(events []*event.Event, w Window, day, segment int, visible CalendarFilter, colors ColorResolver) []Overlap {
	hourStart, hourEnd := w.SegmentHour(day, segment)

	var out []Overlap
	for _, e := range events {
		if e == nil || !visible.Visible(e.CalendarOrDefault()) {
			continue
		}
		start, end, ok := e.Effective(hourStart, hourEnd)
		if !ok || !e.Valid() {
			continue
		}

		startMinute := event.Minutes(start.Sub(hourStart))
		endMinute := event.Minutes(end.Sub(hourStart))
		if endMinute <= 0 {
			endMinute = 60
		}

		color := e.Color
		if colors != nil {
			color = colors.Resolve(e.Color, e.CalendarOrDefault())
		}

		out = append(out, Overlap{
			Event:                e,
			Color:                color,
			StartMinute:          startMinute,
			EndMinute:            endMinute,
			TotalDurationMinutes: event.Minutes(e.Duration()),
			StartUTCMs:           e.Start.UnixMilli(),
			EndUTCMs:             e.End.UnixMilli(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalDurationMinutes != out[j].TotalDurationMinutes {
			return out[i].TotalDurationMinutes > out[j].TotalDurationMinutes
		}
		return out[i].StartUTCMs < out[j].StartUTCMs
	})
	return out
}
