package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"

	"github.com/javiermolinar/spiral/internal/dateutil"
	"github.com/javiermolinar/spiral/internal/event"
	"github.com/javiermolinar/spiral/internal/layout"
)

const (
	dayLayout  = "Mon 02 Jan"
	timeLayout = "15:04"
)

// parseWhen parses a user supplied instant in the app's zone.
func (a *App) parseWhen(s string) (time.Time, error) {
	return dateutil.ParseDateTime(s, a.now(), a.loc)
}

// formatSpan renders an event's interval, e.g. "Wed 15 Jan 10:00-11:30".
// Events ending on another day show the end date too.
func formatSpan(e *event.Event, loc *time.Location) string {
	start := e.Start.In(loc)
	end := e.End.In(loc)
	if dateutil.TruncateToDay(start).Equal(dateutil.TruncateToDay(end)) {
		return fmt.Sprintf("%s %s-%s", start.Format(dayLayout), start.Format(timeLayout), end.Format(timeLayout))
	}
	return fmt.Sprintf("%s %s - %s %s", start.Format(dayLayout), start.Format(timeLayout), end.Format(dayLayout), end.Format(timeLayout))
}

// formatDuration renders an event duration, e.g. "1h30m".
func formatDuration(e *event.Event) string {
	return event.FormatMinutes(int(e.Duration() / time.Minute))
}

// formatRelative renders the start relative to now, e.g. "3 hours from now".
func formatRelative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// truncate shortens s to width cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// maxTitleWidth leaves room for the fixed columns of an event table.
func maxTitleWidth() int {
	return max(20, termWidth()-60)
}

// eventTable renders events as aligned rows.
func (a *App) eventTable(events []*event.Event) string {
	now := a.now()
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(formatHeader("ID"), formatHeader("WHEN"), formatHeader("LENGTH"), formatHeader("CALENDAR"), formatHeader("TITLE"), formatHeader("STARTS"))

	width := maxTitleWidth()
	for _, e := range events {
		hex := a.palette.Resolve(e.Color, e.CalendarOrDefault())
		tbl.AddRow(
			fmt.Sprintf("#%d", e.ID),
			formatSpan(e, a.loc),
			formatDuration(e),
			swatch(hex)+" "+e.CalendarOrDefault(),
			formatTitle(truncate(e.Title, width)),
			formatMuted(formatRelative(e.Start, now)),
		)
	}
	return tbl.String()
}

// describeEvent renders a one-line summary used after mutations.
func (a *App) describeEvent(e *event.Event) string {
	return fmt.Sprintf("#%d: %s %s (%s) [%s]", e.ID, e.Title, formatSpan(e, a.loc), formatDuration(e), e.CalendarOrDefault())
}

// LaneBar renders lane as a filled cell within budget cells, e.g. "░█░".
func LaneBar(lane, budget int) string {
	if budget <= 0 {
		return ""
	}
	var sb strings.Builder
	for i := range budget {
		if i == lane {
			sb.WriteString("█")
		} else {
			sb.WriteString("░")
		}
	}
	return sb.String()
}

// formatMinute renders a fractional minute offset within a segment.
func formatMinute(m float64) string {
	return fmt.Sprintf("%02.0f", m)
}

// overlapRange renders the covered part of a segment, e.g. ":15-:60".
func overlapRange(o layout.Overlap) string {
	return ":" + formatMinute(o.StartMinute) + "-:" + formatMinute(o.EndMinute)
}
