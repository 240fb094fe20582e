// Package ics converts events to and from iCalendar.
package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/javiermolinar/spiral/internal/debuglog"
	"github.com/javiermolinar/spiral/internal/event"
	"github.com/javiermolinar/spiral/internal/layout"
	"github.com/javiermolinar/spiral/internal/recur"
)

// ProductID identifies exported calendars.
const ProductID = "-//spiral//spiral calendar//EN"

const utcLayout = "20060102T150405Z"

// ExportOptions configure Export.
type ExportOptions struct {
	// Colors resolves the COLOR property. Nil leaves the stored value.
	Colors layout.ColorResolver
	// Visible restricts export to these calendars. Nil exports all.
	Visible layout.CalendarFilter
	// Now stamps events without a modification time.
	Now time.Time
}

// Export renders events as a VCALENDAR. Malformed events are skipped.
func Export(events []*event.Event, opts ExportOptions) (string, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	for _, e := range events {
		if !e.Valid() || !opts.Visible.Visible(e.CalendarOrDefault()) {
			continue
		}

		uid := e.UID
		if uid == "" {
			uid = event.PersistentUID(e.Title, e.Start, e.End, e.Description, e.Calendar)
		}
		modified := e.LastModified
		if modified.IsZero() {
			modified = opts.Now
		}

		ve := cal.AddEvent(uid)
		ve.SetDtStampTime(modified)
		ve.SetModifiedAt(modified)
		ve.SetStartAt(e.Start)
		ve.SetEndAt(e.End)
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		ve.SetProperty(ical.ComponentPropertyCategories, e.CalendarOrDefault())

		color := e.Color
		if opts.Colors != nil {
			color = opts.Colors.Resolve(e.Color, e.CalendarOrDefault())
		}
		if color != "" {
			ve.SetProperty(ical.ComponentPropertyColor, color)
		}
	}

	return cal.Serialize(), nil
}

// ImportOptions configure Import.
type ImportOptions struct {
	// DefaultCalendar tags events without CATEGORIES.
	DefaultCalendar string
	// Until bounds expansion of recurring events. Zero uses the recur default.
	Until time.Time
}

// ImportResult reports the outcome of Import.
type ImportResult struct {
	Events  []*event.Event
	Skipped int
}

// Import parses a VCALENDAR. Recurring events are expanded; events without a
// summary or a positive duration are skipped.
func Import(r io.Reader, opts ImportOptions) (*ImportResult, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	res := &ImportResult{}
	for _, ve := range cal.Events() {
		evs, err := convert(ve, opts)
		if err != nil {
			debuglog.Error("ICS_IMPORT_SKIP", err, map[string]any{"uid": propValue(ve, ical.ComponentPropertyUniqueId)})
			res.Skipped++
			continue
		}
		res.Events = append(res.Events, evs...)
	}
	return res, nil
}

var errNoSummary = errors.New("missing SUMMARY")

func convert(ve *ical.VEvent, opts ImportOptions) ([]*event.Event, error) {
	title := strings.TrimSpace(propValue(ve, ical.ComponentPropertySummary))
	if title == "" {
		return nil, errNoSummary
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return nil, fmt.Errorf("DTSTART: %w", err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return nil, fmt.Errorf("DTEND: %w", err)
	}

	calendar := opts.DefaultCalendar
	if cats := propValue(ve, ical.ComponentPropertyCategories); cats != "" {
		calendar = strings.TrimSpace(strings.Split(cats, ",")[0])
	}

	e, err := event.New(title, start, end,
		event.WithDescription(propValue(ve, ical.ComponentPropertyDescription)),
		event.WithColor(propValue(ve, ical.ComponentPropertyColor)),
		event.WithCalendar(calendar),
	)
	if err != nil {
		return nil, err
	}
	if uid := propValue(ve, ical.ComponentPropertyUniqueId); uid != "" {
		e.UID = uid
	}
	if mod, err := time.Parse(utcLayout, propValue(ve, ical.ComponentPropertyLastModified)); err == nil {
		e.LastModified = mod
	}

	rule := propValue(ve, ical.ComponentPropertyRrule)
	if rule == "" {
		return []*event.Event{e}, nil
	}
	return recur.Expand(e, rule, recur.Options{Until: opts.Until})
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	p := ve.GetProperty(prop)
	if p == nil {
		return ""
	}
	return p.Value
}
