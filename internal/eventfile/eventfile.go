// Package eventfile reads and writes events as YAML documents.
package eventfile

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/spiral/internal/dateutil"
	"github.com/javiermolinar/spiral/internal/event"
	"github.com/javiermolinar/spiral/internal/recur"
)

// File is the YAML document layout.
type File struct {
	Events []Entry `yaml:"events"`
}

// Entry is one event in a YAML document. Either End or Duration must be set.
type Entry struct {
	UID         string    `yaml:"uid,omitempty"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description,omitempty"`
	Start       time.Time `yaml:"start"`
	End         time.Time `yaml:"end,omitempty"`
	Duration    string    `yaml:"duration,omitempty"`
	Calendar    string    `yaml:"calendar,omitempty"`
	Color       string    `yaml:"color,omitempty"`
	Repeat      string    `yaml:"repeat,omitempty"` // RRULE value
}

// Read decodes events from r. Entries with a repeat rule are expanded.
// The first invalid entry aborts the read.
func Read(r io.Reader, defaultCalendar string) ([]*event.Event, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing event file: %w", err)
	}

	var out []*event.Event
	for i, entry := range f.Events {
		evs, err := entry.toEvents(defaultCalendar)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i+1, entry.Title, err)
		}
		out = append(out, evs...)
	}
	return out, nil
}

func (e Entry) toEvents(defaultCalendar string) ([]*event.Event, error) {
	end := e.End
	if end.IsZero() && e.Duration != "" {
		d, err := dateutil.ParseDuration(e.Duration)
		if err != nil {
			return nil, err
		}
		end = e.Start.Add(d)
	}

	calendar := e.Calendar
	if calendar == "" {
		calendar = defaultCalendar
	}

	ev, err := event.New(e.Title, e.Start, end,
		event.WithDescription(e.Description),
		event.WithColor(e.Color),
		event.WithCalendar(calendar),
	)
	if err != nil {
		return nil, err
	}
	if e.UID != "" {
		ev.UID = e.UID
	}

	if e.Repeat == "" {
		return []*event.Event{ev}, nil
	}
	return recur.Expand(ev, e.Repeat, recur.Options{})
}

// Write encodes events to w. Malformed events are skipped.
func Write(w io.Writer, events []*event.Event) error {
	f := File{Events: make([]Entry, 0, len(events))}
	for _, e := range events {
		if !e.Valid() {
			continue
		}
		f.Events = append(f.Events, Entry{
			UID:         e.UID,
			Title:       e.Title,
			Description: e.Description,
			Start:       e.Start.UTC(),
			End:         e.End.UTC(),
			Calendar:    e.CalendarOrDefault(),
			Color:       e.Color,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding event file: %w", err)
	}
	return enc.Close()
}
