// Package event defines the core domain types for spiral.
package event

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCalendar is the calendar tag used when an event has none.
const DefaultCalendar = "Home"

// Validation errors.
var (
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrEndBeforeStart = errors.New("end time must be after start time")
)

// Domain errors.
var (
	ErrEventNotFound = errors.New("event not found")
)

// uidNamespace seeds the name-based UUIDs used as persistent UIDs.
var uidNamespace = uuid.MustParse("5d1f3c0e-8a2b-4f6e-9c47-2b1a6d0e7f31")

// Event is a half-open UTC interval [Start, End) plus display metadata.
type Event struct {
	ID           int64 // storage row id, 0 until persisted
	UID          string
	Title        string
	Description  string
	Start        time.Time
	End          time.Time
	Color        string // palette name or #rrggbb, empty means calendar default
	Calendar     string
	LastModified time.Time
}

// Option customizes an event created by New.
type Option func(*Event)

// WithDescription sets the event description.
func WithDescription(desc string) Option {
	return func(e *Event) { e.Description = desc }
}

// WithColor sets the event color.
func WithColor(color string) Option {
	return func(e *Event) { e.Color = strings.TrimSpace(color) }
}

// WithCalendar sets the calendar tag.
func WithCalendar(calendar string) Option {
	return func(e *Event) { e.Calendar = strings.TrimSpace(calendar) }
}

// New creates a validated event. Start and end are normalized to UTC and the
// persistent UID is derived from the initial content.
func New(title string, start, end time.Time, opts ...Option) (*Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !end.After(start) {
		return nil, ErrEndBeforeStart
	}

	e := &Event{
		Title: title,
		Start: start.UTC(),
		End:   end.UTC(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.Calendar == "" {
		e.Calendar = DefaultCalendar
	}
	e.UID = PersistentUID(e.Title, e.Start, e.End, e.Description, e.Calendar)
	e.LastModified = time.Now().UTC()
	return e, nil
}

// PersistentUID returns a stable identifier derived from the event content.
// It is generated once at creation and kept across later edits.
func PersistentUID(title string, start, end time.Time, description, calendar string) string {
	content := strings.Join([]string{
		title,
		start.UTC().Format(time.RFC3339Nano),
		end.UTC().Format(time.RFC3339Nano),
		description,
	}, "\x1f")
	if calendar == "" {
		calendar = DefaultCalendar
	}
	return uuid.NewSHA1(uidNamespace, []byte(content)).String() + "@" + calendar
}

// Valid reports whether the event has a positive duration.
func (e *Event) Valid() bool {
	return e != nil && e.End.After(e.Start)
}

// Duration returns the full, unclipped event duration.
// Malformed events have zero duration.
func (e *Event) Duration() time.Duration {
	if !e.Valid() {
		return 0
	}
	return e.End.Sub(e.Start)
}

// CalendarOrDefault returns the calendar tag, defaulting to DefaultCalendar.
func (e *Event) CalendarOrDefault() string {
	if e.Calendar == "" {
		return DefaultCalendar
	}
	return e.Calendar
}

// Effective clips the event to [windowStart, windowEnd).
// ok is false when the clipped interval is empty.
func (e *Event) Effective(windowStart, windowEnd time.Time) (start, end time.Time, ok bool) {
	start = e.Start
	if windowStart.After(start) {
		start = windowStart
	}
	end = e.End
	if windowEnd.Before(end) {
		end = windowEnd
	}
	return start, end, start.Before(end)
}

// Overlaps reports whether the event intersects [start, end).
func (e *Event) Overlaps(start, end time.Time) bool {
	return e.Valid() && e.Start.Before(end) && e.End.After(start)
}

// Reschedule moves the event to a new interval.
func (e *Event) Reschedule(start, end time.Time) error {
	if !end.After(start) {
		return ErrEndBeforeStart
	}
	e.Start = start.UTC()
	e.End = end.UTC()
	e.touch()
	return nil
}

// SetTitle updates the event title.
func (e *Event) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	e.Title = title
	e.touch()
	return nil
}

// SetColor updates the event color.
func (e *Event) SetColor(color string) {
	e.Color = strings.TrimSpace(color)
	e.touch()
}

// SetCalendar updates the calendar tag. An empty tag resets it to the default.
func (e *Event) SetCalendar(calendar string) {
	calendar = strings.TrimSpace(calendar)
	if calendar == "" {
		calendar = DefaultCalendar
	}
	e.Calendar = calendar
	e.touch()
}

func (e *Event) touch() {
	e.LastModified = time.Now().UTC()
}

// Clone returns a copy of the event.
func (e *Event) Clone() *Event {
	c := *e
	return &c
}
