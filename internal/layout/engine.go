package layout

import (
	"time"

	"github.com/javiermolinar/spiral/internal/debuglog"
	"github.com/javiermolinar/spiral/internal/event"
)

// Layout is a lane and component snapshot for one (window, version) pair.
type Layout struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Version     uint64

	Lanes          map[*event.Event]int
	NumLanes       int
	ComponentOf    map[*event.Event]int
	ComponentLanes map[int]int
	Components     []Component
}

// Lane returns the event's lane.
func (l *Layout) Lane(e *event.Event) (int, bool) {
	lane, ok := l.Lanes[e]
	return lane, ok
}

// Component returns the component id of the event.
func (l *Layout) Component(e *event.Event) (int, bool) {
	id, ok := l.ComponentOf[e]
	return id, ok
}

// LaneBudget returns the lane count reserved for the event's component.
// Events outside the window get 0.
func (l *Layout) LaneBudget(e *event.Event) int {
	id, ok := l.ComponentOf[e]
	if !ok {
		return 0
	}
	return l.ComponentLanes[id]
}

func (l *Layout) matches(w Window, version uint64) bool {
	return l.WindowStart.Equal(w.Start()) && l.WindowEnd.Equal(w.End()) && l.Version == version
}

// Engine owns the layout cache for an event source.
// It is not safe for concurrent use.
type Engine struct {
	source  Source
	visible CalendarFilter
	colors  ColorResolver

	cache    *Layout
	rebuilds int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithVisibleCalendars sets the calendar filter used by Segment.
func WithVisibleCalendars(f CalendarFilter) EngineOption {
	return func(e *Engine) { e.visible = f }
}

// WithColors sets the color resolver used by Segment.
func WithColors(c ColorResolver) EngineOption {
	return func(e *Engine) { e.colors = c }
}

// NewEngine creates an engine over source.
func NewEngine(source Source, opts ...EngineOption) *Engine {
	e := &Engine{source: source}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Layout returns the lane and component layout for w, rebuilding it when the
// window bounds or the source version differ from the cached snapshot.
func (e *Engine) Layout(w Window) *Layout {
	version := e.source.Version()
	if e.cache != nil && e.cache.matches(w, version) {
		return e.cache
	}
	e.cache = e.rebuild(w, version)
	return e.cache
}

// Invalidate drops the cached layout.
func (e *Engine) Invalidate() {
	e.cache = nil
}

// Rebuilds returns how many times the layout has been recomputed.
func (e *Engine) Rebuilds() int {
	return e.rebuilds
}

// Visible returns the current calendar filter.
func (e *Engine) Visible() CalendarFilter {
	return e.visible
}

// SetVisibleCalendars replaces the calendar filter. Lanes do not depend on
// visibility, so the cached layout stays valid.
func (e *Engine) SetVisibleCalendars(f CalendarFilter) {
	e.visible = f
}

// Segment returns the visible overlaps for (day, segment) of w.
// It does not consult the layout cache.
func (e *Engine) Segment(w Window, day, segment int) []Overlap {
	return SegmentOverlaps(e.source.Events(), w, day, segment, e.visible, e.colors)
}

func (e *Engine) rebuild(w Window, version uint64) *Layout {
	began := time.Now()
	events := e.source.Events()

	lanes := AssignLanes(events, w)
	groups := GroupComponents(events, w, lanes.Lanes)
	e.rebuilds++

	debuglog.Log("LAYOUT_REBUILD", map[string]any{
		"window_start": w.Start().Format(time.RFC3339),
		"days":         w.days(),
		"version":      version,
		"events":       len(events),
		"placed":       len(lanes.Lanes),
		"lanes":        lanes.NumLanes,
		"components":   len(groups.Components),
		"elapsed_us":   time.Since(began).Microseconds(),
	})

	return &Layout{
		WindowStart:    w.Start(),
		WindowEnd:      w.End(),
		Version:        version,
		Lanes:          lanes.Lanes,
		NumLanes:       lanes.NumLanes,
		ComponentOf:    groups.ComponentOf,
		ComponentLanes: groups.LaneCount,
		Components:     groups.Components,
	}
}
