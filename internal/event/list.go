package event

// List is the ordered, in-memory event set owned by the application.
// Every mutation increments Version so layout caches know to rebuild.
// Callers that edit an event in place must call Touch.
type List struct {
	events  []*Event
	version uint64
}

// NewList creates a list holding the given events in order.
func NewList(events []*Event) *List {
	l := &List{}
	l.Load(events)
	return l
}

// Events returns the live events in insertion order.
// The slice must not be modified by the caller.
func (l *List) Events() []*Event {
	return l.events
}

// Version returns the mutation counter.
func (l *List) Version() uint64 {
	return l.version
}

// Len returns the number of events.
func (l *List) Len() int {
	return len(l.events)
}

// Load replaces the whole event set.
func (l *List) Load(events []*Event) {
	l.events = make([]*Event, 0, len(events))
	for _, e := range events {
		if e != nil {
			l.events = append(l.events, e)
		}
	}
	l.version++
}

// Add appends an event.
func (l *List) Add(e *Event) {
	if e == nil {
		return
	}
	l.events = append(l.events, e)
	l.version++
}

// Remove deletes the event by identity. It returns ErrEventNotFound when the
// event is not part of the list.
func (l *List) Remove(e *Event) error {
	for i, existing := range l.events {
		if existing == e {
			l.events = append(l.events[:i], l.events[i+1:]...)
			l.version++
			return nil
		}
	}
	return ErrEventNotFound
}

// Touch records an in-place edit of an event held by the list.
func (l *List) Touch() {
	l.version++
}

// FindByID returns the event with the given storage id.
func (l *List) FindByID(id int64) *Event {
	for _, e := range l.events {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// FindByUID returns the event with the given persistent UID.
func (l *List) FindByUID(uid string) *Event {
	for _, e := range l.events {
		if e.UID == uid {
			return e
		}
	}
	return nil
}
