package event

import (
	"context"
	"time"
)

// Repository defines the storage interface for events.
type Repository interface {
	// CreateEvent adds a new event and sets its ID.
	CreateEvent(ctx context.Context, e *Event) error

	// GetEvent retrieves an event by ID.
	// Returns ErrEventNotFound if no such event exists.
	GetEvent(ctx context.Context, id int64) (*Event, error)

	// UpdateEvent persists all mutable fields of an existing event.
	UpdateEvent(ctx context.Context, e *Event) error

	// DeleteEvent removes an event permanently.
	DeleteEvent(ctx context.Context, id int64) error

	// ListEventsInRange returns events overlapping [start, end), ordered by
	// start time and then ID.
	ListEventsInRange(ctx context.Context, start, end time.Time) ([]*Event, error)

	// ListAllEvents returns every stored event ordered by ID.
	ListAllEvents(ctx context.Context) ([]*Event, error)

	// Close releases any resources held by the repository.
	Close() error
}
