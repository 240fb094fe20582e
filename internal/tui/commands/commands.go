// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/spiral/internal/debuglog"
	"github.com/javiermolinar/spiral/internal/event"
)

// storageTimeout bounds one repository call.
const storageTimeout = 5 * time.Second

// EventsLoadedMsg is sent when the event set is loaded.
type EventsLoadedMsg struct {
	Events []*event.Event
}

// EventCreatedMsg is sent after an event is stored. Event has its ID set.
type EventCreatedMsg struct {
	Event *event.Event
}

// EventUpdatedMsg carries the stored copy of an edited event.
type EventUpdatedMsg struct {
	Event *event.Event
}

// EventDeletedMsg is sent after an event is removed from storage.
type EventDeletedMsg struct {
	Event *event.Event
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadEvents loads every stored event.
func LoadEvents(repo event.Repository) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		events, err := repo.ListAllEvents(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading events: %w", err)}
		}
		return EventsLoadedMsg{Events: events}
	}
}

// CreateEvent stores a new event.
func CreateEvent(repo event.Repository, e *event.Event) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		if err := repo.CreateEvent(ctx, e); err != nil {
			debuglog.Error("EVENT_CREATE_FAILED", err, map[string]any{"title": e.Title})
			return ErrMsg{Err: fmt.Errorf("creating event: %w", err)}
		}
		return EventCreatedMsg{Event: e}
	}
}

// UpdateEvent persists an edited copy of an event. The copy must keep the
// original ID.
func UpdateEvent(repo event.Repository, e *event.Event) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		if err := repo.UpdateEvent(ctx, e); err != nil {
			debuglog.Error("EVENT_UPDATE_FAILED", err, map[string]any{"id": e.ID})
			return ErrMsg{Err: fmt.Errorf("updating event: %w", err)}
		}
		return EventUpdatedMsg{Event: e}
	}
}

// DeleteEvent removes an event from storage.
func DeleteEvent(repo event.Repository, e *event.Event) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		if err := repo.DeleteEvent(ctx, e.ID); err != nil {
			debuglog.Error("EVENT_DELETE_FAILED", err, map[string]any{"id": e.ID})
			return ErrMsg{Err: fmt.Errorf("deleting event: %w", err)}
		}
		return EventDeletedMsg{Event: e}
	}
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: "Copied segment to clipboard"}
	}
}
