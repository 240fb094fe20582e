// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/spiral/internal/event"
)

// timeLayout is fixed width so stored timestamps compare lexically.
const timeLayout = "2006-01-02T15:04:05.000Z"

const eventColumns = `id, uid, title, description, start_utc, end_utc, color, calendar, last_modified`

// SQLite implements event.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ event.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// CreateEvent adds a new event to the repository and sets its ID.
func (s *SQLite) CreateEvent(ctx context.Context, e *event.Event) error {
	if err := validate(e); err != nil {
		return err
	}
	if e.LastModified.IsZero() {
		e.LastModified = time.Now().UTC()
	}

	query := `
		INSERT INTO events (
			uid, title, description, start_utc, end_utc, color, calendar, last_modified
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		e.UID,
		e.Title,
		e.Description,
		formatTime(e.Start),
		formatTime(e.End),
		e.Color,
		e.CalendarOrDefault(),
		formatTime(e.LastModified),
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	e.ID = id

	return nil
}

// GetEvent retrieves an event by ID.
func (s *SQLite) GetEvent(ctx context.Context, id int64) (*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`

	e, err := scanEvent(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: #%d", event.ErrEventNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying event: %w", err)
	}
	return e, nil
}

// UpdateEvent persists the mutable fields of an existing event.
func (s *SQLite) UpdateEvent(ctx context.Context, e *event.Event) error {
	if err := validate(e); err != nil {
		return err
	}

	query := `
		UPDATE events
		SET title = ?, description = ?, start_utc = ?, end_utc = ?,
		    color = ?, calendar = ?, last_modified = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		e.Title,
		e.Description,
		formatTime(e.Start),
		formatTime(e.End),
		e.Color,
		e.CalendarOrDefault(),
		formatTime(e.LastModified),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: #%d", event.ErrEventNotFound, e.ID)
	}

	return nil
}

// DeleteEvent removes an event permanently.
func (s *SQLite) DeleteEvent(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: #%d", event.ErrEventNotFound, id)
	}

	return nil
}

// ListEventsInRange returns events overlapping [start, end), ordered by start
// time and then ID.
func (s *SQLite) ListEventsInRange(ctx context.Context, start, end time.Time) ([]*event.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE start_utc < ? AND end_utc > ?
		ORDER BY start_utc, id
	`
	return s.queryEvents(ctx, query, formatTime(end), formatTime(start))
}

// ListAllEvents returns every stored event ordered by ID.
func (s *SQLite) ListAllEvents(ctx context.Context) ([]*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY id`
	return s.queryEvents(ctx, query)
}

// CreateEvents inserts several events atomically.
func (s *SQLite) CreateEvents(ctx context.Context, events []*event.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (
			uid, title, description, start_utc, end_utc, color, calendar, last_modified
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, e := range events {
		if err := validate(e); err != nil {
			return fmt.Errorf("event %q: %w", e.Title, err)
		}
		if e.LastModified.IsZero() {
			e.LastModified = now
		}
		result, err := stmt.ExecContext(ctx,
			e.UID,
			e.Title,
			e.Description,
			formatTime(e.Start),
			formatTime(e.End),
			e.Color,
			e.CalendarOrDefault(),
			formatTime(e.LastModified),
		)
		if err != nil {
			return fmt.Errorf("inserting event %q: %w", e.Title, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		e.ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) queryEvents(ctx context.Context, query string, args ...any) ([]*event.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*event.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*event.Event, error) {
	var (
		e                      event.Event
		start, end, lastModStr string
	)

	err := row.Scan(
		&e.ID,
		&e.UID,
		&e.Title,
		&e.Description,
		&start,
		&end,
		&e.Color,
		&e.Calendar,
		&lastModStr,
	)
	if err != nil {
		return nil, err
	}

	if e.Start, err = parseTime(start); err != nil {
		return nil, fmt.Errorf("parsing start: %w", err)
	}
	if e.End, err = parseTime(end); err != nil {
		return nil, fmt.Errorf("parsing end: %w", err)
	}
	if e.LastModified, err = parseTime(lastModStr); err != nil {
		return nil, fmt.Errorf("parsing last modified: %w", err)
	}

	return &e, nil
}

func validate(e *event.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return event.ErrEmptyTitle
	}
	if !e.Valid() {
		return event.ErrEndBeforeStart
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime accepts the storage layout and plain RFC3339 for hand-edited rows.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t.UTC(), nil
}
