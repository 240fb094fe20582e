package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			uid           TEXT NOT NULL,
			title         TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			start_utc     TEXT NOT NULL,
			end_utc       TEXT NOT NULL,
			color         TEXT NOT NULL DEFAULT '',
			calendar      TEXT NOT NULL DEFAULT 'Home',
			last_modified TEXT NOT NULL,
			created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_utc);
		CREATE INDEX IF NOT EXISTS idx_events_end ON events(end_utc);
		CREATE INDEX IF NOT EXISTS idx_events_uid ON events(uid);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating events table: %w", err)
	}

	return nil
}
