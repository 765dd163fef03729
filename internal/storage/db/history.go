package db

import (
	"fmt"
	"time"
)

// Event is one recorded manager operation (backup, restore, download, ...).
type Event struct {
	ID          int64
	Operation   string
	ProfileName string
	Detail      string
	CreatedAt   time.Time
}

// RecordEvent appends an operation to the history log
func (d *DB) RecordEvent(operation, profileName, detail string) error {
	_, err := d.Exec(`
        INSERT INTO history (operation, profile_name, detail)
        VALUES (?, ?, ?)
    `, operation, profileName, detail)
	if err != nil {
		return fmt.Errorf("recording event: %w", err)
	}
	return nil
}

// RecentEvents returns the most recent events, newest first
func (d *DB) RecentEvents(limit int) ([]Event, error) {
	rows, err := d.Query(`
        SELECT id, operation, profile_name, COALESCE(detail, ''), created_at
        FROM history
        ORDER BY id DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Operation, &e.ProfileName, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// ProfileEvents returns all events recorded for one profile, newest first
func (d *DB) ProfileEvents(profileName string) ([]Event, error) {
	rows, err := d.Query(`
        SELECT id, operation, profile_name, COALESCE(detail, ''), created_at
        FROM history
        WHERE profile_name = ?
        ORDER BY id DESC
    `, profileName)
	if err != nil {
		return nil, fmt.Errorf("querying profile history: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Operation, &e.ProfileName, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
