package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// RatingRange is the rating window participants must fall into.
type RatingRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// EventRecord is a persisted badminton event. Field names are a
// compatibility surface: other RallyUp services read these records.
type EventRecord struct {
	ID              string           `json:"id,omitempty"`
	Title           string           `json:"title"`
	EventType       string           `json:"event_type"`
	HostID          string           `json:"host_id"`
	Location        string           `json:"location"`
	Variant         string           `json:"variant"`
	RatingRange     RatingRange      `json:"rating_range"`
	MaxParticipants int              `json:"max_participants"`
	Participants    []string         `json:"participants"`
	Matches         *json.RawMessage `json:"matches"`
	Status          string           `json:"status"`
	StartAt         time.Time        `json:"start_at"`
	EndAt           time.Time        `json:"end_at"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// CreateEvent appends the record to the events table under a freshly
// generated id, which is returned. The record is assumed validated.
func (d *DB) CreateEvent(record *EventRecord) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate event id: %w", err)
	}

	participants, err := json.Marshal(record.Participants)
	if err != nil {
		return "", fmt.Errorf("failed to encode participants: %w", err)
	}

	var matches any
	if record.Matches != nil {
		matches = string(*record.Matches)
	}

	_, err = d.Exec(`
		INSERT INTO events (
			id, title, event_type, host_id, location, variant,
			rating_min, rating_max, max_participants, participants,
			matches, status, start_at, end_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, record.Title, record.EventType, record.HostID, record.Location, record.Variant,
		record.RatingRange.Min, record.RatingRange.Max, record.MaxParticipants, string(participants),
		matches, record.Status, record.StartAt, record.EndAt, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}

	return id, nil
}

// GetEvent returns a stored event by id.
func (d *DB) GetEvent(id string) (*EventRecord, error) {
	var e EventRecord
	var participants string
	var matches sql.NullString

	err := d.QueryRow(`
		SELECT id, title, event_type, host_id, location, variant,
			rating_min, rating_max, max_participants, participants,
			matches, status, start_at, end_at, created_at, updated_at
		FROM events WHERE id = ?
	`, id).Scan(&e.ID, &e.Title, &e.EventType, &e.HostID, &e.Location, &e.Variant,
		&e.RatingRange.Min, &e.RatingRange.Max, &e.MaxParticipants, &participants,
		&matches, &e.Status, &e.StartAt, &e.EndAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(participants), &e.Participants); err != nil {
		return nil, fmt.Errorf("failed to decode participants: %w", err)
	}
	if matches.Valid {
		raw := json.RawMessage(matches.String)
		e.Matches = &raw
	}

	return &e, nil
}

// ListEventsByHost returns all events hosted by the given player, newest first.
func (d *DB) ListEventsByHost(hostID string) ([]EventRecord, error) {
	rows, err := d.Query(`
		SELECT id FROM events WHERE host_id = ? ORDER BY created_at DESC
	`, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	events := make([]EventRecord, 0, len(ids))
	for _, id := range ids {
		e, err := d.GetEvent(id)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, nil
}
