// Package events implements event creation: business-rule validation,
// derived fields, and persistence of the resulting record.
package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/HackSU2026/RallyUp/internal/auth"
	"github.com/HackSU2026/RallyUp/internal/database"
)

const (
	EventTypePractice = "practice"
	EventTypeMatch    = "match"

	VariantSingles = "singles"
	VariantDoubles = "doubles"

	StatusOpen = "open"

	// RatingHalfWidth is the half-width of the rating window centered on
	// the host's rating. There is no floor: ranges may go negative.
	RatingHalfWidth = 200

	MaxParticipantsSingles  = 2
	MaxParticipantsDoubles  = 4
	MaxParticipantsPractice = 9999
)

// CreateEventParams is the caller-supplied payload for one create_event
// invocation. All fields arrive untrusted from the model.
type CreateEventParams struct {
	Title     string
	EventType string
	Variant   string
	Location  string
	StartAt   string
	EndAt     string
}

// ValidationError is a business-rule rejection. It is relayed verbatim to
// the model so it can explain the problem conversationally.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// timestampLayouts accepted for start_at/end_at. Zone-less timestamps are
// interpreted in server-local time, matching how clients send them.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if layout == time.RFC3339 {
			if ts, err := time.Parse(layout, value); err == nil {
				return ts, true
			}
			continue
		}
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// ValidateAndBuild checks the proposed event against business rules and, if
// they all hold, returns a fully-computed draft record ready to persist.
// Checks run in a fixed order and short-circuit on the first failure, so
// error messages are deterministic.
func ValidateAndBuild(params CreateEventParams, caller *auth.Player, now time.Time) (*database.EventRecord, error) {
	if params.EventType != EventTypePractice && params.EventType != EventTypeMatch {
		return nil, invalid(`Invalid event_type %q. Must be "practice" or "match".`, params.EventType)
	}

	if params.Variant != VariantSingles && params.Variant != VariantDoubles {
		return nil, invalid(`Invalid variant %q. Must be "singles" or "doubles".`, params.Variant)
	}

	location := strings.TrimSpace(params.Location)
	if location == "" {
		return nil, invalid("Location is required.")
	}

	startAt, startOK := parseTimestamp(params.StartAt)
	endAt, endOK := parseTimestamp(params.EndAt)
	if !startOK || !endOK {
		return nil, invalid("Invalid date format. Use ISO 8601.")
	}

	if !startAt.After(now) {
		return nil, invalid("Start time must be in the future.")
	}

	if !endAt.After(startAt) {
		return nil, invalid("End time must be after start time.")
	}

	isCompetition := params.EventType == EventTypeMatch

	maxParticipants := MaxParticipantsPractice
	if isCompetition {
		if params.Variant == VariantDoubles {
			maxParticipants = MaxParticipantsDoubles
		} else {
			maxParticipants = MaxParticipantsSingles
		}
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		if isCompetition {
			title = "Competition"
		} else {
			title = "Practice"
		}
	}

	return &database.EventRecord{
		Title:     title,
		EventType: params.EventType,
		HostID:    caller.ID,
		Location:  location,
		Variant:   params.Variant,
		RatingRange: database.RatingRange{
			Min: caller.Rating - RatingHalfWidth,
			Max: caller.Rating + RatingHalfWidth,
		},
		MaxParticipants: maxParticipants,
		Participants:    []string{caller.ID},
		Matches:         nil,
		Status:          StatusOpen,
		StartAt:         startAt,
		EndAt:           endAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
