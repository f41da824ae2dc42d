package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/HackSU2026/RallyUp/internal/agent"
	"github.com/HackSU2026/RallyUp/internal/auth"
	"github.com/HackSU2026/RallyUp/internal/database"
)

// ToolResult is the uniform outcome of a tool invocation. It flows back
// into the conversation as data: a failed result is not an error, it is
// something for the model to explain to the user.
type ToolResult struct {
	Success bool   `json:"success"`
	EventID string `json:"event_id,omitempty"`
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Store is the persistence surface the create-event tool needs.
type Store interface {
	CreateEvent(record *database.EventRecord) (string, error)
}

// CreateEventTool declares the create_event function so the model knows
// how to call it.
var CreateEventTool = agent.Tool{
	Name: "create_event",
	Description: "Creates a new badminton event (practice session or competition match) " +
		"in RallyUp. The authenticated user becomes the host and first participant. " +
		"Rating range is auto-calculated from the host's current rating (±200).",
	InputSchema: agent.BuildJSONSchema("object", map[string]any{
		"title": agent.PropertyString(
			"Event title. If omitted or empty, defaults to 'Practice' or 'Competition' based on event_type."),
		"event_type": agent.PropertyEnum(
			"Type of event. 'practice' = casual practice (up to 9999 participants). "+
				"'match' = competitive match (fixed headcount: 2 for singles, 4 for doubles).",
			[]string{EventTypePractice, EventTypeMatch}),
		"variant": agent.PropertyEnum(
			"Badminton variant. 'singles' = 1v1. 'doubles' = 2v2.",
			[]string{VariantSingles, VariantDoubles}),
		"location": agent.PropertyString(
			"Event location. Ideally a Google Maps URL, but a venue name or address is also accepted."),
		"start_at": agent.PropertyString(
			"Event start time in ISO 8601 format (e.g. '2025-06-15T18:00:00'). Must be in the future."),
		"end_at": agent.PropertyString(
			"Event end time in ISO 8601 format. Must be after start_at."),
	}, []string{"event_type", "variant", "location", "start_at", "end_at"}),
}

// CreateEventExecutor validates create_event arguments, derives the
// computed fields, and persists the record.
type CreateEventExecutor struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewCreateEventExecutor creates the executor backed by the given store.
func NewCreateEventExecutor(store Store, logger zerolog.Logger) *CreateEventExecutor {
	return &CreateEventExecutor{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Tool returns the create_event declaration.
func (e *CreateEventExecutor) Tool() agent.Tool {
	return CreateEventTool
}

// Execute runs one create_event invocation for the given caller. It never
// returns a Go error: every outcome is a ToolResult the model can relay.
func (e *CreateEventExecutor) Execute(_ context.Context, input map[string]any, caller *auth.Player) *ToolResult {
	params := CreateEventParams{
		Title:     stringField(input, "title"),
		EventType: stringField(input, "event_type"),
		Variant:   stringField(input, "variant"),
		Location:  stringField(input, "location"),
		StartAt:   stringField(input, "start_at"),
		EndAt:     stringField(input, "end_at"),
	}

	record, err := ValidateAndBuild(params, caller, e.now())
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return &ToolResult{Success: false, Error: validationErr.Message}
		}
		return &ToolResult{Success: false, Error: err.Error()}
	}

	id, err := e.store.CreateEvent(record)
	if err != nil {
		e.logger.Error().Err(err).Str("host_id", caller.ID).Msg("event store write failed")
		return &ToolResult{Success: false, Error: "Failed to save the event. Please try again."}
	}

	summary := fmt.Sprintf(
		"Created %q (%s, %s) at %s, from %s to %s. Rating range: %d–%d. Max participants: %d. Event ID: %s",
		record.Title, record.EventType, record.Variant, record.Location,
		record.StartAt.UTC().Format(time.RFC3339), record.EndAt.UTC().Format(time.RFC3339),
		record.RatingRange.Min, record.RatingRange.Max, record.MaxParticipants, id,
	)

	return &ToolResult{Success: true, EventID: id, Summary: summary}
}

// stringField reads a field from untrusted model-supplied input. The model
// can emit malformed arguments regardless of the declared schema, so
// non-string values are stringified rather than trusted.
func stringField(input map[string]any, key string) string {
	v, ok := input[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
