package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HackSU2026/RallyUp/internal/database"
)

// MockStore is a mock event store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateEvent(record *database.EventRecord) (string, error) {
	args := m.Called(record)
	return args.String(0), args.Error(1)
}

func newTestExecutor(store Store) *CreateEventExecutor {
	e := NewCreateEventExecutor(store, zerolog.Nop())
	e.now = func() time.Time {
		return time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	}
	return e
}

func validInput() map[string]any {
	return map[string]any{
		"event_type": "match",
		"variant":    "doubles",
		"location":   "Court 4, Riverside Arena",
		"start_at":   "2030-06-15T18:00:00Z",
		"end_at":     "2030-06-15T20:00:00Z",
	}
}

func TestCreateEventExecutor_Success(t *testing.T) {
	store := new(MockStore)
	store.On("CreateEvent", mock.AnythingOfType("*database.EventRecord")).Return("evt_abc123", nil)

	exec := newTestExecutor(store)
	result := exec.Execute(context.Background(), validInput(), testCaller(1400))

	require.True(t, result.Success)
	assert.Equal(t, "evt_abc123", result.EventID)
	assert.Empty(t, result.Error)
	assert.Equal(t,
		`Created "Competition" (match, doubles) at Court 4, Riverside Arena, `+
			`from 2030-06-15T18:00:00Z to 2030-06-15T20:00:00Z. `+
			`Rating range: 1200–1600. Max participants: 4. Event ID: evt_abc123`,
		result.Summary)

	store.AssertExpectations(t)

	// The persisted record carries the derived fields.
	record := store.Calls[0].Arguments.Get(0).(*database.EventRecord)
	assert.Equal(t, 4, record.MaxParticipants)
	assert.Equal(t, []string{"player-1"}, record.Participants)
	assert.Equal(t, "open", record.Status)
}

func TestCreateEventExecutor_ValidationFailure(t *testing.T) {
	store := new(MockStore)
	exec := newTestExecutor(store)

	input := validInput()
	input["start_at"] = "2020-01-01T10:00:00Z"

	result := exec.Execute(context.Background(), input, testCaller(1000))

	assert.False(t, result.Success)
	assert.Equal(t, "Start time must be in the future.", result.Error)
	assert.Empty(t, result.EventID)
	store.AssertNotCalled(t, "CreateEvent", mock.Anything)
}

func TestCreateEventExecutor_StoreFailure(t *testing.T) {
	store := new(MockStore)
	store.On("CreateEvent", mock.Anything).Return("", errors.New("disk full"))

	exec := newTestExecutor(store)
	result := exec.Execute(context.Background(), validInput(), testCaller(1000))

	assert.False(t, result.Success)
	assert.Equal(t, "Failed to save the event. Please try again.", result.Error)
}

func TestCreateEventExecutor_MissingFields(t *testing.T) {
	store := new(MockStore)
	exec := newTestExecutor(store)

	result := exec.Execute(context.Background(), map[string]any{}, testCaller(1000))

	assert.False(t, result.Success)
	assert.Equal(t, `Invalid event_type "". Must be "practice" or "match".`, result.Error)
}

func TestCreateEventExecutor_NonStringInput(t *testing.T) {
	store := new(MockStore)
	store.On("CreateEvent", mock.Anything).Return("evt_xyz", nil)
	exec := newTestExecutor(store)

	input := validInput()
	input["location"] = 42 // model sent a number; stringified, not rejected

	result := exec.Execute(context.Background(), input, testCaller(1000))

	require.True(t, result.Success)
	record := store.Calls[0].Arguments.Get(0).(*database.EventRecord)
	assert.Equal(t, "42", record.Location)
}

func TestStringField(t *testing.T) {
	input := map[string]any{
		"s":   "text",
		"n":   float64(7),
		"nil": nil,
	}

	assert.Equal(t, "text", stringField(input, "s"))
	assert.Equal(t, "7", stringField(input, "n"))
	assert.Equal(t, "", stringField(input, "nil"))
	assert.Equal(t, "", stringField(input, "absent"))
}
