package database

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(hostID string) *EventRecord {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	return &EventRecord{
		Title:           "Practice",
		EventType:       "practice",
		HostID:          hostID,
		Location:        "Riverside Arena",
		Variant:         "doubles",
		RatingRange:     RatingRange{Min: 800, Max: 1200},
		MaxParticipants: 9999,
		Participants:    []string{hostID},
		Matches:         nil,
		Status:          "open",
		StartAt:         now.Add(24 * time.Hour),
		EndAt:           now.Add(26 * time.Hour),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestCreateAndGetEvent(t *testing.T) {
	db := NewTestDB(t)
	player := CreateTestPlayer(t, db, 1000)

	id, err := db.CreateEvent(testRecord(player.ID))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := db.GetEvent(id)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Practice", got.Title)
	assert.Equal(t, "practice", got.EventType)
	assert.Equal(t, player.ID, got.HostID)
	assert.Equal(t, RatingRange{Min: 800, Max: 1200}, got.RatingRange)
	assert.Equal(t, 9999, got.MaxParticipants)
	assert.Equal(t, []string{player.ID}, got.Participants)
	assert.Nil(t, got.Matches)
	assert.Equal(t, "open", got.Status)
	assert.True(t, got.EndAt.After(got.StartAt))
}

func TestCreateEventUniqueIDs(t *testing.T) {
	db := NewTestDB(t)
	player := CreateTestPlayer(t, db, 1000)

	id1, err := db.CreateEvent(testRecord(player.ID))
	require.NoError(t, err)
	id2, err := db.CreateEvent(testRecord(player.ID))
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
}

func TestCreateEventRejectsBadType(t *testing.T) {
	db := NewTestDB(t)
	player := CreateTestPlayer(t, db, 1000)

	record := testRecord(player.ID)
	record.EventType = "tournament"

	_, err := db.CreateEvent(record)
	assert.Error(t, err)
}

func TestEventMatchesRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	player := CreateTestPlayer(t, db, 1000)

	raw := json.RawMessage(`[{"round":1}]`)
	record := testRecord(player.ID)
	record.Matches = &raw

	id, err := db.CreateEvent(record)
	require.NoError(t, err)

	got, err := db.GetEvent(id)
	require.NoError(t, err)
	require.NotNil(t, got.Matches)
	assert.JSONEq(t, `[{"round":1}]`, string(*got.Matches))
}

func TestListEventsByHost(t *testing.T) {
	db := NewTestDB(t)
	host := CreateTestPlayer(t, db, 1000)
	other := CreateTestPlayer(t, db, 1000)

	_, err := db.CreateEvent(testRecord(host.ID))
	require.NoError(t, err)
	_, err = db.CreateEvent(testRecord(host.ID))
	require.NoError(t, err)
	_, err = db.CreateEvent(testRecord(other.ID))
	require.NoError(t, err)

	events, err := db.ListEventsByHost(host.ID)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, host.ID, e.HostID)
	}
}

func TestEventRecordJSONShape(t *testing.T) {
	record := testRecord("host-1")
	record.ID = "evt_1"

	out, err := json.Marshal(record)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))

	// Nested rating_range and an explicit null for matches.
	rr := m["rating_range"].(map[string]any)
	assert.Equal(t, float64(800), rr["min"])
	assert.Equal(t, float64(1200), rr["max"])

	v, ok := m["matches"]
	require.True(t, ok)
	assert.Nil(t, v)

	assert.Equal(t, "host-1", m["host_id"])
	assert.Equal(t, float64(9999), m["max_participants"])
}
