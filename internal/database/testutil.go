package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates an in-memory SQLite database for testing.
// The database is automatically closed when the test completes.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

var testPlayerCounter int64 = 0

// CreateTestPlayer inserts a player profile with the given rating and
// returns it. Each call creates a unique player.
func CreateTestPlayer(t *testing.T, db *DB, rating int) *Player {
	t.Helper()
	testPlayerCounter++

	id := fmt.Sprintf("test-player-%d", testPlayerCounter)
	email := fmt.Sprintf("player%d@example.com", testPlayerCounter)
	name := fmt.Sprintf("Test Player %d", testPlayerCounter)

	player, err := db.UpsertPlayer(id, email, name, "")
	require.NoError(t, err, "failed to create test player")

	require.NoError(t, db.SetPlayerRating(id, rating))
	player, err = db.GetPlayer(id)
	require.NoError(t, err)

	return player
}

// CreateTestPlayerBare inserts a player with no display name and no rating,
// for exercising the profile defaults.
func CreateTestPlayerBare(t *testing.T, db *DB) *Player {
	t.Helper()
	testPlayerCounter++

	id := fmt.Sprintf("test-player-%d", testPlayerCounter)
	email := fmt.Sprintf("player%d@example.com", testPlayerCounter)

	player, err := db.UpsertPlayer(id, email, "", "")
	require.NoError(t, err, "failed to create bare test player")

	return player
}
