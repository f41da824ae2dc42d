package migrations

import (
	"database/sql"
)

func init() {
	Register(Migration{
		Version: 1,
		Name:    "initial_schema",
		Up:      initialSchema,
	})
}

func initialSchema(db *sql.DB) error {
	statements := []string{
		// Player profiles, keyed by the identity provider's subject id.
		// display_name and rating stay nullable: the defaults ("Player", 1000)
		// are applied at load time so onboarding can fill them in later.
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL DEFAULT '',
			display_name TEXT,
			photo_url TEXT,
			rating INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_players_email ON players(email)`,

		// Session tokens (hashed at rest). player_id is intentionally not a
		// foreign key: a caller can hold a valid session before their player
		// profile exists (onboarding not completed).
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id TEXT NOT NULL,
			token_hash TEXT UNIQUE NOT NULL,
			expires_at DATETIME NOT NULL,
			device_info TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_token_hash ON sessions(token_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_player ON sessions(player_id)`,

		// Event records. Column names mirror the wire schema read by other
		// RallyUp services, so they are a compatibility surface.
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			event_type TEXT NOT NULL CHECK(event_type IN ('practice', 'match')),
			host_id TEXT NOT NULL,
			location TEXT NOT NULL,
			variant TEXT NOT NULL CHECK(variant IN ('singles', 'doubles')),
			rating_min INTEGER NOT NULL,
			rating_max INTEGER NOT NULL,
			max_participants INTEGER NOT NULL,
			participants TEXT NOT NULL,
			matches TEXT,
			status TEXT NOT NULL DEFAULT 'open',
			start_at DATETIME NOT NULL,
			end_at DATETIME NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_host ON events(host_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_status ON events(status)`,
		`CREATE INDEX IF NOT EXISTS idx_events_start_at ON events(start_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
