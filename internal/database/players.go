package database

import (
	"database/sql"
	"time"
)

// Player represents a stored player profile. DisplayName and Rating are
// pointers because onboarding may leave them unset; callers apply defaults.
type Player struct {
	ID          string
	Email       string
	DisplayName *string
	PhotoURL    *string
	Rating      *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ErrNoRows is re-exported so callers don't need database/sql for the
// not-found check.
var ErrNoRows = sql.ErrNoRows

// GetPlayer returns the profile for the given player id, or sql.ErrNoRows
// when no profile document exists.
func (d *DB) GetPlayer(id string) (*Player, error) {
	var p Player
	err := d.QueryRow(`
		SELECT id, email, display_name, photo_url, rating, created_at, updated_at
		FROM players WHERE id = ?
	`, id).Scan(&p.ID, &p.Email, &p.DisplayName, &p.PhotoURL, &p.Rating, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertPlayer creates or refreshes a player profile. Rating is never
// overwritten on update: it is owned by the matchmaking service.
func (d *DB) UpsertPlayer(id, email, displayName, photoURL string) (*Player, error) {
	_, err := d.Exec(`
		INSERT INTO players (id, email, display_name, photo_url)
		VALUES (?, ?, NULLIF(?, ''), NULLIF(?, ''))
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			display_name = COALESCE(excluded.display_name, players.display_name),
			photo_url = COALESCE(excluded.photo_url, players.photo_url),
			updated_at = CURRENT_TIMESTAMP
	`, id, email, displayName, photoURL)
	if err != nil {
		return nil, err
	}

	return d.GetPlayer(id)
}

// SetPlayerRating updates a player's rating. Used by tests and admin tooling.
func (d *DB) SetPlayerRating(id string, rating int) error {
	_, err := d.Exec(`
		UPDATE players SET rating = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, rating, id)
	return err
}
