package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/HackSU2026/RallyUp/internal/database"
)

const (
	// SessionDuration is how long session tokens are valid
	SessionDuration = 30 * 24 * time.Hour

	// Profile defaults, applied when onboarding left fields unset.
	// Downstream rating-range math requires a numeric rating to always
	// be present.
	DefaultDisplayName = "Player"
	DefaultRating      = 1000
)

// Player is the resolved caller profile: defaults already applied,
// immutable for the duration of a request.
type Player struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Rating      int    `json:"rating"`
}

// Service handles authentication operations
type Service struct {
	db *database.DB

	// verifyToken resolves an identity-provider access token to a user
	// identity. Overridable in tests.
	verifyToken func(ctx context.Context, accessToken string) (*Identity, error)
}

// Identity is what the identity provider asserts about a caller.
type Identity struct {
	Subject  string
	Email    string
	Name     string
	PhotoURL string
}

// NewService creates a new authentication service
func NewService(db *database.DB) *Service {
	return &Service{
		db:          db,
		verifyToken: verifyGoogleAccessToken,
	}
}

// Authenticate verifies the bearer credential from the Authorization header
// and loads the caller's profile. Failures carry HTTP status codes:
// 401 for a missing/malformed header or bad credential, 404 when the
// credential verifies but no profile exists (onboarding not completed).
func (s *Service) Authenticate(r *http.Request) (*Player, error) {
	token := extractBearerToken(r)
	if token == "" {
		return nil, Unauthorized("Missing or malformed Authorization header")
	}

	playerID, err := s.ValidateSession(token)
	if err != nil {
		return nil, Unauthorized("Invalid or expired auth token")
	}

	return s.loadProfile(playerID)
}

// loadProfile fetches the stored profile and applies display-name and
// rating defaults.
func (s *Service) loadProfile(playerID string) (*Player, error) {
	stored, err := s.db.GetPlayer(playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("User profile not found. Complete onboarding first.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load player profile: %w", err)
	}

	player := &Player{
		ID:          stored.ID,
		Email:       stored.Email,
		DisplayName: DefaultDisplayName,
		Rating:      DefaultRating,
	}
	if stored.DisplayName != nil && *stored.DisplayName != "" {
		player.DisplayName = *stored.DisplayName
	}
	if stored.PhotoURL != nil {
		player.PhotoURL = *stored.PhotoURL
	}
	if stored.Rating != nil {
		player.Rating = *stored.Rating
	}

	return player, nil
}

// LoginWithGoogle verifies a Google access token, upserts the player
// profile, and issues a session token.
func (s *Service) LoginWithGoogle(ctx context.Context, accessToken, deviceInfo string) (*Player, string, error) {
	identity, err := s.verifyToken(ctx, accessToken)
	if err != nil {
		return nil, "", Unauthorized("Invalid or expired auth token")
	}

	if _, err := s.db.UpsertPlayer(identity.Subject, identity.Email, identity.Name, identity.PhotoURL); err != nil {
		return nil, "", fmt.Errorf("failed to upsert player: %w", err)
	}

	sessionToken, err := s.CreateSession(identity.Subject, deviceInfo)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	player, err := s.loadProfile(identity.Subject)
	if err != nil {
		return nil, "", err
	}

	return player, sessionToken, nil
}

// CreateSession creates a new session for a player and returns the opaque
// token. Only the token's hash is stored.
func (s *Service) CreateSession(playerID, deviceInfo string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	expiresAt := time.Now().Add(SessionDuration)

	_, err := s.db.Exec(`
		INSERT INTO sessions (player_id, token_hash, expires_at, device_info)
		VALUES (?, ?, ?, ?)
	`, playerID, hashToken(token), expiresAt, deviceInfo)
	if err != nil {
		return "", err
	}

	return token, nil
}

// ValidateSession validates a session token and returns the player id it
// was issued for.
func (s *Service) ValidateSession(token string) (string, error) {
	var playerID string
	var expiresAt time.Time

	err := s.db.QueryRow(`
		SELECT player_id, expires_at FROM sessions WHERE token_hash = ?
	`, hashToken(token)).Scan(&playerID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("invalid session")
	} else if err != nil {
		return "", err
	}

	if time.Now().After(expiresAt) {
		s.db.Exec(`DELETE FROM sessions WHERE token_hash = ?`, hashToken(token))
		return "", fmt.Errorf("session expired")
	}

	return playerID, nil
}

// Logout invalidates a session token
func (s *Service) Logout(token string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE token_hash = ?`, hashToken(token))
	return err
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(hash[:])
}

// extractBearerToken extracts the token from the Authorization header.
// Expects format: "Bearer <token>"
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
