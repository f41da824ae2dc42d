package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/HackSU2026/RallyUp/internal/auth"
	"github.com/HackSU2026/RallyUp/internal/chat"
)

// chatTimeout bounds a single /chat request across all LLM round trips.
const chatTimeout = 60 * time.Second

type chatRequest struct {
	Message string      `json:"message"`
	History []chat.Turn `json:"history"`
}

type chatResponse struct {
	Reply          string  `json:"reply"`
	CreatedEventID *string `json:"created_event_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST.")
		return
	}

	caller, err := s.auth.Authenticate(r)
	if err != nil {
		respondError(w, auth.StatusOf(err), err.Error())
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "Message is required.")
		return
	}

	if s.cfg.AnthropicAPIKey == "" {
		s.logger.Error().Msg("chat request rejected: LLM API key not configured")
		respondError(w, http.StatusInternalServerError, "Anthropic API key not configured.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
	defer cancel()

	result, err := s.chatService().Chat(ctx, caller, req.Message, req.History)
	if err != nil {
		s.logger.Error().Err(err).Str("player_id", caller.ID).Msg("chat request failed")
		respondError(w, auth.StatusOf(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, chatResponse{
		Reply:          result.Reply,
		CreatedEventID: result.CreatedEventID,
	})
}

type googleLoginRequest struct {
	AccessToken string `json:"access_token"`
	DeviceInfo  string `json:"device_info"`
}

type googleLoginResponse struct {
	Token  string       `json:"token"`
	Player *auth.Player `json:"player"`
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if req.AccessToken == "" {
		respondError(w, http.StatusBadRequest, "access_token is required.")
		return
	}

	player, token, err := s.auth.LoginWithGoogle(r.Context(), req.AccessToken, req.DeviceInfo)
	if err != nil {
		var statusErr *auth.StatusError
		if errors.As(err, &statusErr) {
			respondError(w, statusErr.Code, statusErr.Message)
			return
		}
		s.logger.Error().Err(err).Msg("google login failed")
		respondError(w, http.StatusInternalServerError, "Login failed. Please try again.")
		return
	}

	respondJSON(w, http.StatusOK, googleLoginResponse{Token: token, Player: player})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := extractBearer(r)
	if token == "" {
		respondError(w, http.StatusUnauthorized, "Missing or malformed Authorization header")
		return
	}

	if err := s.auth.Logout(token); err != nil {
		s.logger.Error().Err(err).Msg("logout failed")
		respondError(w, http.StatusInternalServerError, "Logout failed.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
