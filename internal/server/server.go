package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/HackSU2026/RallyUp/internal/auth"
	"github.com/HackSU2026/RallyUp/internal/chat"
	"github.com/HackSU2026/RallyUp/internal/config"
	"github.com/HackSU2026/RallyUp/internal/database"
)

// ChatService is the conversational backend the /chat handler talks to.
type ChatService interface {
	Chat(ctx context.Context, caller *auth.Player, message string, history []chat.Turn) (*chat.Result, error)
}

type Server struct {
	db      *database.DB
	auth    *auth.Service
	cfg     *config.Config
	logger  zerolog.Logger
	httpSrv *http.Server
	port    int

	// The assistant is built on first use so the server can boot and serve
	// health checks without LLM credentials.
	assistantOnce sync.Once
	assistant     ChatService
}

// ServerConfig holds everything needed to construct a Server.
type ServerConfig struct {
	DB          *database.DB
	AuthService *auth.Service
	Config      *config.Config
	Logger      zerolog.Logger

	// Assistant overrides the lazily-built chat backend. Used by tests.
	Assistant ChatService
}

func New(cfg ServerConfig) *Server {
	s := &Server{
		db:        cfg.DB,
		auth:      cfg.AuthService,
		cfg:       cfg.Config,
		logger:    cfg.Logger,
		port:      cfg.Config.HTTPPort,
		assistant: cfg.Assistant,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.HTTPPort),
		Handler:      s.requestLogger(corsHandler.Handler(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second, // must outlast the chat deadline
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealthCheck)

	mux.HandleFunc("POST /auth/google", s.handleGoogleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)

	// Registered without a method pattern so the handler controls the
	// 405 body instead of the mux's plain-text default.
	mux.HandleFunc("/chat", s.handleChat)
}

// chatService returns the assistant, constructing the real one on first use.
func (s *Server) chatService() ChatService {
	s.assistantOnce.Do(func() {
		if s.assistant != nil {
			return
		}
		s.assistant = chat.New(chat.Config{
			APIKey:      s.cfg.AnthropicAPIKey,
			Model:       s.cfg.Model,
			Temperature: s.cfg.Temperature,
		}, s.db, s.logger)
	})
	return s.assistant
}

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

// Handler exposes the fully wired HTTP handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Int("port", s.port).Msg("starting HTTP server")
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
