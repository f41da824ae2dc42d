// Package testutil provides a fully wired server for end-to-end tests,
// backed by an in-memory database and a scripted LLM endpoint.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/HackSU2026/RallyUp/internal/auth"
	"github.com/HackSU2026/RallyUp/internal/chat"
	"github.com/HackSU2026/RallyUp/internal/config"
	"github.com/HackSU2026/RallyUp/internal/database"
	"github.com/HackSU2026/RallyUp/internal/server"
)

// TestServer wraps a server for E2E testing.
type TestServer struct {
	Server     *server.Server
	DB         *database.DB
	HTTPServer *httptest.Server
	LLM        *ScriptedLLM
	t          *testing.T
}

// ScriptedLLM is a fake Anthropic endpoint that replays canned responses
// in order, repeating the last one when the script runs out.
type ScriptedLLM struct {
	mu        sync.Mutex
	responses []string
	calls     int
	srv       *httptest.Server
}

// Script replaces the response sequence.
func (l *ScriptedLLM) Script(responses ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.responses = responses
	l.calls = 0
}

// Calls returns how many requests the endpoint has served.
func (l *ScriptedLLM) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func (l *ScriptedLLM) handle(w http.ResponseWriter, r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.calls
	l.calls++
	if idx >= len(l.responses) {
		idx = len(l.responses) - 1
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(l.responses[idx]))
}

// TextResponse builds an assistant turn holding a single text block.
func TextResponse(text string) string {
	out, _ := json.Marshal(map[string]any{
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": "end_turn",
		"usage":       map[string]int{"input_tokens": 10, "output_tokens": 5},
	})
	return string(out)
}

// ToolUseResponse builds an assistant turn requesting a create_event call.
func ToolUseResponse(id string, input map[string]any) string {
	out, _ := json.Marshal(map[string]any{
		"content": []map[string]any{
			{"type": "tool_use", "id": id, "name": "create_event", "input": input},
		},
		"stop_reason": "tool_use",
		"usage":       map[string]int{"input_tokens": 10, "output_tokens": 5},
	})
	return string(out)
}

// NewTestServer creates a fully wired server for E2E testing.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	db := database.NewTestDB(t)

	llm := &ScriptedLLM{responses: []string{TextResponse("ok")}}
	llm.srv = httptest.NewServer(http.HandlerFunc(llm.handle))
	t.Cleanup(llm.srv.Close)

	cfg := &config.Config{
		HTTPPort:        0,
		DBPath:          ":memory:",
		LogLevel:        "disabled",
		AnthropicAPIKey: "test-key",
	}

	assistant := chat.New(chat.Config{
		APIKey:  "test-key",
		BaseURL: llm.srv.URL,
	}, db, zerolog.Nop())

	authService := auth.NewService(db)

	srv := server.New(server.ServerConfig{
		DB:          db,
		AuthService: authService,
		Config:      cfg,
		Logger:      zerolog.Nop(),
		Assistant:   assistant,
	})

	httpSrv := httptest.NewServer(srv.Handler())
	t.Cleanup(httpSrv.Close)

	return &TestServer{
		Server:     srv,
		DB:         db,
		HTTPServer: httpSrv,
		LLM:        llm,
		t:          t,
	}
}

// BaseURL returns the test server's base URL.
func (ts *TestServer) BaseURL() string {
	return ts.HTTPServer.URL
}

// LoginPlayer creates a player profile with the given rating and returns
// a live session token for it.
func (ts *TestServer) LoginPlayer(rating int) (string, *database.Player) {
	ts.t.Helper()

	player := database.CreateTestPlayer(ts.t, ts.DB, rating)
	token, err := auth.NewService(ts.DB).CreateSession(player.ID, "e2e")
	require.NoError(ts.t, err)
	return token, player
}
