// Package chat owns the RallyBot conversation: it seeds caller context,
// drives the bounded function-calling loop against the LLM, and shapes the
// final reply.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/HackSU2026/RallyUp/internal/agent"
	"github.com/HackSU2026/RallyUp/internal/auth"
	"github.com/HackSU2026/RallyUp/internal/events"
)

const (
	// maxToolIterations caps LLM round trips per request. The cap is a hard
	// safety invariant: a model that keeps requesting calls must not be able
	// to hold the request open indefinitely.
	maxToolIterations = 5

	fallbackReply = "Sorry, I couldn't process that request."
)

// Turn is one caller-supplied history entry in the HTTP schema.
type Turn struct {
	Role  string `json:"role"` // "user" or "model"
	Parts []Part `json:"parts"`
}

// Part is a text fragment of a history turn.
type Part struct {
	Text string `json:"text"`
}

// Result is the outcome of one chat request.
type Result struct {
	Reply          string
	CreatedEventID *string
}

// Config configures the assistant.
type Config struct {
	APIKey      string
	Model       string
	Temperature float64

	// BaseURL overrides the LLM endpoint. Used by tests.
	BaseURL string
}

// Assistant runs RallyBot conversations. It holds no per-request state and
// is safe for concurrent use.
type Assistant struct {
	client   *agent.APIClient
	registry *Registry
	logger   zerolog.Logger
	now      func() time.Time
}

// New creates an assistant with the create_event tool registered against
// the given store.
func New(cfg Config, store events.Store, logger zerolog.Logger) *Assistant {
	client := agent.NewAPIClient(cfg.APIKey, cfg.Model, cfg.Temperature)
	if cfg.BaseURL != "" {
		client.SetBaseURL(cfg.BaseURL)
	}

	registry := NewRegistry()
	registry.MustRegister(events.NewCreateEventExecutor(store, logger))

	return &Assistant{
		client:   client,
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
}

// Chat sends the caller's message to the model and drives the tool loop
// until the model stops requesting calls or the iteration cap is hit.
func (a *Assistant) Chat(ctx context.Context, caller *auth.Player, message string, history []Turn) (*Result, error) {
	messages := a.seedMessages(caller, history)
	messages = append(messages, agent.Text("user", message))

	opts := agent.CallOptions{
		System: SystemPrompt,
		Tools:  a.registry.Tools(),
	}

	resp, err := a.client.Call(ctx, messages, opts)
	if err != nil {
		return nil, fmt.Errorf("assistant call failed: %w", err)
	}

	var usage agent.UsageStats
	usage.Add(resp.Usage)

	var createdEventID *string

	iterations := 0
	for iterations < maxToolIterations {
		// Only the first tool_use block per turn is acted upon. If the model
		// emits several, the rest are dropped (one-tool-per-turn policy).
		toolUse := agent.FirstToolUse(resp.Content)
		if toolUse == nil {
			break
		}
		iterations++

		result := a.registry.Dispatch(ctx, toolUse.Name, toolUse.Input, caller)
		if result.Success && result.EventID != "" {
			id := result.EventID
			createdEventID = &id
		}

		resultJSON, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tool result: %w", err)
		}

		messages = append(messages, agent.Message{Role: "assistant", Content: resp.Content})
		messages = append(messages, agent.Message{
			Role: "user",
			Content: []agent.ContentBlock{agent.ToolResultBlock{
				Type:      "tool_result",
				ToolUseID: toolUse.ID,
				Content:   string(resultJSON),
			}},
		})

		resp, err = a.client.Call(ctx, messages, opts)
		if err != nil {
			return nil, fmt.Errorf("assistant call failed: %w", err)
		}
		usage.Add(resp.Usage)
	}

	reply := agent.JoinText(resp.Content)
	if reply == "" {
		reply = fallbackReply
	}

	a.logger.Debug().
		Str("caller", caller.ID).
		Int("tool_iterations", iterations).
		Int("input_tokens", usage.InputTokens).
		Int("output_tokens", usage.OutputTokens).
		Msg("chat completed")

	return &Result{Reply: reply, CreatedEventID: createdEventID}, nil
}

// seedMessages builds the session prologue: a context turn with the
// caller's identity and the current time, the standing greeting, then the
// caller-supplied history verbatim.
func (a *Assistant) seedMessages(caller *auth.Player, history []Turn) []agent.Message {
	messages := make([]agent.Message, 0, len(history)+3)

	messages = append(messages, agent.Text("user", fmt.Sprintf(
		"[CONTEXT] Current user: %s (uid: %s, rating: %d). Current time: %s.",
		caller.DisplayName, caller.ID, caller.Rating, a.now().UTC().Format(time.RFC3339),
	)))
	messages = append(messages, agent.Text("assistant", fmt.Sprintf(
		"Hello %s! I'm RallyBot. How can I help you with badminton events today?",
		caller.DisplayName,
	)))

	for _, turn := range history {
		role := "user"
		if turn.Role == "model" {
			role = "assistant"
		}
		var text string
		for _, part := range turn.Parts {
			text += part.Text
		}
		messages = append(messages, agent.Text(role, text))
	}

	return messages
}
