package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/HackSU2026/RallyUp/internal/agent"
	"github.com/HackSU2026/RallyUp/internal/auth"
	"github.com/HackSU2026/RallyUp/internal/events"
)

// ToolExecutor is a callable capability the model can invoke: a tool
// declaration plus the code that validates and executes it.
type ToolExecutor interface {
	Tool() agent.Tool
	Execute(ctx context.Context, input map[string]any, caller *auth.Player) *events.ToolResult
}

// Registry maps tool names to executors. Adding a tool means adding a
// registration, not touching the orchestrator.
type Registry struct {
	tools     []agent.Tool
	executors map[string]ToolExecutor
	mu        sync.RWMutex
}

// NewRegistry creates an empty tool registry
func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[string]ToolExecutor),
	}
}

// Register adds an executor to the registry
func (r *Registry) Register(executor ToolExecutor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := executor.Tool().Name
	if _, exists := r.executors[name]; exists {
		return fmt.Errorf("tool already registered: %s", name)
	}

	r.tools = append(r.tools, executor.Tool())
	r.executors[name] = executor
	return nil
}

// MustRegister registers an executor and panics on error
func (r *Registry) MustRegister(executor ToolExecutor) {
	if err := r.Register(executor); err != nil {
		panic(err)
	}
}

// Dispatch routes a tool invocation to its executor. It never fails with
// a Go error: an unregistered name yields a failed ToolResult that feeds
// back into the conversation like any other tool outcome.
func (r *Registry) Dispatch(ctx context.Context, name string, input map[string]any, caller *auth.Player) *events.ToolResult {
	r.mu.RLock()
	executor, ok := r.executors[name]
	r.mu.RUnlock()

	if !ok {
		return &events.ToolResult{Success: false, Error: fmt.Sprintf("Unknown tool: %s", name)}
	}

	return executor.Execute(ctx, input, caller)
}

// Tools returns all registered tool declarations
func (r *Registry) Tools() []agent.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]agent.Tool, len(r.tools))
	copy(result, r.tools)
	return result
}

// HasTool checks if a tool is registered
func (r *Registry) HasTool(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.executors[name]
	return ok
}
