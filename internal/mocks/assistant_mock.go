package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/HackSU2026/RallyUp/internal/auth"
	"github.com/HackSU2026/RallyUp/internal/chat"
)

// MockAssistant is a mock implementation of the chat backend.
type MockAssistant struct {
	mock.Mock
}

func (m *MockAssistant) Chat(ctx context.Context, caller *auth.Player, message string, history []chat.Turn) (*chat.Result, error) {
	args := m.Called(ctx, caller, message, history)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Result), args.Error(1)
}
