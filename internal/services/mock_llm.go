package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/adventure-engine/pkg/chat"
)

// MockLLMAPI is a mock implementation of LLMService for testing
type MockLLMAPI struct {
	ChatFunc     func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)
	ChatJSONFunc func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)

	// Track calls for testing
	ChatCalls     [][]chat.ChatMessage
	ChatJSONCalls [][]chat.ChatMessage
	Closed        bool

	mu sync.Mutex // protects all fields above
}

// NewMockLLMAPI creates a new mock LLM service
func NewMockLLMAPI() *MockLLMAPI {
	return &MockLLMAPI{}
}

func (m *MockLLMAPI) Provider() string { return "mock" }

func (m *MockLLMAPI) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Chat records the call and answers "Mock response" unless ChatFunc is set.
func (m *MockLLMAPI) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	m.mu.Lock()
	m.ChatCalls = append(m.ChatCalls, messages)
	fn := m.ChatFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}
	return &chat.ChatResponse{Message: "Mock response", Model: "mock"}, nil
}

// ChatJSON records the call and answers an unrecognized intent unless ChatJSONFunc is set.
func (m *MockLLMAPI) ChatJSON(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	m.mu.Lock()
	m.ChatJSONCalls = append(m.ChatJSONCalls, messages)
	fn := m.ChatJSONFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}
	return &chat.ChatResponse{Message: `{"kind":"unrecognized"}`, Model: "mock"}, nil
}

// SetChatResponse makes Chat answer text.
func (m *MockLLMAPI) SetChatResponse(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return &chat.ChatResponse{Message: text, Model: "mock"}, nil
	}
}

// SetJSONResponse makes ChatJSON answer body.
func (m *MockLLMAPI) SetJSONResponse(body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatJSONFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return &chat.ChatResponse{Message: body, Model: "mock"}, nil
	}
}

// SetChatError sets up the mock to return an error on Chat
func (m *MockLLMAPI) SetChatError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return nil, err
	}
}

// SetChatJSONError sets up the mock to return an error on ChatJSON
func (m *MockLLMAPI) SetChatJSONError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatJSONFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return nil, err
	}
}

// Reset clears all call tracking
func (m *MockLLMAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatCalls = nil
	m.ChatJSONCalls = nil
}

// GetCalls returns a copy of the call tracking data in a thread-safe way
func (m *MockLLMAPI) GetCalls() (chatCalls, jsonCalls [][]chat.ChatMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]chat.ChatMessage(nil), m.ChatCalls...), append([][]chat.ChatMessage(nil), m.ChatJSONCalls...)
}
