package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/science-santa/pkg/chat"
)

// MockLLMAPI is a mock implementation of LLMService for testing
type MockLLMAPI struct {
	CompleteFunc  func(ctx context.Context, req chat.CompletionRequest) (string, error)
	InitModelFunc func(ctx context.Context) error

	// Track calls for testing
	CompleteCalls  []chat.CompletionRequest
	InitModelCalls int

	mu sync.Mutex // protects all fields above
}

// MockReply is what Complete returns when no CompleteFunc is set.
const MockReply = `{"santaResponse":"Ho ho ho! Mock response.","options":[{"text":"Tell me more","points":5}]}`

// NewMockLLMAPI creates a new mock LLM service
func NewMockLLMAPI() *MockLLMAPI {
	return &MockLLMAPI{
		CompleteCalls: make([]chat.CompletionRequest, 0),
	}
}

func (m *MockLLMAPI) Name() string {
	return "mock"
}

// Complete records the request, then runs CompleteFunc outside the lock so
// a test can block inside it.
func (m *MockLLMAPI) Complete(ctx context.Context, req chat.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.CompleteCalls = append(m.CompleteCalls, req)
	fn := m.CompleteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return MockReply, nil
}

// InitModel mocks model initialization
func (m *MockLLMAPI) InitModel(ctx context.Context) error {
	m.mu.Lock()
	m.InitModelCalls++
	fn := m.InitModelFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return nil
}

// SetResponse makes every Complete call return raw
func (m *MockLLMAPI) SetResponse(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteFunc = func(ctx context.Context, req chat.CompletionRequest) (string, error) {
		return raw, nil
	}
}

// SetCompleteError sets up the mock to return an error on Complete
func (m *MockLLMAPI) SetCompleteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteFunc = func(ctx context.Context, req chat.CompletionRequest) (string, error) {
		return "", err
	}
}

// Reset clears all call tracking
func (m *MockLLMAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteCalls = make([]chat.CompletionRequest, 0)
	m.InitModelCalls = 0
}

// GetCalls returns a copy of the recorded Complete requests
func (m *MockLLMAPI) GetCalls() []chat.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]chat.CompletionRequest, len(m.CompleteCalls))
	copy(calls, m.CompleteCalls)
	return calls
}
