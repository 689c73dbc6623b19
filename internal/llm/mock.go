package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one canned reply for the MockGenerator.
type MockResponse struct {
	Content json.RawMessage
	Err     error
}

// MockGenerator is a deterministic Generator for tests. It returns
// canned responses in FIFO order and records every prompt it receives.
type MockGenerator struct {
	mu        sync.Mutex
	responses []MockResponse
	Prompts   []string
}

func NewMockGenerator(responses ...MockResponse) *MockGenerator {
	return &MockGenerator{responses: responses}
}

func (m *MockGenerator) GenerateJSON(_ context.Context, prompt string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if len(m.responses) == 0 {
		return nil, &ErrUnavailable{}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Content, nil
}

// Calls reports how many prompts have been sent so far.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

func (m *MockGenerator) Close() error { return nil }
