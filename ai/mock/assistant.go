package mock

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/veridian/clauselens/ai"
)

// MockAssistant is a test double for ai.Assistant.
// It allows custom behavior injection via function fields.
type MockAssistant struct {
	// AskFunc is called by Ask if set.
	AskFunc func(ctx context.Context, clauseText, question string) (string, error)

	// ChatFunc is called by Chat if set.
	ChatFunc func(ctx context.Context, history []ai.ChatMessage, message, contextText string) (string, error)

	// CompareFunc is called by Compare if set.
	CompareFunc func(ctx context.Context, docs []ai.ComparisonInput) (*ai.ComparisonResult, error)

	askCount     atomic.Int64
	chatCount    atomic.Int64
	compareCount atomic.Int64
}

// NewMockAssistant creates a mock assistant with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockAssistant().
func NewMockAssistant() *MockAssistant {
	return &MockAssistant{}
}

// Ask returns a canned answer referencing the question.
func (m *MockAssistant) Ask(ctx context.Context, clauseText, question string) (string, error) {
	m.askCount.Add(1)

	if m.AskFunc != nil {
		return m.AskFunc(ctx, clauseText, question)
	}

	return fmt.Sprintf("Mock answer to %q.", question), nil
}

// Chat returns a canned reply. With context it claims to cite the document,
// without it it gives general guidance, mirroring the production contract.
func (m *MockAssistant) Chat(ctx context.Context, history []ai.ChatMessage, message, contextText string) (string, error) {
	m.chatCount.Add(1)

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, history, message, contextText)
	}

	if contextText != "" {
		return fmt.Sprintf("Mock document-grounded reply to %q.", message), nil
	}
	return fmt.Sprintf("Mock general guidance for %q.", message), nil
}

// Compare recommends the first document by default.
func (m *MockAssistant) Compare(ctx context.Context, docs []ai.ComparisonInput) (*ai.ComparisonResult, error) {
	m.compareCount.Add(1)

	if m.CompareFunc != nil {
		return m.CompareFunc(ctx, docs)
	}

	if len(docs) < 2 {
		return nil, fmt.Errorf("comparison requires at least two documents, got %d", len(docs))
	}

	diffs := make([]string, 0, len(docs)-1)
	for _, doc := range docs[1:] {
		diffs = append(diffs, fmt.Sprintf("%s differs from %s.", doc.Name, docs[0].Name))
	}

	return &ai.ComparisonResult{
		RecommendedId:  docs[0].Id,
		Reasoning:      fmt.Sprintf("%s has the most favorable terms.", docs[0].Name),
		KeyDifferences: diffs,
	}, nil
}

// AskCallCount returns the number of times Ask was called.
func (m *MockAssistant) AskCallCount() int {
	return int(m.askCount.Load())
}

// ChatCallCount returns the number of times Chat was called.
func (m *MockAssistant) ChatCallCount() int {
	return int(m.chatCount.Load())
}

// CompareCallCount returns the number of times Compare was called.
func (m *MockAssistant) CompareCallCount() int {
	return int(m.compareCount.Load())
}

// Reset clears the call counts and custom functions.
func (m *MockAssistant) Reset() {
	m.askCount.Store(0)
	m.chatCount.Store(0)
	m.compareCount.Store(0)
	m.AskFunc = nil
	m.ChatFunc = nil
	m.CompareFunc = nil
}
