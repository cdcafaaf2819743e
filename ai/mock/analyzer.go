package mock

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync/atomic"

	"github.com/veridian/clauselens/ai"
	"github.com/veridian/clauselens/core"
)

// MockAnalyzer is a test double for ai.DocumentAnalyzer.
// It allows custom behavior injection via function fields.
// Safe for concurrent use, since the pipeline dispatches analyses in parallel.
type MockAnalyzer struct {
	// AnalyzeFunc is called by Analyze if set.
	// If nil, uses a deterministic default analysis derived from the payload.
	AnalyzeFunc func(ctx context.Context, req ai.AnalyzeRequest) (*core.Analysis, error)

	callCount atomic.Int64
}

// NewMockAnalyzer creates a mock analyzer with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockAnalyzer().
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{}
}

// Analyze returns a deterministic mock analysis.
// Default behavior: one clause derived from the decoded payload, with a risk
// score proportional to the payload length so different inputs produce
// different bands.
func (m *MockAnalyzer) Analyze(ctx context.Context, req ai.AnalyzeRequest) (*core.Analysis, error) {
	m.callCount.Add(1)

	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, req)
	}

	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, err
	}

	score := len(raw) % 101
	text := string(raw)
	if len(text) > 80 {
		text = text[:80]
	}

	return &core.Analysis{
		Summary:     fmt.Sprintf("Mock analysis of a %s document (%d bytes).", req.MediaType, len(raw)),
		OverallRisk: core.RiskLevelFromScore(score),
		RiskScore:   score,
		FullText:    string(raw),
		Clauses: []core.Clause{
			{
				Id:            core.ClauseIDFromText(text),
				Text:          text,
				Explanation:   "Mock explanation.",
				RiskLevel:     core.RiskLevelFromScore(score),
				RiskyKeywords: []string{"mock"},
				Reason:        "Deterministic mock clause.",
			},
		},
	}, nil
}

// CallCount returns the number of times Analyze was called.
func (m *MockAnalyzer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockAnalyzer) Reset() {
	m.callCount.Store(0)
	m.AnalyzeFunc = nil
}
