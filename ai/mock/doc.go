// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.DocumentAnalyzer,
// ai.Assistant, and ai.Provider for use in unit tests. The mocks allow tests
// to run without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	analysis, err := mockProvider.Analyzer().Analyze(ctx, req)
//
//	// Custom behavior injection
//	mockAnalyzer := mock.NewMockAnalyzer()
//	mockAnalyzer.AnalyzeFunc = func(ctx context.Context, req ai.AnalyzeRequest) (*core.Analysis, error) {
//	    return nil, errors.New("service unavailable")
//	}
//
//	// Check call counts
//	count := mockAnalyzer.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockAnalyzer: Returns a deterministic analysis derived from the payload
//   - MockAssistant: Returns canned answers; Compare recommends the first document
//   - MockProvider: Aggregates mock analyzer and assistant
package mock
