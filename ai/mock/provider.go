// Copyright 2025 Veridian Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/veridian/clauselens/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock analyzer and assistant instances.
type MockProvider struct {
	analyzer  *MockAnalyzer
	assistant *MockAssistant
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockAnalyzer()/GetMockAssistant() to access concrete types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		analyzer:  NewMockAnalyzer(),
		assistant: NewMockAssistant(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(analyzer *MockAnalyzer, assistant *MockAssistant) ai.Provider {
	return &MockProvider{
		analyzer:  analyzer,
		assistant: assistant,
	}
}

// Analyzer returns the mock analyzer.
func (p *MockProvider) Analyzer() ai.DocumentAnalyzer {
	return p.analyzer
}

// Assistant returns the mock assistant.
func (p *MockProvider) Assistant() ai.Assistant {
	return p.assistant
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockAnalyzer returns the underlying mock analyzer for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockAnalyzer() *MockAnalyzer {
	return p.analyzer
}

// GetMockAssistant returns the underlying mock assistant for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockAssistant() *MockAssistant {
	return p.assistant
}
