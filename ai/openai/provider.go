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


package openai

import (
	"log/slog"

	"github.com/veridian/clauselens/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// It manages analyzer and assistant instances.
type Provider struct {
	config    *ai.Config
	analyzer  *Analyzer
	assistant *Assistant
	logger    *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create analyzer (using internal constructor for concrete type)
	analyzer, err := newAnalyzer(config)
	if err != nil {
		return nil, err
	}

	// Create assistant (using internal constructor for concrete type)
	assistant, err := newAssistant(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		analyzer:  analyzer,
		assistant: assistant,
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// Analyzer returns the document analysis service.
func (p *Provider) Analyzer() ai.DocumentAnalyzer {
	return p.analyzer
}

// Assistant returns the question answering service.
func (p *Provider) Assistant() ai.Assistant {
	return p.assistant
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
