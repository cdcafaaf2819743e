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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// AnalyzerHost is the base URL for the document analysis service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	AnalyzerHost string

	// AssistantHost is the base URL for the question answering service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	AssistantHost string

	// AnalyzerModel is the model identifier used for document analysis.
	// Must accept document/image inputs alongside text.
	// Example: "qwen2.5-vl:7b", "gpt-4o-mini"
	AnalyzerModel string

	// AssistantModel is the model identifier used for ask/chat/compare.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	AssistantModel string

	// APIToken authenticates against the services. Use "none" for local
	// OpenAI-compatible servers that require no authentication.
	APIToken string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAnalyzerHost sets the analysis service host URL.
func WithAnalyzerHost(host string) ConfigOption {
	return func(c *Config) {
		c.AnalyzerHost = host
	}
}

// WithAssistantHost sets the assistant service host URL.
func WithAssistantHost(host string) ConfigOption {
	return func(c *Config) {
		c.AssistantHost = host
	}
}

// WithHost sets both analyzer and assistant hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.AnalyzerHost = host
		c.AssistantHost = host
	}
}

// WithAnalyzerModel sets the analysis model identifier.
func WithAnalyzerModel(model string) ConfigOption {
	return func(c *Config) {
		c.AnalyzerModel = model
	}
}

// WithAssistantModel sets the assistant model identifier.
func WithAssistantModel(model string) ConfigOption {
	return func(c *Config) {
		c.AssistantModel = model
	}
}

// WithAPIToken sets the API token used for both services.
func WithAPIToken(token string) ConfigOption {
	return func(c *Config) {
		c.APIToken = token
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. Both services share the same host by default.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		AnalyzerHost:   defaultHost,
		AssistantHost:  defaultHost,
		AnalyzerModel:  "qwen2.5-vl:7b",
		AssistantModel: "qwen2.5:3b",
		APIToken:       "none",
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithHost("http://localhost:11434/v1"),
//       WithAnalyzerModel("gpt-4o-mini"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.AnalyzerHost != "" && !strings.HasSuffix(c.AnalyzerHost, "/v1") {
		c.AnalyzerHost = strings.TrimSuffix(c.AnalyzerHost, "/")
		c.AnalyzerHost = c.AnalyzerHost + "/v1"
	}
	if c.AssistantHost != "" && !strings.HasSuffix(c.AssistantHost, "/v1") {
		c.AssistantHost = strings.TrimSuffix(c.AssistantHost, "/")
		c.AssistantHost = c.AssistantHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
// A missing API token is a configuration error here so that credential
// problems surface before any document is dispatched.
func (c *Config) Validate() error {
	c.Normalize()

	if c.AnalyzerHost == "" {
		return errors.New("ai config: AnalyzerHost is required")
	}
	if c.AssistantHost == "" {
		return errors.New("ai config: AssistantHost is required")
	}
	if c.AnalyzerModel == "" {
		return errors.New("ai config: AnalyzerModel is required")
	}
	if c.AssistantModel == "" {
		return errors.New("ai config: AssistantModel is required")
	}
	if c.APIToken == "" {
		return errors.New("ai config: APIToken is required (use \"none\" for unauthenticated local services)")
	}
	return nil
}
