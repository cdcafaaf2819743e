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
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/veridian/clauselens/ai"
)

// Assistant implements ai.Assistant using OpenAI-compatible chat APIs.
type Assistant struct {
	client llms.Model
	logger *slog.Logger
}

// comparisonResponse is the wire structure for Compare's JSON response.
type comparisonResponse struct {
	Recommended    string   `json:"recommended"`
	Reasoning      string   `json:"reasoning"`
	KeyDifferences []string `json:"key_differences"`
}

// newAssistant is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAssistant(config *ai.Config) (*Assistant, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.AssistantHost),
		openai.WithToken(config.APIToken),
		openai.WithModel(config.AssistantModel),
	)
	if err != nil {
		return nil, err
	}

	return &Assistant{
		client: client,
		logger: slog.Default().With("component", "openai-assistant"),
	}, nil
}

// NewAssistant creates a new assistant using the provided configuration.
//
// Returns ai.Assistant interface to enforce abstraction.
func NewAssistant(config *ai.Config) (ai.Assistant, error) {
	return newAssistant(config)
}

// Ask answers a single question about one clause's text.
func (s *Assistant) Ask(ctx context.Context, clauseText, question string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(askSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(fmt.Sprintf("Clause:\n%s\n\nQuestion: %s", clauseText, question)),
			},
		},
	}

	return s.generateText(ctx, content)
}

// Chat continues a conversation. With a non-empty contextText the assistant is
// constrained to cite sections and clauses from it; without one it limits
// itself to general guidance.
func (s *Assistant) Chat(ctx context.Context, history []ai.ChatMessage, message, contextText string) (string, error) {
	system := chatGeneralPrompt
	if contextText != "" {
		system = fmt.Sprintf(chatContextPromptTemplate, contextText)
	}

	content := make([]llms.MessageContent, 0, len(history)+2)
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeSystem,
		Parts: []llms.ContentPart{llms.TextPart(system)},
	})

	for _, msg := range history {
		role := llms.ChatMessageTypeHuman
		if msg.Role == ai.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}

	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(message)},
	})

	return s.generateText(ctx, content)
}

// Compare evaluates the documents against each other and returns a
// recommendation. The model is instructed to reference documents strictly by
// their exact provided names; the answer is mapped back to a document Id.
func (s *Assistant) Compare(ctx context.Context, docs []ai.ComparisonInput) (*ai.ComparisonResult, error) {
	if len(docs) < 2 {
		return nil, fmt.Errorf("comparison requires at least two documents, got %d", len(docs))
	}

	var sb strings.Builder
	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = doc.Name
		fmt.Fprintf(&sb, "Name: %s\nRisk score: %d (%s)\nSummary: %s\n",
			doc.Name, doc.Analysis.RiskScore, doc.Analysis.OverallRisk, doc.Analysis.Summary)
		for _, clause := range doc.Analysis.Clauses {
			fmt.Fprintf(&sb, "- [%s] %s: %s\n", clause.RiskLevel, clause.Id, clause.Text)
		}
		sb.WriteString("\n")
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(compareSystemPrompt(names)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(sb.String()),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result comparisonResponse
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			s.logger.Error("failed to generate comparison", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			lastErr = fmt.Errorf("no choices returned from model")
			continue
		}

		responseText := stripFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			s.logger.Warn("error parsing comparison response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		s.logger.Error("failed to parse comparison response after retries", "err", lastErr)
		return nil, lastErr
	}

	recommendedID := ""
	for _, doc := range docs {
		if strings.EqualFold(strings.TrimSpace(result.Recommended), doc.Name) || result.Recommended == doc.Id {
			recommendedID = doc.Id
			break
		}
	}
	if recommendedID == "" {
		return nil, fmt.Errorf("comparison response references unknown document %q", result.Recommended)
	}

	return &ai.ComparisonResult{
		RecommendedId:  recommendedID,
		Reasoning:      result.Reasoning,
		KeyDifferences: result.KeyDifferences,
	}, nil
}

// generateText runs a plain-text completion and returns the first choice.
func (s *Assistant) generateText(ctx context.Context, content []llms.MessageContent) (string, error) {
	response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		s.logger.Error("failed to generate content", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", fmt.Errorf("no choices returned from model")
	}
	return strings.TrimSpace(response.Choices[0].Content), nil
}
