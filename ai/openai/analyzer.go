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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/veridian/clauselens/ai"
	"github.com/veridian/clauselens/core"
)

// Analyzer implements ai.DocumentAnalyzer using OpenAI-compatible chat APIs
// with document/image inputs.
type Analyzer struct {
	client llms.Model
	logger *slog.Logger
}

// clauseResponse is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type clauseResponse struct {
	Id            string   `json:"id"`
	Text          string   `json:"text"`
	Explanation   string   `json:"explanation"`
	RiskLevel     string   `json:"risk_level"`
	RiskyKeywords []string `json:"risky_keywords"`
	Reason        string   `json:"reason"`
}

// analysisResponse is the wrapper structure for the LLM's JSON response.
type analysisResponse struct {
	Summary     string           `json:"summary"`
	OverallRisk string           `json:"overall_risk"`
	RiskScore   int              `json:"risk_score"`
	FullText    string           `json:"full_text"`
	Clauses     []clauseResponse `json:"clauses"`
}

// newAnalyzer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnalyzer(config *ai.Config) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.AnalyzerHost),
		openai.WithToken(config.APIToken),
		openai.WithModel(config.AnalyzerModel),
	)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		client: client,
		logger: slog.Default().With("component", "openai-analyzer"),
	}, nil
}

// NewAnalyzer creates a new document analyzer using the provided configuration.
//
// Returns ai.DocumentAnalyzer interface to enforce abstraction.
func NewAnalyzer(config *ai.Config) (ai.DocumentAnalyzer, error) {
	return newAnalyzer(config)
}

// Analyze submits the document to the model and parses the structured result.
// The response is requested in JSON mode; malformed responses are repaired and
// retried up to 3 times before failing.
func (a *Analyzer) Analyze(ctx context.Context, req ai.AnalyzeRequest) (*core.Analysis, error) {
	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding document payload: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty document payload")
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(analysisSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart(req.MediaType, raw),
				llms.TextPart("Analyze this document."),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result analysisResponse
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			a.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			lastErr = fmt.Errorf("no choices returned from model")
			a.logger.Warn("no choices returned from model", "attempt", attempt+1)
			continue
		}

		responseText := stripFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			a.logger.Warn("error parsing analysis response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		a.logger.Error("failed to parse analysis response after retries", "err", lastErr)
		return nil, lastErr
	}

	analysis := a.toAnalysis(&result)
	if err := core.ValidateAnalysis(analysis); err != nil {
		return nil, fmt.Errorf("analysis response failed validation: %w", err)
	}
	return analysis, nil
}

// toAnalysis converts the wire response into the domain type, normalizing
// fields the model tends to get slightly wrong: the overall classification is
// recomputed from the score so the band invariant always holds, scores are
// clamped to 0-100, and missing or colliding clause identifiers are replaced
// with content-derived ones.
func (a *Analyzer) toAnalysis(resp *analysisResponse) *core.Analysis {
	score := resp.RiskScore
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	analysis := &core.Analysis{
		Summary:     resp.Summary,
		OverallRisk: core.RiskLevelFromScore(score),
		RiskScore:   score,
		FullText:    resp.FullText,
		Clauses:     make([]core.Clause, 0, len(resp.Clauses)),
	}

	seen := make(map[string]struct{}, len(resp.Clauses))
	for _, c := range resp.Clauses {
		if c.Text == "" {
			continue
		}

		id := c.Id
		if id == "" {
			id = core.ClauseIDFromText(c.Text)
		}
		for i := 2; ; i++ {
			if _, dup := seen[id]; !dup {
				break
			}
			id = fmt.Sprintf("%s-%d", c.Id, i)
			if c.Id == "" {
				id = fmt.Sprintf("%s-%d", core.ClauseIDFromText(c.Text), i)
			}
		}
		seen[id] = struct{}{}

		level := core.RiskLevel(scrubRiskLevel(c.RiskLevel))
		if core.ValidateRiskLevel(level) != nil {
			level = core.RiskLow
		}

		analysis.Clauses = append(analysis.Clauses, core.Clause{
			Id:            id,
			Text:          c.Text,
			Explanation:   c.Explanation,
			RiskLevel:     level,
			RiskyKeywords: c.RiskyKeywords,
			Reason:        c.Reason,
		})
	}

	return analysis
}
