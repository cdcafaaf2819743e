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


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Id and Name must not be empty
//   - MediaType must be on the upload allow-list
//   - The nested Analysis must validate
//
// NOT validated:
//   - Content (may legitimately be absent after a degraded write)
//   - UserId (ownership is a filter, not an integrity constraint)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocumentID)
	}

	if doc.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocumentName)
	}

	if !IsAllowedMediaType(doc.MediaType) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidDocument, ErrUnsupportedMediaType, doc.MediaType)
	}

	if err := ValidateAnalysis(&doc.Analysis); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateAnalysis validates an Analysis according to domain rules.
//
// Validation rules:
//   - RiskScore must be in 0-100
//   - OverallRisk must match the score's band (<40 low, 40-70 medium, >70 high)
//   - Clause identifiers must be unique within the analysis
//   - Every clause must validate
func ValidateAnalysis(analysis *Analysis) error {
	if analysis == nil {
		return fmt.Errorf("%w: analysis is nil", ErrInvalidAnalysis)
	}

	if analysis.RiskScore < 0 || analysis.RiskScore > 100 {
		return fmt.Errorf("%w: %w: got %d", ErrInvalidAnalysis, ErrRiskScoreOutOfRange, analysis.RiskScore)
	}

	if analysis.OverallRisk != RiskLevelFromScore(analysis.RiskScore) {
		return fmt.Errorf("%w: %w: score %d, level %q",
			ErrInvalidAnalysis, ErrRiskBandMismatch, analysis.RiskScore, analysis.OverallRisk)
	}

	seen := make(map[string]struct{}, len(analysis.Clauses))
	for i := range analysis.Clauses {
		clause := &analysis.Clauses[i]
		if err := ValidateClause(clause); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
		}
		if _, ok := seen[clause.Id]; ok {
			return fmt.Errorf("%w: %w: %q", ErrInvalidAnalysis, ErrDuplicateClauseID, clause.Id)
		}
		seen[clause.Id] = struct{}{}
	}

	return nil
}

// ValidateClause validates a Clause according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - RiskLevel must be one of the fixed bands
//
// NOT validated:
//   - Conversation (append-only history, any length is valid)
//   - RiskyKeywords and Reason (may be empty for informational clauses)
func ValidateClause(clause *Clause) error {
	if clause == nil {
		return fmt.Errorf("%w: clause is nil", ErrInvalidClause)
	}

	if clause.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidClause, ErrEmptyClauseText)
	}

	if err := ValidateRiskLevel(clause.RiskLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidClause, err)
	}

	return nil
}

// ValidateRiskLevel validates that a RiskLevel has a valid value.
func ValidateRiskLevel(level RiskLevel) error {
	switch level {
	case RiskLow, RiskMedium, RiskHigh:
		return nil
	}
	return fmt.Errorf("invalid risk level %q", level)
}
