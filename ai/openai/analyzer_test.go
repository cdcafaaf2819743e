package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian/clauselens/core"
)

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`  {"a":1}  `))
}

func TestRepairJSON(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{`{risk_level": "high"}`, `{"risk_level": "high"}`},
		{`{"a": 1, reason": "x"}`, `{"a": 1, "reason": "x"}`},
		{`{"already": "quoted"}`, `{"already": "quoted"}`},
		{`{"nested": {text": "abc"}}`, `{"nested": {"text": "abc"}}`},
		{`not json at all`, `not json at all`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, repairJSON(tc.input), tc.input)
	}
}

func TestToAnalysis_Normalization(t *testing.T) {
	a := &Analyzer{}

	resp := &analysisResponse{
		Summary:     "Risky agreement.",
		OverallRisk: "Medium", // band comes from the score, not this field
		RiskScore:   250,
		FullText:    "full text",
		Clauses: []clauseResponse{
			{Id: "c1", Text: "First clause.", RiskLevel: " HIGH "},
			{Id: "c1", Text: "Colliding id.", RiskLevel: "banana"},
			{Id: "", Text: "No id given.", RiskLevel: "low"},
			{Id: "c9", Text: "", RiskLevel: "high"}, // dropped, no text
		},
	}

	analysis := a.toAnalysis(resp)
	require.NoError(t, core.ValidateAnalysis(analysis))

	assert.Equal(t, 100, analysis.RiskScore)
	assert.Equal(t, core.RiskHigh, analysis.OverallRisk)
	require.Len(t, analysis.Clauses, 3)

	assert.Equal(t, "c1", analysis.Clauses[0].Id)
	assert.Equal(t, core.RiskHigh, analysis.Clauses[0].RiskLevel)

	// Duplicate id gets a suffix, unknown risk level falls back to low
	assert.Equal(t, "c1-2", analysis.Clauses[1].Id)
	assert.Equal(t, core.RiskLow, analysis.Clauses[1].RiskLevel)

	// Missing id is derived from the clause text
	assert.Equal(t, core.ClauseIDFromText("No id given."), analysis.Clauses[2].Id)
}

func TestToAnalysis_NonContractualDocument(t *testing.T) {
	a := &Analyzer{}

	resp := &analysisResponse{
		Summary:   "This document contains no legal obligations.",
		RiskScore: -5,
		FullText:  "a shopping list",
	}

	analysis := a.toAnalysis(resp)
	require.NoError(t, core.ValidateAnalysis(analysis))
	assert.Equal(t, 0, analysis.RiskScore)
	assert.Equal(t, core.RiskLow, analysis.OverallRisk)
	assert.Empty(t, analysis.Clauses)
}
