package ai

import (
	"context"

	"github.com/veridian/clauselens/core"
)

// DocumentAnalyzer turns raw document bytes into a structured analysis.
// Implementations must be thread-safe for concurrent use.
type DocumentAnalyzer interface {
	// Analyze submits document bytes with their media type to the analysis
	// service and returns the structured analysis. The returned analysis
	// always satisfies the schema: for documents with no legal obligations
	// the service reports risk low, score 0 and an empty (or single
	// informational) clause list.
	// Returns an error if the service call or response parsing fails.
	Analyze(ctx context.Context, req AnalyzeRequest) (*core.Analysis, error)
}

// Assistant answers questions about analyzed documents.
// Implementations must be thread-safe for concurrent use.
type Assistant interface {
	// Ask answers a single question about one clause's text.
	Ask(ctx context.Context, clauseText, question string) (string, error)

	// Chat continues a conversation. History is ordered oldest-first.
	// When contextText is non-empty the assistant is constrained to cite
	// sections and clauses from it; when empty it gives general guidance only.
	Chat(ctx context.Context, history []ChatMessage, message, contextText string) (string, error)

	// Compare evaluates two or more analyzed documents against each other.
	// The result references documents strictly by their provided names,
	// never by ordinal placeholders.
	Compare(ctx context.Context, docs []ComparisonInput) (*ComparisonResult, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages a single long-lived client per
// service so connections are reused across calls.
type Provider interface {
	// Analyzer returns the document analysis service.
	// The returned DocumentAnalyzer is safe for concurrent use.
	Analyzer() DocumentAnalyzer

	// Assistant returns the question answering service.
	// The returned Assistant is safe for concurrent use.
	Assistant() Assistant

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
