package ai

import "github.com/veridian/clauselens/core"

// AnalyzeRequest carries one document to the analysis service.
type AnalyzeRequest struct {
	// Data is the transport-encoded document content (base64).
	Data string

	// MediaType is the declared media type of the original bytes.
	MediaType string
}

// ChatRole tags the author of a chat message.
type ChatRole string

const (
	// RoleUser marks a message written by the human user.
	RoleUser ChatRole = "user"
	// RoleAssistant marks a message written by the assistant.
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry in an ordered conversation history.
type ChatMessage struct {
	Role    ChatRole
	Content string
}

// ComparisonInput identifies one document being compared.
type ComparisonInput struct {
	Id       string
	Name     string
	Analysis core.Analysis
}

// ComparisonResult is the outcome of comparing documents.
type ComparisonResult struct {
	// RecommendedId is the Id of the document the service recommends.
	RecommendedId string

	// Reasoning explains the recommendation in plain language.
	Reasoning string

	// KeyDifferences lists the material differences between the documents.
	KeyDifferences []string
}
