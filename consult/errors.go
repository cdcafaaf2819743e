package consult

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrClauseNotFound is returned when a document has no clause with the given id.
	ErrClauseNotFound = errors.New("clause not found")

	// ErrEmptyQuestion is returned when a question or message is blank.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrTooFewDocuments is returned when a comparison names fewer than two documents.
	ErrTooFewDocuments = errors.New("comparison requires at least two documents")
)
