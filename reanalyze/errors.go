package reanalyze

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrRecentRepositoryRequired is returned when a recent-analysis repository is not provided.
	ErrRecentRepositoryRequired = errors.New("recent-analysis repository required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrUserRequired is returned when a user id is not provided.
	ErrUserRequired = errors.New("user id required")
)
