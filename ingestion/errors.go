package ingestion

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrRecentRepositoryRequired is returned when a recent-analysis repository is not provided.
	ErrRecentRepositoryRequired = errors.New("recent-analysis repository required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrUserRequired is returned when a user id is not provided.
	ErrUserRequired = errors.New("user id required")

	// ErrItemNotFound is returned when no batch item matches the given id.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemNotPending is returned when an operation requires a pending item.
	ErrItemNotPending = errors.New("item is not pending")

	// ErrConversionFailed marks a failure to prepare file bytes for transport.
	ErrConversionFailed = errors.New("conversion failed")

	// ErrAnalysisFailed marks a failure reported by the analysis service.
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrStorageFailed marks a failure to persist an analysis result.
	ErrStorageFailed = errors.New("storage failed")
)
