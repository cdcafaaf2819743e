package storage

import (
	"context"

	"github.com/veridian/clauselens/core"
)

// RecentLimit is the maximum number of entries the recent-analysis cache
// holds. Older entries are silently evicted past this bound.
const RecentLimit = 10

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close closes the repository and releases resources.
	Close() error
}

// DocumentRepository provides operations for managing analyzed documents.
type DocumentRepository interface {
	Repository

	// PutDocument upserts a document by Id.
	// If the write fails due to capacity exhaustion, it retries exactly once
	// with the byte-content field cleared, preserving all other fields; if the
	// light retry also fails, the failure propagates.
	// On success the returned document is always the original, full-fidelity
	// value, even when storage persisted the light variant.
	PutDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// GetDocument retrieves a single document by Id.
	// Returns ErrNotFound if the document doesn't exist or its stored record
	// cannot be parsed. Never panics on a missing key.
	GetDocument(ctx context.Context, id string) (*core.Document, error)

	// GetDocumentsByUser retrieves all documents owned by userID, ordered by
	// upload timestamp descending (most recent first).
	// Corrupted records are skipped; an unparsable store yields an empty
	// result, never an error on the read path.
	GetDocumentsByUser(ctx context.Context, userID string) ([]*core.Document, error)

	// AppendClauseQA appends one question/answer exchange to a clause's
	// conversation history and persists the updated document.
	// Returns ErrNotFound if the document or clause doesn't exist.
	AppendClauseQA(ctx context.Context, docID, clauseID string, qa core.ClauseQA) (*core.Document, error)
}

// RecentRepository provides operations for the bounded recent-analysis cache.
type RecentRepository interface {
	Repository

	// UpsertRecent inserts an entry at the front of the cache.
	// An existing entry with the same Id is removed first (no duplicate ids),
	// then the cache is truncated to the RecentLimit most-recent entries.
	UpsertRecent(ctx context.Context, entry *core.RecentAnalysis) error

	// ListRecent returns the cache contents, most-recent first.
	// An unparsable cache yields an empty result, never an error.
	ListRecent(ctx context.Context) ([]*core.RecentAnalysis, error)

	// ClearRecent empties the cache unconditionally.
	ClearRecent(ctx context.Context) error
}

// UserRepository provides operations for user records and the session pointer.
type UserRepository interface {
	Repository

	// PutUser upserts a user record by Id.
	PutUser(ctx context.Context, user *core.User) error

	// GetUser retrieves a single user by Id.
	// Returns ErrNotFound if the user doesn't exist.
	GetUser(ctx context.Context, id string) (*core.User, error)

	// SetCurrentUser stores the current-session user pointer.
	SetCurrentUser(ctx context.Context, id string) error

	// CurrentUser returns the current-session user Id, or "" when unset
	// or unreadable.
	CurrentUser(ctx context.Context) (string, error)
}
