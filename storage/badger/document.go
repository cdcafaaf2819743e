package badger

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/veridian/clauselens/core"
	"github.com/veridian/clauselens/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	return &DocumentRepository{
		backend: backend,
		logger:  slog.Default().With("component", "document-repository"),
	}, nil
}

// Close releases resources. DocumentRepository has no resources to release.
func (r *DocumentRepository) Close() error {
	return nil
}

// PutDocument upserts a document by Id. A write that exceeds capacity is
// retried exactly once with the byte content cleared; a second failure
// propagates. The returned document is always the caller's full-fidelity
// original.
func (r *DocumentRepository) PutDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	write := func(d *core.Document) error {
		return r.backend.WithConflictRetry(func(tx *badger.Txn) error {
			if err := r.writeDocument(tx, d); err != nil {
				return err
			}
			return tx.Commit()
		})
	}

	if err := storage.WriteWithDegrade(write, r.shrink, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// writeDocument stages a document record and its owner/date index entry on
// the transaction. The caller commits.
func (r *DocumentRepository) writeDocument(tx *badger.Txn, d *core.Document) error {
	data, err := storage.MarshalDocument(d)
	if err != nil {
		return err
	}

	// Drop the stale index entry when timestamp or owner changed
	old, err := r.readDocument(tx, makeDocumentKey(d.Id))
	if err != nil {
		return err
	}
	if old != nil && (old.UserId != d.UserId || !old.UploadedAt.Equal(d.UploadedAt)) {
		oldKey := makeDocumentUserDateKey(old.UserId, old.UploadedAt, old.Id)
		if err := tx.Delete(oldKey); err != nil {
			return err
		}
	}

	if err := r.backend.setValue(tx, makeDocumentKey(d.Id), data); err != nil {
		return err
	}

	indexKey := makeDocumentUserDateKey(d.UserId, d.UploadedAt, d.Id)
	return r.backend.setValue(tx, indexKey, []byte(d.Id))
}

func (r *DocumentRepository) shrink(d *core.Document) (*core.Document, bool) {
	if len(d.Content) == 0 {
		return d, false
	}
	r.logger.Warn("document write exceeded capacity, retrying without byte content",
		"id", d.Id, "size", len(d.Content))
	return d.WithoutContent(), true
}

// GetDocument retrieves a single document by Id.
// A missing or unparsable record reports storage.ErrNotFound.
func (r *DocumentRepository) GetDocument(ctx context.Context, id string) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readDocument(tx, makeDocumentKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetDocumentsByUser retrieves all documents owned by userID, most recent
// first. Corrupted records are skipped rather than surfaced, so a damaged
// store degrades to an empty result for a caller that merely wants to read.
func (r *DocumentRepository) GetDocumentsByUser(ctx context.Context, userID string) ([]*core.Document, error) {
	results := []*core.Document{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use a reverse iterator over the owner/date index to get the most
		// recent documents first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialDocumentUserKey(userID)

		// Seek past the last possible key under this owner's prefix
		startKey := append(append([]byte{}, prefix...), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var docID string
			if err := iter.Item().Value(func(val []byte) error {
				docID = string(val)
				return nil
			}); err != nil {
				return err
			}

			doc, err := r.readDocument(tx, makeDocumentKey(docID))
			if err != nil {
				return err
			}
			if doc != nil {
				results = append(results, doc)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return results, nil
}

// AppendClauseQA appends one question/answer exchange to a clause's
// conversation history and persists the updated document through the
// degrade-aware write path. Read, mutate, and write share one transaction,
// so concurrent appends restart instead of losing an exchange.
func (r *DocumentRepository) AppendClauseQA(ctx context.Context, docID, clauseID string, qa core.ClauseQA) (*core.Document, error) {
	var updated *core.Document
	err := r.backend.WithConflictRetry(func(tx *badger.Txn) error {
		doc, err := r.readDocument(tx, makeDocumentKey(docID))
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		found := false
		for i := range doc.Analysis.Clauses {
			if doc.Analysis.Clauses[i].Id == clauseID {
				doc.Analysis.Clauses[i].Conversation = append(doc.Analysis.Clauses[i].Conversation, qa)
				found = true
				break
			}
		}
		if !found {
			return storage.ErrNotFound
		}

		write := func(d *core.Document) error {
			return r.writeDocument(tx, d)
		}
		if err := storage.WriteWithDegrade(write, r.shrink, doc); err != nil {
			return err
		}
		updated = doc
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// readDocument reads a document from the transaction.
// Returns (nil, nil) for missing keys and for records that fail to parse;
// corruption is logged and treated as absence on the read path.
func (r *DocumentRepository) readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	data, err := r.backend.getValue(tx, key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	doc, err := storage.UnmarshalDocument(data)
	if err != nil {
		r.logger.Warn("skipping unparsable document record", "key", string(key), "err", err)
		return nil, nil
	}
	return doc, nil
}
