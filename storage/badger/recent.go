package badger

import (
	"context"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/veridian/clauselens/core"
	"github.com/veridian/clauselens/storage"
)

// RecentRepository implements storage.RecentRepository for BadgerDB.
// The whole cache lives under one fixed key as a single JSON blob, so an
// upsert is a read-modify-write of at most storage.RecentLimit entries.
type RecentRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.RecentRepository = (*RecentRepository)(nil)

// NewRecentRepository creates a new RecentRepository.
func NewRecentRepository(backend *Backend) (*RecentRepository, error) {
	return &RecentRepository{
		backend: backend,
		logger:  slog.Default().With("component", "recent-repository"),
	}, nil
}

// Close releases resources. RecentRepository has no resources to release.
func (r *RecentRepository) Close() error {
	return nil
}

// UpsertRecent inserts the entry at the front of the cache, removing any
// existing entry with the same Id first, then truncates to the
// storage.RecentLimit most-recent entries. A capacity failure here propagates
// as a plain write failure; cache entries have no light variant.
// The whole cache lives under one key, so concurrent upserts collide on
// commit; the transaction restarts until the entry lands.
func (r *RecentRepository) UpsertRecent(ctx context.Context, entry *core.RecentAnalysis) error {
	return r.backend.WithConflictRetry(func(tx *badger.Txn) error {
		entries := r.readRecentList(tx)

		updated := make([]*core.RecentAnalysis, 0, len(entries)+1)
		updated = append(updated, entry)
		for _, existing := range entries {
			if existing.Id == entry.Id {
				continue
			}
			updated = append(updated, existing)
		}
		if len(updated) > storage.RecentLimit {
			updated = updated[:storage.RecentLimit]
		}

		data, err := storage.MarshalRecentList(updated)
		if err != nil {
			return err
		}
		if err := r.backend.setValue(tx, []byte(recentListKey), data); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// ListRecent returns the cache contents, most-recent first.
func (r *RecentRepository) ListRecent(ctx context.Context) ([]*core.RecentAnalysis, error) {
	entries := []*core.RecentAnalysis{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		entries = r.readRecentList(tx)
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ClearRecent empties the cache unconditionally.
func (r *RecentRepository) ClearRecent(ctx context.Context) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete([]byte(recentListKey)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readRecentList reads the cache blob. A missing or unparsable blob degrades
// to an empty list; corruption is logged, never propagated.
func (r *RecentRepository) readRecentList(tx *badger.Txn) []*core.RecentAnalysis {
	data, err := r.backend.getValue(tx, []byte(recentListKey))
	if err != nil || data == nil {
		if err != nil {
			r.logger.Warn("failed to read recent-analysis cache", "err", err)
		}
		return []*core.RecentAnalysis{}
	}

	entries, err := storage.UnmarshalRecentList(data)
	if err != nil {
		r.logger.Warn("discarding unparsable recent-analysis cache", "err", err)
		return []*core.RecentAnalysis{}
	}
	return entries
}
