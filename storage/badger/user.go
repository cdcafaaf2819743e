package badger

import (
	"context"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/veridian/clauselens/core"
	"github.com/veridian/clauselens/storage"
)

// UserRepository implements storage.UserRepository for BadgerDB.
type UserRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository.
func NewUserRepository(backend *Backend) (*UserRepository, error) {
	return &UserRepository{
		backend: backend,
		logger:  slog.Default().With("component", "user-repository"),
	}, nil
}

// Close releases resources. UserRepository has no resources to release.
func (r *UserRepository) Close() error {
	return nil
}

// PutUser upserts a user record by Id.
func (r *UserRepository) PutUser(ctx context.Context, user *core.User) error {
	data, err := storage.MarshalUser(user)
	if err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := r.backend.setValue(tx, makeUserKey(user.Id), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetUser retrieves a single user by Id.
// A missing or unparsable record reports storage.ErrNotFound.
func (r *UserRepository) GetUser(ctx context.Context, id string) (*core.User, error) {
	var result *core.User
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		data, err := r.backend.getValue(tx, makeUserKey(id))
		if err != nil {
			return err
		}
		if data == nil {
			return storage.ErrNotFound
		}
		result, err = storage.UnmarshalUser(data)
		if err != nil {
			r.logger.Warn("unparsable user record", "id", id, "err", err)
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetCurrentUser stores the current-session user pointer.
func (r *UserRepository) SetCurrentUser(ctx context.Context, id string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := r.backend.setValue(tx, []byte(currentUserKey), []byte(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// CurrentUser returns the current-session user Id, or "" when unset.
func (r *UserRepository) CurrentUser(ctx context.Context) (string, error) {
	var id string
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		data, err := r.backend.getValue(tx, []byte(currentUserKey))
		if err != nil {
			return err
		}
		id = string(data)
		return nil
	}, false)
	if err != nil {
		return "", err
	}
	return id, nil
}
