package badger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/veridian/clauselens/storage"
)

// Backend wraps a BadgerDB instance and provides low-level operations.
// A backend may carry a per-value byte ceiling; writes above it fail with
// storage.ErrQuotaExceeded so callers can apply their degrade policy.
type Backend struct {
	db            *badger.DB
	maxValueBytes int64
	logger        *slog.Logger
}

// BackendOption configures a Backend.
type BackendOption func(*Backend)

// WithMaxValueBytes sets the capacity ceiling for a single stored value.
// Zero means unbounded.
func WithMaxValueBytes(limit int64) BackendOption {
	return func(b *Backend) {
		if limit < 0 {
			limit = 0
		}
		b.maxValueBytes = limit
	}
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist.
func OpenBackend(filePath string, inMemory bool, backendOpts ...BackendOption) (*Backend, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	backend := &Backend{
		db:     db,
		logger: slog.Default(),
	}
	for _, opt := range backendOpts {
		opt(backend)
	}

	return backend, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// maxTxnRestarts bounds how often a conflicting transaction is restarted.
const maxTxnRestarts = 16

// WithConflictRetry runs fn in a read-write transaction, restarting it from
// a fresh snapshot when optimistic concurrency control rejects the commit.
// fn must be safe to re-run and must commit the transaction itself.
func (b *Backend) WithConflictRetry(fn func(tx *badger.Txn) error) error {
	var err error
	for i := 0; i < maxTxnRestarts; i++ {
		err = b.WithTx(fn, true)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		b.logger.Debug("restarting conflicting transaction", "attempt", i+1)
	}
	return err
}

// setValue writes a key/value pair, enforcing the capacity ceiling.
// Oversized values and transaction-size overflows both surface as
// storage.ErrQuotaExceeded.
func (b *Backend) setValue(tx *badger.Txn, key, value []byte) error {
	if b.maxValueBytes > 0 && int64(len(value)) > b.maxValueBytes {
		return fmt.Errorf("%w: value is %d bytes, limit is %d",
			storage.ErrQuotaExceeded, len(value), b.maxValueBytes)
	}
	if err := tx.Set(key, value); err != nil {
		if errors.Is(err, badger.ErrTxnTooBig) {
			return fmt.Errorf("%w: %w", storage.ErrQuotaExceeded, err)
		}
		return err
	}
	return nil
}

// getValue reads a value by key. Returns (nil, nil) on a missing key.
func (b *Backend) getValue(tx *badger.Txn, key []byte) ([]byte, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}
