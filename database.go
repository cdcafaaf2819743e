// Copyright 2025 Veridian Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package clauselens

import (
	"io"
	"log/slog"

	"github.com/veridian/clauselens/ai"
	"github.com/veridian/clauselens/ai/openai"
	"github.com/veridian/clauselens/consult"
	"github.com/veridian/clauselens/ingestion"
	"github.com/veridian/clauselens/reanalyze"
	"github.com/veridian/clauselens/storage"
	"github.com/veridian/clauselens/storage/badger"
)

// Database bundles the document store and AI services behind one
// handle. The AI provider is created once and shared by every
// pipeline, consultant and reanalyzer built from the database, so a
// single long-lived client serves all calls.
type Database struct {
	backend    *badger.Backend
	docRepo    storage.DocumentRepository
	recentRepo storage.RecentRepository
	userRepo   storage.UserRepository
	provider   ai.Provider
	logger     *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig      *ai.Config
	provider      ai.Provider
	maxValueBytes int64
}

// WithAIConfig sets the AI service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects a pre-built AI provider instead of constructing
// one from the AI configuration. The database takes ownership and
// closes it on Close.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithStorageQuota caps the size of a single stored value. Writes over
// the cap fail with storage.ErrQuotaExceeded and document writes fall
// back to a light copy without the raw content.
func WithStorageQuota(maxValueBytes int64) DatabaseOption {
	return func(o *databaseOptions) {
		o.maxValueBytes = maxValueBytes
	}
}

// NewDatabase opens the document store at filePath and initializes the
// AI provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	var backendOpts []badger.BackendOption
	if options.maxValueBytes > 0 {
		backendOpts = append(backendOpts, badger.WithMaxValueBytes(options.maxValueBytes))
	}

	backend, err := badger.OpenBackend(filePath, false, backendOpts...)
	if err != nil {
		return nil, err
	}

	docRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	recentRepo, err := badger.NewRecentRepository(backend)
	if err != nil {
		docRepo.Close()
		backend.Close()
		return nil, err
	}

	userRepo, err := badger.NewUserRepository(backend)
	if err != nil {
		recentRepo.Close()
		docRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			userRepo.Close()
			recentRepo.Close()
			docRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:    backend,
		docRepo:    docRepo,
		recentRepo: recentRepo,
		userRepo:   userRepo,
		provider:   provider,
		logger:     slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.userRepo.Close(); err != nil {
		db.logger.Error("error closing user repository", "err", err)
		return err
	}
	if err := db.recentRepo.Close(); err != nil {
		db.logger.Error("error closing recent repository", "err", err)
		return err
	}
	if err := db.docRepo.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.docRepo
}

func (db *Database) RecentRepository() storage.RecentRepository {
	return db.recentRepo
}

func (db *Database) UserRepository() storage.UserRepository {
	return db.userRepo
}

// NewIngestionPipeline creates an upload pipeline bound to the given user.
func (db *Database) NewIngestionPipeline(userID string, opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(userID, db.docRepo, db.recentRepo, db.provider, opts...)
}

// NewConsultant creates a consultant over the stored documents.
func (db *Database) NewConsultant(opts ...consult.Option) (*consult.Consultant, error) {
	return consult.NewConsultant(db.docRepo, db.provider, opts...)
}

// NewReanalyzer creates a reanalyzer for the given user's documents.
// Progress is written to the supplied writer.
func (db *Database) NewReanalyzer(userID string, config *reanalyze.Config, progress io.Writer) (*reanalyze.Reanalyzer, error) {
	return reanalyze.NewReanalyzer(userID, db.docRepo, db.recentRepo, db.provider, config, progress)
}
