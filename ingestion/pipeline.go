package ingestion

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/veridian/clauselens/ai"
	"github.com/veridian/clauselens/core"
	"github.com/veridian/clauselens/storage"
)

const eventBuffer = 16

// BatchEvent is emitted after a batch settles. Items is a snapshot of
// every item in the pipeline; Navigate is non-nil only when the settled
// batch held exactly one item and it succeeded.
type BatchEvent struct {
	Items    []*UploadItem
	Navigate *core.Document
}

// BatchResult reports the outcome of one AnalyzeAll invocation.
type BatchResult struct {
	Items    []*UploadItem
	Navigate *core.Document
}

// Pipeline orchestrates batch upload and analysis of documents.
// Accepted files wait as pending items until AnalyzeAll dispatches
// them concurrently to the analysis service.
type Pipeline struct {
	documents storage.DocumentRepository
	recents   storage.RecentRepository
	analyzer  ai.DocumentAnalyzer
	pool      *ants.Pool
	userID    string
	logger    *slog.Logger

	mu     sync.Mutex
	items  []*UploadItem
	events chan BatchEvent
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent dispatches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new upload pipeline for the given user.
func NewPipeline(
	userID string,
	documents storage.DocumentRepository,
	recents storage.RecentRepository,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if recents == nil {
		return nil, ErrRecentRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documents: documents,
		recents:   recents,
		analyzer:  provider.Analyzer(),
		pool:      pool,
		userID:    userID,
		logger:    slog.Default(),
		events:    make(chan BatchEvent, eventBuffer),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Events returns the channel on which settled-batch events are
// published. Events are dropped, not blocked on, when no receiver
// keeps up.
func (p *Pipeline) Events() <-chan BatchEvent {
	return p.events
}

// Submit validates candidate files against the media-type allow-list.
// Accepted files join the batch as pending items; rejected files are
// reported individually and never block their siblings.
func (p *Pipeline) Submit(files ...FileInput) ([]*UploadItem, []Rejection) {
	var accepted []*UploadItem
	var rejected []Rejection

	for _, file := range files {
		if !core.IsAllowedMediaType(file.MediaType) {
			rejected = append(rejected, Rejection{
				Name: file.Name,
				Err:  fmt.Errorf("%w: %s", core.ErrUnsupportedMediaType, file.MediaType),
			})
			p.logger.Warn("rejected file", "name", file.Name, "mediaType", file.MediaType)
			continue
		}
		accepted = append(accepted, newUploadItem(file))
	}

	p.mu.Lock()
	p.items = append(p.items, accepted...)
	snapshots := make([]*UploadItem, len(accepted))
	for i, item := range accepted {
		snapshots[i] = item.snapshot()
	}
	p.mu.Unlock()

	return snapshots, rejected
}

// Remove removes a pending item from the batch. Items that are already
// processing or terminal cannot be removed.
func (p *Pipeline) Remove(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, item := range p.items {
		if item.Id != id {
			continue
		}
		if item.Status != StatusPending {
			return fmt.Errorf("%w: %s is %s", ErrItemNotPending, id, item.Status)
		}
		p.items = append(p.items[:i], p.items[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// Items returns a snapshot of every item currently in the pipeline.
func (p *Pipeline) Items() []*UploadItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Pipeline) snapshotLocked() []*UploadItem {
	snapshots := make([]*UploadItem, len(p.items))
	for i, item := range p.items {
		snapshots[i] = item.snapshot()
	}
	return snapshots
}

// AnalyzeAll transitions every pending item to processing in one
// atomic step, dispatches each concurrently, and waits until all of
// them settle. Item failures are isolated; one stalled or failed
// dispatch never aborts its siblings. Invoking AnalyzeAll with no
// pending items is a no-op.
func (p *Pipeline) AnalyzeAll(ctx context.Context) (*BatchResult, error) {
	p.mu.Lock()
	var batch []*UploadItem
	for _, item := range p.items {
		if item.Status == StatusPending {
			item.Status = StatusProcessing
			batch = append(batch, item)
		}
	}
	p.mu.Unlock()

	if len(batch) == 0 {
		return &BatchResult{Items: p.Items()}, nil
	}

	type outcome struct {
		doc *core.Document
		err error
	}

	// One slot per dispatch; each worker writes only its own index.
	results := make([]outcome, len(batch))
	var wg sync.WaitGroup

	for i, item := range batch {
		idx, it := i, item
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			doc, err := p.dispatch(ctx, it)
			results[idx] = outcome{doc: doc, err: err}
		})
		if submitErr != nil {
			results[idx] = outcome{err: submitErr}
			wg.Done()
		}
	}

	wg.Wait()

	// Merge all settled results back in a single step so no reader
	// observes a partially settled batch.
	p.mu.Lock()
	for i, item := range batch {
		if results[i].err != nil {
			item.Status = StatusError
			item.Err = results[i].err
			p.logger.Error("item failed", "name", item.Name, "err", results[i].err)
			continue
		}
		item.Status = StatusSuccess
		item.Document = results[i].doc
	}

	var navigate *core.Document
	if len(batch) == 1 && batch[0].Status == StatusSuccess {
		navigate = batch[0].Document
	}
	snapshots := p.snapshotLocked()
	p.mu.Unlock()

	p.emit(BatchEvent{Items: snapshots, Navigate: navigate})

	return &BatchResult{Items: snapshots, Navigate: navigate}, nil
}

// dispatch runs one item through conversion, analysis and persistence.
func (p *Pipeline) dispatch(ctx context.Context, item *UploadItem) (*core.Document, error) {
	if len(item.Content) == 0 {
		return nil, fmt.Errorf("%w: file %s is empty", ErrConversionFailed, item.Name)
	}
	encoded := base64.StdEncoding.EncodeToString(item.Content)

	analysis, err := p.analyzer.Analyze(ctx, ai.AnalyzeRequest{
		Data:      encoded,
		MediaType: item.MediaType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	doc := &core.Document{
		Id:         core.NewDocumentID(),
		UserId:     p.userID,
		Name:       item.Name,
		MediaType:  item.MediaType,
		UploadedAt: time.Now().UTC(),
		Content:    item.Content,
		Analysis:   *analysis,
	}

	stored, err := p.documents.PutDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailed, err)
	}

	entry := core.RecentAnalysisFromDocument(stored, "upload")
	if err := p.recents.UpsertRecent(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailed, err)
	}

	return stored, nil
}

func (p *Pipeline) emit(event BatchEvent) {
	select {
	case p.events <- event:
	default:
		p.logger.Warn("event dropped, no receiver", "items", len(event.Items))
	}
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
