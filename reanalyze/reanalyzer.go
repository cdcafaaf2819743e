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


package reanalyze

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"github.com/veridian/clauselens/ai"
	"github.com/veridian/clauselens/core"
	"github.com/veridian/clauselens/storage"
)

// Config holds configuration for the reanalysis operation.
type Config struct {
	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed analyses
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Result summarizes a reanalysis run.
type Result struct {
	// Total is the number of documents found for the user.
	Total int

	// Reanalyzed is the number of documents successfully reprocessed.
	Reanalyzed int

	// Skipped is the number of documents without stored content.
	// Documents persisted as light copies cannot be reanalyzed.
	Skipped int

	// Failed is the number of documents whose reanalysis failed
	// after all retry attempts.
	Failed int
}

// Reanalyzer re-runs analysis over a user's stored documents, for
// example after switching to a better model. Each refreshed document
// is written back and surfaced in the recent-analysis cache.
type Reanalyzer struct {
	documents storage.DocumentRepository
	recents   storage.RecentRepository
	analyzer  ai.DocumentAnalyzer
	userID    string
	config    *Config
	progress  io.Writer
}

// NewReanalyzer creates a new reanalyzer for the given user.
// progress: where to write progress output (typically os.Stderr)
func NewReanalyzer(
	userID string,
	documents storage.DocumentRepository,
	recents storage.RecentRepository,
	provider ai.Provider,
	config *Config,
	progress io.Writer,
) (*Reanalyzer, error) {
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
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reanalyzer{
		documents: documents,
		recents:   recents,
		analyzer:  provider.Analyzer(),
		userID:    userID,
		config:    config,
		progress:  progress,
	}, nil
}

// Run executes the reanalysis operation over every document owned by
// the configured user. Documents stored without content are skipped;
// per-document failures are counted but do not abort the run.
func (r *Reanalyzer) Run(ctx context.Context) (*Result, error) {
	docs, err := r.documents.GetDocumentsByUser(ctx, r.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	result := &Result{Total: len(docs)}
	if len(docs) == 0 {
		fmt.Fprintf(r.progress, "No documents found for user %s\n", r.userID)
		return result, nil
	}

	fmt.Fprintf(r.progress, "Starting reanalysis of %d documents\n", len(docs))

	tracker := NewProgressTracker(r.progress, len(docs), r.config.ReportInterval)
	tracker.Start()

	for i, doc := range docs {
		if len(doc.Content) == 0 {
			result.Skipped++
			tracker.Update(i + 1)
			continue
		}

		if err := r.reanalyzeOne(ctx, doc); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			fmt.Fprintf(r.progress, "\nfailed to reanalyze %s: %v\n", doc.Name, err)
			result.Failed++
		} else {
			result.Reanalyzed++
		}
		tracker.Update(i + 1)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reanalysis complete. Refreshed %d of %d documents in %v (%d skipped, %d failed)\n",
		result.Reanalyzed, result.Total, elapsed.Round(time.Second), result.Skipped, result.Failed)

	return result, nil
}

func (r *Reanalyzer) reanalyzeOne(ctx context.Context, doc *core.Document) error {
	encoded := base64.StdEncoding.EncodeToString(doc.Content)

	var analysis *core.Analysis
	err := RetryWithBackoff(ctx, func() error {
		var analyzeErr error
		analysis, analyzeErr = r.analyzer.Analyze(ctx, ai.AnalyzeRequest{
			Data:      encoded,
			MediaType: doc.MediaType,
		})
		return analyzeErr
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return err
	}

	carryConversations(doc.Analysis.Clauses, analysis.Clauses)
	doc.Analysis = *analysis
	stored, err := r.documents.PutDocument(ctx, doc)
	if err != nil {
		return err
	}

	return r.recents.UpsertRecent(ctx, core.RecentAnalysisFromDocument(stored, "reanalysis"))
}

// carryConversations moves clause conversation histories onto freshly
// analyzed clauses with the same id. Clause ids derive from clause text, so
// a clause whose wording survives the re-run keeps its history; histories of
// clauses the fresh analysis no longer contains are dropped with them.
func carryConversations(old, fresh []core.Clause) {
	if len(old) == 0 || len(fresh) == 0 {
		return
	}
	histories := make(map[string][]core.ClauseQA, len(old))
	for _, clause := range old {
		if len(clause.Conversation) > 0 {
			histories[clause.Id] = clause.Conversation
		}
	}
	for i := range fresh {
		if history, ok := histories[fresh[i].Id]; ok {
			fresh[i].Conversation = history
		}
	}
}
