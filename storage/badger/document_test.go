package badger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian/clauselens/core"
	"github.com/veridian/clauselens/storage"
)

func setupDocumentRepo(t *testing.T, opts ...BackendOption) (storage.DocumentRepository, *Backend) {
	t.Helper()
	docRepo, recentRepo, userRepo, backend, err := NewMemoryRepositories(opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		userRepo.Close()
		recentRepo.Close()
		docRepo.Close()
		backend.Close()
	})
	return docRepo, backend
}

func testDocument(id, userID string, uploadedAt time.Time) *core.Document {
	return &core.Document{
		Id:         id,
		UserId:     userID,
		Name:       id + ".pdf",
		MediaType:  core.MediaTypePDF,
		UploadedAt: uploadedAt,
		Content:    []byte("raw pdf bytes for " + id),
		Analysis: core.Analysis{
			Summary:     "Summary of " + id,
			OverallRisk: core.RiskMedium,
			RiskScore:   50,
			FullText:    "Full text of " + id,
			Clauses: []core.Clause{
				{Id: "c1", Text: "Clause one.", RiskLevel: core.RiskLow},
				{Id: "c2", Text: "Clause two.", RiskLevel: core.RiskHigh},
			},
		},
	}
}

func TestDocumentRepository_PutAndGet(t *testing.T) {
	repo, _ := setupDocumentRepo(t)
	ctx := context.Background()

	doc := testDocument("doc-1", "user-1", time.Now().UTC())
	stored, err := repo.PutDocument(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, doc, stored)

	got, err := repo.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.Id, got.Id)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, doc.Analysis.Summary, got.Analysis.Summary)
	require.Len(t, got.Analysis.Clauses, 2)
}

func TestDocumentRepository_GetMissing(t *testing.T) {
	repo, _ := setupDocumentRepo(t)

	_, err := repo.GetDocument(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocumentRepository_Upsert(t *testing.T) {
	repo, _ := setupDocumentRepo(t)
	ctx := context.Background()

	doc := testDocument("doc-1", "user-1", time.Now().UTC())
	_, err := repo.PutDocument(ctx, doc)
	require.NoError(t, err)

	doc.Analysis.Summary = "Revised summary"
	_, err = repo.PutDocument(ctx, doc)
	require.NoError(t, err)

	got, err := repo.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Revised summary", got.Analysis.Summary)

	// Upsert must not duplicate the owner index entry
	docs, err := repo.GetDocumentsByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentRepository_GetByUser_OrderedNewestFirst(t *testing.T) {
	repo, _ := setupDocumentRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, id := range []string{"doc-a", "doc-b", "doc-c"} {
		doc := testDocument(id, "user-1", base.Add(time.Duration(i)*time.Minute))
		_, err := repo.PutDocument(ctx, doc)
		require.NoError(t, err)
	}
	// Another user's document must not leak into the result
	other := testDocument("doc-x", "user-2", base.Add(time.Hour))
	_, err := repo.PutDocument(ctx, other)
	require.NoError(t, err)

	docs, err := repo.GetDocumentsByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "doc-c", docs[0].Id)
	assert.Equal(t, "doc-b", docs[1].Id)
	assert.Equal(t, "doc-a", docs[2].Id)
}

func TestDocumentRepository_GetByUser_Empty(t *testing.T) {
	repo, _ := setupDocumentRepo(t)

	docs, err := repo.GetDocumentsByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentRepository_GetByUser_SkipsCorruptedRecords(t *testing.T) {
	repo, backend := setupDocumentRepo(t)
	ctx := context.Background()

	doc := testDocument("doc-1", "user-1", time.Now().UTC())
	_, err := repo.PutDocument(ctx, doc)
	require.NoError(t, err)

	// Damage the stored record in place; the index entry survives
	err = backend.WithTx(func(tx *badgerdb.Txn) error {
		if err := tx.Set(makeDocumentKey("doc-1"), []byte("{not json")); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)

	docs, err := repo.GetDocumentsByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = repo.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocumentRepository_QuotaDegradesToLightCopy(t *testing.T) {
	// Ceiling large enough for the light record but not for the raw content
	repo, _ := setupDocumentRepo(t, WithMaxValueBytes(2048))
	ctx := context.Background()

	doc := testDocument("doc-1", "user-1", time.Now().UTC())
	doc.Content = []byte(strings.Repeat("x", 4096))

	stored, err := repo.PutDocument(ctx, doc)
	require.NoError(t, err)
	// Caller still sees the full-fidelity original
	assert.Len(t, stored.Content, 4096)

	got, err := repo.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, got.Content)
	assert.Equal(t, doc.Analysis.Summary, got.Analysis.Summary)
	assert.Equal(t, doc.Name, got.Name)
	require.Len(t, got.Analysis.Clauses, 2)
}

func TestDocumentRepository_QuotaFailureOnLightCopyPropagates(t *testing.T) {
	repo, _ := setupDocumentRepo(t, WithMaxValueBytes(64))
	ctx := context.Background()

	doc := testDocument("doc-1", "user-1", time.Now().UTC())
	_, err := repo.PutDocument(ctx, doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrQuotaExceeded)
}

func TestDocumentRepository_AppendClauseQA(t *testing.T) {
	repo, _ := setupDocumentRepo(t)
	ctx := context.Background()

	doc := testDocument("doc-1", "user-1", time.Now().UTC())
	_, err := repo.PutDocument(ctx, doc)
	require.NoError(t, err)

	qa := core.ClauseQA{Question: "What does this mean?", Answer: "It means X.", AskedAt: time.Now().UTC()}
	updated, err := repo.AppendClauseQA(ctx, "doc-1", "c2", qa)
	require.NoError(t, err)
	require.Len(t, updated.Analysis.Clauses[1].Conversation, 1)

	got, err := repo.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got.Analysis.Clauses[1].Conversation, 1)
	assert.Equal(t, "What does this mean?", got.Analysis.Clauses[1].Conversation[0].Question)
	assert.Empty(t, got.Analysis.Clauses[0].Conversation)

	// Second append grows the history
	_, err = repo.AppendClauseQA(ctx, "doc-1", "c2", core.ClauseQA{Question: "And this?", Answer: "Y.", AskedAt: time.Now().UTC()})
	require.NoError(t, err)
	got, err = repo.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Len(t, got.Analysis.Clauses[1].Conversation, 2)
}

func TestDocumentRepository_AppendClauseQA_ConcurrentAppendsAllKept(t *testing.T) {
	repo, _ := setupDocumentRepo(t)
	ctx := context.Background()

	doc := testDocument("doc-1", "user-1", time.Now().UTC())
	_, err := repo.PutDocument(ctx, doc)
	require.NoError(t, err)

	const askers = 8
	start := make(chan struct{})
	errs := make([]error, askers)

	var wg sync.WaitGroup
	wg.Add(askers)
	for i := 0; i < askers; i++ {
		go func(i int) {
			defer wg.Done()
			<-start
			qa := core.ClauseQA{
				Question: fmt.Sprintf("Question %d?", i),
				Answer:   fmt.Sprintf("Answer %d.", i),
				AskedAt:  time.Now().UTC(),
			}
			_, errs[i] = repo.AppendClauseQA(ctx, "doc-1", "c1", qa)
		}(i)
	}
	close(start)
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "asker %d", i)
	}

	// No append is lost to a racing one
	got, err := repo.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Len(t, got.Analysis.Clauses[0].Conversation, askers)
}

func TestDocumentRepository_AppendClauseQA_MissingClause(t *testing.T) {
	repo, _ := setupDocumentRepo(t)
	ctx := context.Background()

	doc := testDocument("doc-1", "user-1", time.Now().UTC())
	_, err := repo.PutDocument(ctx, doc)
	require.NoError(t, err)

	_, err = repo.AppendClauseQA(ctx, "doc-1", "c99", core.ClauseQA{Question: "?", Answer: "!"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.AppendClauseQA(ctx, "doc-99", "c1", core.ClauseQA{Question: "?", Answer: "!"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
