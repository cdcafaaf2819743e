package clauselens

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian/clauselens/ai/mock"
	"github.com/veridian/clauselens/core"
	"github.com/veridian/clauselens/ingestion"
)

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir, WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		// Verify components are initialized
		assert.NotNil(t, db.DocumentRepository())
		assert.NotNil(t, db.RecentRepository())
		assert.NotNil(t, db.UserRepository())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a database at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "db"), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.True(t, db.backend.IsClosed())
}

func TestDatabase_EndToEnd(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "db"), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	require.NoError(t, db.UserRepository().PutUser(ctx, &core.User{Id: "user-1", Name: "Dana"}))
	require.NoError(t, db.UserRepository().SetCurrentUser(ctx, "user-1"))

	pipeline, err := db.NewIngestionPipeline("user-1")
	require.NoError(t, err)
	defer pipeline.Release()

	accepted, rejected := pipeline.Submit(ingestion.FileInput{
		Name:      "contract.pdf",
		MediaType: core.MediaTypePDF,
		Content:   []byte("agreement body"),
	})
	require.Len(t, accepted, 1)
	require.Empty(t, rejected)

	result, err := pipeline.AnalyzeAll(ctx)
	require.NoError(t, err)
	require.NotNil(t, result.Navigate)

	docs, err := db.DocumentRepository().GetDocumentsByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	entries, err := db.RecentRepository().ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	consultant, err := db.NewConsultant()
	require.NoError(t, err)
	reply, err := consultant.Chat(ctx, docs[0].Id, nil, "Anything risky?")
	require.NoError(t, err)
	assert.NotEmpty(t, reply)

	reanalyzer, err := db.NewReanalyzer("user-1", nil, io.Discard)
	require.NoError(t, err)
	summary, err := reanalyzer.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Reanalyzed)
}
