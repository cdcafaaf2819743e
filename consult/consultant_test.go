package consult

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian/clauselens/ai"
	"github.com/veridian/clauselens/ai/mock"
	"github.com/veridian/clauselens/core"
	"github.com/veridian/clauselens/storage"
	"github.com/veridian/clauselens/storage/badger"
)

func setupTestConsultant(t *testing.T) (*Consultant, storage.DocumentRepository, *mock.MockAssistant) {
	t.Helper()

	docRepo, recentRepo, userRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		userRepo.Close()
		recentRepo.Close()
		docRepo.Close()
		backend.Close()
	})

	assistant := mock.NewMockAssistant()
	provider := mock.NewMockProviderWithServices(mock.NewMockAnalyzer(), assistant)

	c, err := NewConsultant(docRepo, provider)
	require.NoError(t, err)

	return c, docRepo, assistant
}

func storeTestDocument(t *testing.T, repo storage.DocumentRepository, id, name string) *core.Document {
	t.Helper()
	doc := &core.Document{
		Id:         id,
		UserId:     "user-1",
		Name:       name,
		MediaType:  core.MediaTypePDF,
		UploadedAt: time.Now().UTC(),
		Analysis: core.Analysis{
			Summary:     "Summary of " + name,
			OverallRisk: core.RiskMedium,
			RiskScore:   55,
			FullText:    "Full text of " + name,
			Clauses: []core.Clause{
				{Id: "c1", Text: "Liability is unlimited.", RiskLevel: core.RiskHigh},
				{Id: "c2", Text: "Term renews annually.", RiskLevel: core.RiskLow},
			},
		},
	}
	_, err := repo.PutDocument(context.Background(), doc)
	require.NoError(t, err)
	return doc
}

func TestNewConsultant_Validation(t *testing.T) {
	docRepo, recentRepo, userRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		userRepo.Close()
		recentRepo.Close()
		docRepo.Close()
		backend.Close()
	})

	_, err = NewConsultant(nil, mock.NewMockProvider())
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	_, err = NewConsultant(docRepo, nil)
	assert.ErrorIs(t, err, ErrProviderRequired)
}

func TestConsultant_Ask_PersistsExchange(t *testing.T) {
	c, docRepo, assistant := setupTestConsultant(t)
	ctx := context.Background()
	storeTestDocument(t, docRepo, "doc-1", "lease.pdf")

	assistant.AskFunc = func(ctx context.Context, clauseText, question string) (string, error) {
		assert.Equal(t, "Liability is unlimited.", clauseText)
		return "It exposes you to uncapped damages.", nil
	}

	updated, qa, err := c.Ask(ctx, "doc-1", "c1", "Why is this risky?")
	require.NoError(t, err)
	assert.Equal(t, "Why is this risky?", qa.Question)
	assert.Equal(t, "It exposes you to uncapped damages.", qa.Answer)
	assert.False(t, qa.AskedAt.IsZero())

	require.Len(t, updated.Analysis.Clauses[0].Conversation, 1)

	got, err := docRepo.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got.Analysis.Clauses[0].Conversation, 1)
	assert.Equal(t, "It exposes you to uncapped damages.", got.Analysis.Clauses[0].Conversation[0].Answer)
	assert.Empty(t, got.Analysis.Clauses[1].Conversation)
}

func TestConsultant_Ask_Errors(t *testing.T) {
	c, docRepo, assistant := setupTestConsultant(t)
	ctx := context.Background()
	storeTestDocument(t, docRepo, "doc-1", "lease.pdf")

	_, _, err := c.Ask(ctx, "doc-1", "c1", "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)

	_, _, err = c.Ask(ctx, "missing", "c1", "Why?")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, _, err = c.Ask(ctx, "doc-1", "c99", "Why?")
	assert.ErrorIs(t, err, ErrClauseNotFound)

	assistant.AskFunc = func(ctx context.Context, clauseText, question string) (string, error) {
		return "", errors.New("service unavailable")
	}
	_, _, err = c.Ask(ctx, "doc-1", "c1", "Why?")
	require.Error(t, err)

	// A failed call leaves the conversation untouched
	got, err := docRepo.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, got.Analysis.Clauses[0].Conversation)
}

func TestConsultant_Chat_WithAndWithoutDocument(t *testing.T) {
	c, docRepo, assistant := setupTestConsultant(t)
	ctx := context.Background()
	storeTestDocument(t, docRepo, "doc-1", "lease.pdf")

	var seenContext string
	assistant.ChatFunc = func(ctx context.Context, history []ai.ChatMessage, message, contextText string) (string, error) {
		seenContext = contextText
		return "reply", nil
	}

	history := []ai.ChatMessage{
		{Role: ai.RoleUser, Content: "Hi"},
		{Role: ai.RoleAssistant, Content: "Hello"},
	}

	_, err := c.Chat(ctx, "doc-1", history, "What about the renewal term?")
	require.NoError(t, err)
	assert.Equal(t, "Full text of lease.pdf", seenContext)

	_, err = c.Chat(ctx, "", history, "What is an indemnity?")
	require.NoError(t, err)
	assert.Empty(t, seenContext)

	_, err = c.Chat(ctx, "doc-1", history, "")
	assert.ErrorIs(t, err, ErrEmptyQuestion)

	_, err = c.Chat(ctx, "missing", history, "Hello?")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestConsultant_Compare(t *testing.T) {
	c, docRepo, assistant := setupTestConsultant(t)
	ctx := context.Background()
	storeTestDocument(t, docRepo, "doc-1", "offer-a.pdf")
	storeTestDocument(t, docRepo, "doc-2", "offer-b.pdf")

	result, err := c.Compare(ctx, "doc-1", "doc-2")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", result.RecommendedId)
	assert.NotEmpty(t, result.Reasoning)
	assert.Equal(t, 1, assistant.CompareCallCount())

	_, err = c.Compare(ctx, "doc-1")
	assert.ErrorIs(t, err, ErrTooFewDocuments)

	_, err = c.Compare(ctx, "doc-1", "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
