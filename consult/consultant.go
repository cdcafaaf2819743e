package consult

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/veridian/clauselens/ai"
	"github.com/veridian/clauselens/core"
	"github.com/veridian/clauselens/storage"
)

// Consultant answers follow-up questions about analyzed documents.
// It binds the question-answering service to stored documents: clause
// questions are persisted back onto the clause's conversation history,
// chats can be grounded in a document's extracted text, and comparisons
// run over any set of stored documents.
type Consultant struct {
	documents storage.DocumentRepository
	assistant ai.Assistant
	logger    *slog.Logger
}

// Option configures a Consultant.
type Option func(*Consultant) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Consultant) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewConsultant creates a new consultant.
func NewConsultant(
	documents storage.DocumentRepository,
	provider ai.Provider,
	opts ...Option,
) (*Consultant, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	c := &Consultant{
		documents: documents,
		assistant: provider.Assistant(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Ask answers a question about one clause of a stored document and
// appends the exchange to the clause's conversation history. The
// returned document reflects the appended exchange.
func (c *Consultant) Ask(ctx context.Context, documentID, clauseID, question string) (*core.Document, core.ClauseQA, error) {
	if strings.TrimSpace(question) == "" {
		return nil, core.ClauseQA{}, ErrEmptyQuestion
	}

	doc, err := c.documents.GetDocument(ctx, documentID)
	if err != nil {
		return nil, core.ClauseQA{}, err
	}

	clause := findClause(doc, clauseID)
	if clause == nil {
		return nil, core.ClauseQA{}, fmt.Errorf("%w: %s in document %s", ErrClauseNotFound, clauseID, documentID)
	}

	answer, err := c.assistant.Ask(ctx, clause.Text, question)
	if err != nil {
		c.logger.Error("error answering clause question", "document", documentID, "clause", clauseID, "err", err)
		return nil, core.ClauseQA{}, err
	}

	qa := core.ClauseQA{
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now().UTC(),
	}

	updated, err := c.documents.AppendClauseQA(ctx, documentID, clauseID, qa)
	if err != nil {
		return nil, core.ClauseQA{}, err
	}

	return updated, qa, nil
}

// Chat continues a conversation with the assistant. When documentID is
// non-empty the document's extracted text is supplied as grounding
// context; when empty the assistant answers with general guidance only.
func (c *Consultant) Chat(ctx context.Context, documentID string, history []ai.ChatMessage, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyQuestion
	}

	var contextText string
	if documentID != "" {
		doc, err := c.documents.GetDocument(ctx, documentID)
		if err != nil {
			return "", err
		}
		contextText = doc.Analysis.FullText
	}

	return c.assistant.Chat(ctx, history, message, contextText)
}

// Compare loads the named documents and asks the assistant to compare
// them. At least two document ids are required.
func (c *Consultant) Compare(ctx context.Context, documentIDs ...string) (*ai.ComparisonResult, error) {
	if len(documentIDs) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewDocuments, len(documentIDs))
	}

	inputs := make([]ai.ComparisonInput, 0, len(documentIDs))
	for _, id := range documentIDs {
		doc, err := c.documents.GetDocument(ctx, id)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, ai.ComparisonInput{
			Id:       doc.Id,
			Name:     doc.Name,
			Analysis: doc.Analysis,
		})
	}

	return c.assistant.Compare(ctx, inputs)
}

func findClause(doc *core.Document, clauseID string) *core.Clause {
	for i := range doc.Analysis.Clauses {
		if doc.Analysis.Clauses[i].Id == clauseID {
			return &doc.Analysis.Clauses[i]
		}
	}
	return nil
}
