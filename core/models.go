package core

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// NewDocumentID generates a globally unique identifier for a Document.
// IDs are immutable after creation.
func NewDocumentID() string {
	return uuid.NewString()
}

// ClauseIDFromText generates a deterministic clause identifier from the clause
// text using BLAKE2b hashing. It is used when the analysis service omits an
// identifier, so identical clause text produces identical IDs.
func ClauseIDFromText(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, binary.LittleEndian.Uint64(sum))
	return "cl-" + hex.EncodeToString(buf)
}

// RiskLevel classifies a document or clause into fixed scoring bands.
type RiskLevel string

const (
	// RiskLow covers risk scores below 40.
	RiskLow RiskLevel = "low"
	// RiskMedium covers risk scores from 40 to 70 inclusive.
	RiskMedium RiskLevel = "medium"
	// RiskHigh covers risk scores above 70.
	RiskHigh RiskLevel = "high"
)

// RiskLevelFromScore maps a 0-100 risk score onto its band.
func RiskLevelFromScore(score int) RiskLevel {
	switch {
	case score > 70:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Allowed upload media types. Submissions with any other declared type are
// rejected individually.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeJPEG = "image/jpeg"
	MediaTypePNG  = "image/png"
	MediaTypeWEBP = "image/webp"
)

// AllowedMediaTypes lists the media types accepted for upload.
var AllowedMediaTypes = []string{
	MediaTypePDF,
	MediaTypeJPEG,
	MediaTypePNG,
	MediaTypeWEBP,
}

// IsAllowedMediaType reports whether mediaType is on the upload allow-list.
func IsAllowedMediaType(mediaType string) bool {
	for _, mt := range AllowedMediaTypes {
		if mt == mediaType {
			return true
		}
	}
	return false
}

// Document is the persisted analysis artifact for one uploaded file.
// It is created once analysis succeeds and mutated only by appending to a
// clause's conversation history.
type Document struct {
	Id         string    `json:"id"`
	UserId     string    `json:"userId"`
	Name       string    `json:"name"`
	MediaType  string    `json:"mediaType"`
	UploadedAt time.Time `json:"uploadedAt"`
	Content    []byte    `json:"content,omitempty"` // Raw bytes; may be dropped under storage pressure
	Analysis   Analysis  `json:"analysis"`
}

// WithoutContent returns a copy of the document with the raw byte content
// cleared. All other fields are preserved.
func (d *Document) WithoutContent() *Document {
	light := *d
	light.Content = nil
	light.Analysis = d.Analysis.clone()
	return &light
}

// Analysis is the structured result returned by the analysis service.
type Analysis struct {
	Summary     string    `json:"summary"`
	OverallRisk RiskLevel `json:"overallRisk"`
	RiskScore   int       `json:"riskScore"` // 0-100, consistent with the band thresholds
	FullText    string    `json:"fullText"`
	Clauses     []Clause  `json:"clauses"`
}

func (a Analysis) clone() Analysis {
	c := a
	c.Clauses = make([]Clause, len(a.Clauses))
	for i, clause := range a.Clauses {
		c.Clauses[i] = clause
		c.Clauses[i].RiskyKeywords = append([]string(nil), clause.RiskyKeywords...)
		c.Clauses[i].Conversation = append([]ClauseQA(nil), clause.Conversation...)
	}
	return c
}

// Clause is a discrete contractual provision extracted from a document.
// Identifiers are unique within a document. Conversation is append-only.
type Clause struct {
	Id            string     `json:"id"`
	Text          string     `json:"text"`
	Explanation   string     `json:"explanation"`
	RiskLevel     RiskLevel  `json:"riskLevel"`
	RiskyKeywords []string   `json:"riskyKeywords"`
	Reason        string     `json:"reason"`
	Conversation  []ClauseQA `json:"conversation,omitempty"`
}

// ClauseQA is one question/answer exchange about a clause.
type ClauseQA struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"askedAt"`
}

// RecentAnalysis is a lightweight cache projection of a Document for fast
// recency browsing. It lives independently of the source Document and is not
// invalidated if the Document is later mutated.
type RecentAnalysis struct {
	Id        string    `json:"id"` // Shared with the source Document
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Source    string    `json:"source"` // Discriminator, e.g. "upload", "reanalysis"
	RiskScore int       `json:"riskScore"`
	Summary   string    `json:"summary"`
	Clauses   []Clause  `json:"clauses"`
}

// RecentAnalysisFromDocument derives the cache projection of a document.
func RecentAnalysisFromDocument(doc *Document, source string) *RecentAnalysis {
	return &RecentAnalysis{
		Id:        doc.Id,
		Name:      doc.Name,
		CreatedAt: doc.UploadedAt,
		Source:    source,
		RiskScore: doc.Analysis.RiskScore,
		Summary:   doc.Analysis.Summary,
		Clauses:   doc.Analysis.clone().Clauses,
	}
}

// User is an account record. Documents reference their owner by Id only;
// there is no referential-integrity enforcement beyond filtering on read.
type User struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
