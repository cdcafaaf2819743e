package ingestion

import (
	"time"

	"github.com/google/uuid"
	"github.com/veridian/clauselens/core"
)

// ItemStatus is the lifecycle state of an upload item.
type ItemStatus int

const (
	// StatusPending means the item was accepted and awaits analysis.
	StatusPending ItemStatus = iota
	// StatusProcessing means the item has been dispatched for analysis.
	StatusProcessing
	// StatusSuccess means analysis completed and the document was stored.
	StatusSuccess
	// StatusError means the item failed at some step. Terminal.
	StatusError
)

// String returns the lowercase name of the status.
func (s ItemStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// FileInput is a candidate file offered to the pipeline.
type FileInput struct {
	Name      string
	MediaType string
	Content   []byte
}

// UploadItem tracks one accepted file through the batch lifecycle.
// Status moves pending -> processing -> success or error; the last two
// are terminal. Document is set only on success, Err only on error.
type UploadItem struct {
	Id          string
	Name        string
	MediaType   string
	Size        int64
	Content     []byte
	Status      ItemStatus
	Err         error
	Document    *core.Document
	SubmittedAt time.Time
}

// Rejection reports a file refused at submission time.
type Rejection struct {
	Name string
	Err  error
}

func newUploadItem(file FileInput) *UploadItem {
	return &UploadItem{
		Id:          uuid.NewString(),
		Name:        file.Name,
		MediaType:   file.MediaType,
		Size:        int64(len(file.Content)),
		Content:     file.Content,
		Status:      StatusPending,
		SubmittedAt: time.Now().UTC(),
	}
}

// snapshot returns a copy safe to hand to callers while the pipeline
// keeps mutating the original.
func (it *UploadItem) snapshot() *UploadItem {
	clone := *it
	return &clone
}
