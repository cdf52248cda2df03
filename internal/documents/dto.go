package documents

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/calderon-ai/docintel-backend/pkg/db/models"
)

// UploadInput models the payload required to request an upload grant.
type UploadInput struct {
	FileName    string
	ContentType string
}

// UploadOutput is the upload grant returned to the client.
type UploadOutput struct {
	DocumentID uuid.UUID `json:"documentId"`
	UploadURL  string    `json:"uploadUrl"`
	Key        string    `json:"key"`
}

// Metadata is the lifecycle view of a document record returned when the
// analysis artifact is absent or unreadable.
type Metadata struct {
	FileName      string     `json:"fileName"`
	ContentType   string     `json:"contentType"`
	OriginalKey   string     `json:"originalKey"`
	AnalysisJobID *string    `json:"analysisJobId,omitempty"`
	FailureReason *string    `json:"failureReason,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
	ExpiresAt     time.Time  `json:"expiresAt"`
}

// AnalyzeOutput is the query façade response. Exactly one of Analysis or
// Metadata is set.
type AnalyzeOutput struct {
	DocumentID uuid.UUID       `json:"documentId"`
	Status     string          `json:"status"`
	Analysis   json.RawMessage `json:"analysis,omitempty"`
	Metadata   *Metadata       `json:"metadata,omitempty"`
}

func metadataFromRecord(doc *models.Document) *Metadata {
	return &Metadata{
		FileName:      doc.FileName,
		ContentType:   doc.ContentType,
		OriginalKey:   doc.OriginalKey,
		AnalysisJobID: doc.AnalysisJobID,
		FailureReason: doc.FailureReason,
		CreatedAt:     doc.CreatedAt,
		ProcessedAt:   doc.ProcessedAt,
		ExpiresAt:     doc.ExpiresAt,
	}
}
