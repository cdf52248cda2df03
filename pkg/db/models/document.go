package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderon-ai/docintel-backend/pkg/enums"
)

// Document is the lifecycle-tracking record for one ingested document.
// The raw content lives in object storage; this row only tracks status and
// pointers to the original upload and the derived analysis artifact.
type Document struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Status          enums.DocumentStatus `gorm:"column:status;not null;default:pending"`
	OriginalBucket  string               `gorm:"column:original_bucket;not null"`
	OriginalKey     string               `gorm:"column:original_key;not null"`
	ProcessedBucket *string              `gorm:"column:processed_bucket"`
	ProcessedKey    *string              `gorm:"column:processed_key"`
	FileName        string               `gorm:"column:file_name;not null"`
	ContentType     string               `gorm:"column:content_type;not null"`
	AnalysisJobID   *string              `gorm:"column:analysis_job_id"`
	FailureReason   *string              `gorm:"column:failure_reason"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	ProcessedAt     *time.Time           `gorm:"column:processed_at"`
	ExpiresAt       time.Time            `gorm:"column:expires_at;not null"`
}

// TableName keeps the table name stable across gorm naming strategies.
func (Document) TableName() string {
	return "documents"
}

// HasArtifact reports whether the record points at a processed artifact.
func (d *Document) HasArtifact() bool {
	return d.ProcessedBucket != nil && *d.ProcessedBucket != "" &&
		d.ProcessedKey != nil && *d.ProcessedKey != ""
}
