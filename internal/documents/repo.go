package documents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderon-ai/docintel-backend/pkg/db/models"
	"github.com/calderon-ai/docintel-backend/pkg/enums"
)

// Repository exposes document metadata persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a document repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a document record.
func (r *Repository) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

// FindByID retrieves a document record by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// Delete removes a document record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Document{}).Error
}

// MarkProcessing moves the record to processing. Returns false when the row is
// already at processing or a terminal state, which signals a duplicate
// delivery to the caller.
func (r *Repository) MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.transition(ctx, id, enums.DocumentStatusProcessing, map[string]any{
		"status": enums.DocumentStatusProcessing,
	})
}

// SetAnalysisJobID records the provider job handle on the row.
func (r *Repository) SetAnalysisJobID(ctx context.Context, id uuid.UUID, jobID string) error {
	return r.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ?", id).
		Update("analysis_job_id", jobID).Error
}

// MarkCompleted moves the record to completed and sets the artifact location.
// Returns false when the row already reached a terminal state.
func (r *Repository) MarkCompleted(ctx context.Context, id uuid.UUID, bucket, key string, processedAt time.Time) (bool, error) {
	return r.transition(ctx, id, enums.DocumentStatusCompleted, map[string]any{
		"status":           enums.DocumentStatusCompleted,
		"processed_bucket": bucket,
		"processed_key":    key,
		"processed_at":     processedAt,
	})
}

// MarkFailed moves the record to failed with a short reason. Returns false
// when the row already reached a terminal state.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	return r.transition(ctx, id, enums.DocumentStatusFailed, map[string]any{
		"status":         enums.DocumentStatusFailed,
		"failure_reason": reason,
	})
}

// transition performs the rank-guarded conditional update. The WHERE clause
// only matches rows at a strictly lower lifecycle rank, so concurrent writers
// cannot regress a record and duplicate deliveries update zero rows.
func (r *Repository) transition(ctx context.Context, id uuid.UUID, to enums.DocumentStatus, updates map[string]any) (bool, error) {
	allowed := enums.StatusesBelow(to)
	if len(allowed) == 0 {
		return false, nil
	}
	tx := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ? AND status IN ?", id, allowed).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// ListExpired returns up to limit records whose expiry has passed.
func (r *Repository) ListExpired(ctx context.Context, now time.Time, limit int) ([]models.Document, error) {
	var docs []models.Document
	query := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}
