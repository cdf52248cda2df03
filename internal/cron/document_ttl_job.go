package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/calderon-ai/docintel-backend/pkg/db/models"
	"github.com/calderon-ai/docintel-backend/pkg/logger"
)

const defaultExpiredBatchSize = 100

type expiredDocumentReader interface {
	ListExpired(ctx context.Context, now time.Time, limit int) ([]models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type artifactDeleter interface {
	DeleteObject(ctx context.Context, bucket, object string) error
}

// DocumentTTLJobParams configure the expired document sweeper.
type DocumentTTLJobParams struct {
	Logger    *logger.Logger
	Repo      expiredDocumentReader
	Store     artifactDeleter
	BatchSize int
}

// NewDocumentTTLJob builds the cron job that removes documents past their
// retention window along with their derived artifacts.
func NewDocumentTTLJob(params DocumentTTLJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("documents repository required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("object store required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultExpiredBatchSize
	}
	return &documentTTLJob{
		logg:      params.Logger,
		repo:      params.Repo,
		store:     params.Store,
		batchSize: batchSize,
		now:       time.Now,
	}, nil
}

type documentTTLJob struct {
	logg      *logger.Logger
	repo      expiredDocumentReader
	store     artifactDeleter
	batchSize int
	now       func() time.Time
}

func (j *documentTTLJob) Name() string { return "document-ttl" }

func (j *documentTTLJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC()
	expired, err := j.repo.ListExpired(ctx, cutoff, j.batchSize)
	if err != nil {
		return fmt.Errorf("query expired documents: %w", err)
	}
	var errs []error
	removed := 0
	for _, doc := range expired {
		if err := j.removeDocument(ctx, doc); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"expired": len(expired), "removed": removed})
	j.logg.Info(logCtx, "document expiration sweep complete")
	return multierr.Combine(errs...)
}

// removeDocument deletes the artifact best-effort before removing the row.
// A failed artifact delete is logged but does not keep the row around; the
// row delete is the operation that must succeed.
func (j *documentTTLJob) removeDocument(ctx context.Context, doc models.Document) error {
	docCtx := j.logg.WithDocumentID(ctx, doc.ID.String())
	if doc.HasArtifact() {
		if err := j.store.DeleteObject(ctx, *doc.ProcessedBucket, *doc.ProcessedKey); err != nil {
			j.logg.Warn(docCtx, "failed to delete expired artifact")
		}
	}
	if err := j.repo.Delete(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete expired document %s: %w", doc.ID, err)
	}
	return nil
}
