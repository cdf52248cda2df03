package documents

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/calderon-ai/docintel-backend/pkg/db/models"
	"github.com/calderon-ai/docintel-backend/pkg/enums"
)

func setupDocumentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	documents := `
CREATE TABLE IF NOT EXISTS documents (
  id TEXT PRIMARY KEY,
  status TEXT NOT NULL DEFAULT 'pending',
  original_bucket TEXT NOT NULL,
  original_key TEXT NOT NULL,
  processed_bucket TEXT,
  processed_key TEXT,
  file_name TEXT NOT NULL,
  content_type TEXT NOT NULL,
  analysis_job_id TEXT,
  failure_reason TEXT,
  created_at DATETIME,
  processed_at DATETIME,
  expires_at DATETIME NOT NULL
);`
	require.NoError(t, db.Exec(documents).Error)

	return db
}

func seedDocument(t *testing.T, repo *Repository, status enums.DocumentStatus) *models.Document {
	t.Helper()

	doc := &models.Document{
		ID:             uuid.New(),
		Status:         status,
		OriginalBucket: "docs-bucket",
		OriginalKey:    "uploads/id/report.pdf",
		FileName:       "report.pdf",
		ContentType:    "application/pdf",
		ExpiresAt:      time.Now().Add(24 * time.Hour),
	}
	_, err := repo.Create(context.Background(), doc)
	require.NoError(t, err)
	return doc
}

func TestRepoCreateAndFind(t *testing.T) {
	repo := NewRepository(setupDocumentsTestDB(t))
	doc := seedDocument(t, repo, enums.DocumentStatusPending)

	found, err := repo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, doc.ID, found.ID)
	require.Equal(t, enums.DocumentStatusPending, found.Status)
}

func TestRepoFindMissing(t *testing.T) {
	repo := NewRepository(setupDocumentsTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepoMarkProcessing(t *testing.T) {
	repo := NewRepository(setupDocumentsTestDB(t))
	doc := seedDocument(t, repo, enums.DocumentStatusPending)

	moved, err := repo.MarkProcessing(context.Background(), doc.ID)
	require.NoError(t, err)
	require.True(t, moved)

	// A duplicate delivery finds the row already at processing.
	moved, err = repo.MarkProcessing(context.Background(), doc.ID)
	require.NoError(t, err)
	require.False(t, moved)
}

func TestRepoMarkCompletedSetsArtifact(t *testing.T) {
	repo := NewRepository(setupDocumentsTestDB(t))
	doc := seedDocument(t, repo, enums.DocumentStatusPending)

	processedAt := time.Now()
	moved, err := repo.MarkCompleted(context.Background(), doc.ID, "processed-bucket", "processed/id/analysis.json", processedAt)
	require.NoError(t, err)
	require.True(t, moved)

	found, err := repo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, enums.DocumentStatusCompleted, found.Status)
	require.True(t, found.HasArtifact())
	require.NotNil(t, found.ProcessedAt)
}

func TestRepoNoRegressionFromTerminal(t *testing.T) {
	repo := NewRepository(setupDocumentsTestDB(t))
	doc := seedDocument(t, repo, enums.DocumentStatusPending)

	moved, err := repo.MarkCompleted(context.Background(), doc.ID, "b", "k", time.Now())
	require.NoError(t, err)
	require.True(t, moved)

	// Failed must not overwrite completed.
	moved, err = repo.MarkFailed(context.Background(), doc.ID, "late failure")
	require.NoError(t, err)
	require.False(t, moved)

	found, err := repo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, enums.DocumentStatusCompleted, found.Status)
	require.Nil(t, found.FailureReason)
}

func TestRepoMarkFailedClearsNothing(t *testing.T) {
	repo := NewRepository(setupDocumentsTestDB(t))
	doc := seedDocument(t, repo, enums.DocumentStatusProcessing)

	moved, err := repo.MarkFailed(context.Background(), doc.ID, "provider error")
	require.NoError(t, err)
	require.True(t, moved)

	found, err := repo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, enums.DocumentStatusFailed, found.Status)
	require.NotNil(t, found.FailureReason)
	require.False(t, found.HasArtifact())
}

func TestRepoDuplicateCompletionsSingleWinner(t *testing.T) {
	repo := NewRepository(setupDocumentsTestDB(t))
	doc := seedDocument(t, repo, enums.DocumentStatusProcessing)

	var winners int
	for i := 0; i < 4; i++ {
		moved, err := repo.MarkCompleted(context.Background(), doc.ID, "b", "k", time.Now())
		require.NoError(t, err)
		if moved {
			winners++
		}
	}
	require.Equal(t, 1, winners)

	found, err := repo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, enums.DocumentStatusCompleted, found.Status)
}

func TestRepoSetAnalysisJobID(t *testing.T) {
	repo := NewRepository(setupDocumentsTestDB(t))
	doc := seedDocument(t, repo, enums.DocumentStatusProcessing)

	require.NoError(t, repo.SetAnalysisJobID(context.Background(), doc.ID, "job-123"))

	found, err := repo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NotNil(t, found.AnalysisJobID)
	require.Equal(t, "job-123", *found.AnalysisJobID)
}

func TestRepoListExpired(t *testing.T) {
	repo := NewRepository(setupDocumentsTestDB(t))

	expired := seedDocument(t, repo, enums.DocumentStatusCompleted)
	require.NoError(t, repo.db.Model(&models.Document{}).
		Where("id = ?", expired.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)
	seedDocument(t, repo, enums.DocumentStatusPending)

	docs, err := repo.ListExpired(context.Background(), time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, expired.ID, docs[0].ID)
}

func TestRepoDelete(t *testing.T) {
	repo := NewRepository(setupDocumentsTestDB(t))
	doc := seedDocument(t, repo, enums.DocumentStatusPending)

	require.NoError(t, repo.Delete(context.Background(), doc.ID))

	_, err := repo.FindByID(context.Background(), doc.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
