package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/calderon-ai/docintel-backend/pkg/db/models"
	"github.com/calderon-ai/docintel-backend/pkg/logger"
)

func TestDocumentTTLJobDeletesExpiredRowsAndArtifacts(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	bucket := "docintel-processed"
	keyA := "processed/a/analysis.json"
	rows := []models.Document{
		{ID: uuid.New(), ProcessedBucket: &bucket, ProcessedKey: &keyA},
		{ID: uuid.New()},
	}
	repo := &fakeExpiredRepo{rows: rows}
	store := &fakeArtifactStore{}
	job := newDocumentTTLJob(t, repo, store)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !repo.lastCutoff.Equal(now.UTC()) {
		t.Fatalf("expected cutoff %s got %s", now.UTC(), repo.lastCutoff)
	}
	if repo.lastLimit != defaultExpiredBatchSize {
		t.Fatalf("expected batch size %d got %d", defaultExpiredBatchSize, repo.lastLimit)
	}
	if len(repo.deletedIDs) != len(rows) {
		t.Fatalf("expected %d deleted rows, got %d", len(rows), len(repo.deletedIDs))
	}
	// only the row with an artifact triggers an object delete
	if len(store.deleted) != 1 || store.deleted[0] != bucket+"/"+keyA {
		t.Fatalf("unexpected artifact deletions: %v", store.deleted)
	}
}

func TestDocumentTTLJobDeletesRowWhenArtifactDeleteFails(t *testing.T) {
	t.Parallel()

	bucket := "docintel-processed"
	key := "processed/x/analysis.json"
	repo := &fakeExpiredRepo{rows: []models.Document{
		{ID: uuid.New(), ProcessedBucket: &bucket, ProcessedKey: &key},
	}}
	store := &fakeArtifactStore{err: errors.New("storage down")}
	job := newDocumentTTLJob(t, repo, store)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(repo.deletedIDs) != 1 {
		t.Fatalf("expected row deleted despite artifact failure, got %d", len(repo.deletedIDs))
	}
}

func TestDocumentTTLJobCollectsRowDeleteErrors(t *testing.T) {
	t.Parallel()

	repo := &fakeExpiredRepo{
		rows:      []models.Document{{ID: uuid.New()}, {ID: uuid.New()}},
		deleteErr: errors.New("db failure"),
	}
	job := newDocumentTTLJob(t, repo, &fakeArtifactStore{})

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected combined error")
	}
}

func TestDocumentTTLJobPropagatesListErrors(t *testing.T) {
	t.Parallel()

	repo := &fakeExpiredRepo{listErr: errors.New("list failure")}
	job := newDocumentTTLJob(t, repo, &fakeArtifactStore{})

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newDocumentTTLJob(t *testing.T, repo *fakeExpiredRepo, store *fakeArtifactStore) *documentTTLJob {
	t.Helper()
	jobIface, err := NewDocumentTTLJob(DocumentTTLJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Repo:   repo,
		Store:  store,
	})
	if err != nil {
		t.Fatalf("NewDocumentTTLJob: %v", err)
	}
	job, ok := jobIface.(*documentTTLJob)
	if !ok {
		t.Fatalf("expected documentTTLJob, got %T", jobIface)
	}
	return job
}

type fakeExpiredRepo struct {
	rows       []models.Document
	listErr    error
	deleteErr  error
	lastCutoff time.Time
	lastLimit  int
	deletedIDs []uuid.UUID
}

func (f *fakeExpiredRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]models.Document, error) {
	f.lastCutoff = now
	f.lastLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.rows, nil
}

func (f *fakeExpiredRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeArtifactStore struct {
	deleted []string
	err     error
}

func (f *fakeArtifactStore) DeleteObject(ctx context.Context, bucket, object string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, bucket+"/"+object)
	return nil
}
