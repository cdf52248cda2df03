package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderon-ai/docintel-backend/pkg/db/models"
	"github.com/calderon-ai/docintel-backend/pkg/enums"
	pkgerrors "github.com/calderon-ai/docintel-backend/pkg/errors"
	"github.com/calderon-ai/docintel-backend/pkg/logger"
	"github.com/calderon-ai/docintel-backend/pkg/storage/gcs"
)

const maxArtifactBytes = 4 * 1024 * 1024

type documentsRepository interface {
	Create(ctx context.Context, doc *models.Document) (*models.Document, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type objectStore interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	ReadObject(ctx context.Context, bucket, object string, maxBytes int64) ([]byte, error)
}

// Service exposes the upload grant and analysis query semantics.
type Service interface {
	PresignUpload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Analyze(ctx context.Context, documentID uuid.UUID) (*AnalyzeOutput, error)
}

type service struct {
	repo      documentsRepository
	store     objectStore
	logg      *logger.Logger
	bucket    string
	prefix    string
	uploadTTL time.Duration
	recordTTL time.Duration
}

// NewService constructs the documents service backed by the given repository
// and object store.
func NewService(repo documentsRepository, store objectStore, logg *logger.Logger, bucket, uploadPrefix string, uploadTTL, recordTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("documents repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("uploads bucket required")
	}
	if uploadTTL <= 0 {
		return nil, fmt.Errorf("upload ttl must be positive")
	}
	if recordTTL <= 0 {
		return nil, fmt.Errorf("record ttl must be positive")
	}
	return &service{
		repo:      repo,
		store:     store,
		logg:      logg,
		bucket:    bucket,
		prefix:    strings.TrimSuffix(uploadPrefix, "/"),
		uploadTTL: uploadTTL,
		recordTTL: recordTTL,
	}, nil
}

// PresignUpload mints a document id, stores a pending record and returns a
// time-limited signed PUT URL scoped to the id's key prefix.
func (s *service) PresignUpload(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filename is required")
	}
	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contentType is required")
	}

	documentID := uuid.New()
	key := buildUploadKey(s.prefix, documentID, fileName)

	doc := &models.Document{
		ID:             documentID,
		Status:         enums.DocumentStatusPending,
		OriginalBucket: s.bucket,
		OriginalKey:    key,
		FileName:       fileName,
		ContentType:    contentType,
		ExpiresAt:      time.Now().Add(s.recordTTL),
	}
	if _, err := s.repo.Create(ctx, doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist document record")
	}

	uploadURL, err := s.store.SignedURL(s.bucket, key, contentType, s.uploadTTL)
	if err != nil {
		_ = s.repo.Delete(ctx, documentID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &UploadOutput{
		DocumentID: documentID,
		UploadURL:  uploadURL,
		Key:        key,
	}, nil
}

// Analyze returns the analysis artifact for completed documents and a
// lifecycle metadata view otherwise. A completed record whose artifact cannot
// be read degrades to the metadata view instead of failing the request.
func (s *service) Analyze(ctx context.Context, documentID uuid.UUID) (*AnalyzeOutput, error) {
	if documentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "documentId is required")
	}

	doc, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document record")
	}

	out := &AnalyzeOutput{
		DocumentID: doc.ID,
		Status:     doc.Status.String(),
	}

	if doc.Status == enums.DocumentStatusCompleted && doc.HasArtifact() {
		analysis, err := s.readArtifact(ctx, doc)
		switch {
		case err == nil:
			out.Analysis = analysis
			return out, nil
		case pkgerrors.HasCode(err, pkgerrors.CodeInconsistentState):
			// Completed record pointing at a missing or corrupt artifact:
			// serve the metadata view rather than a 500.
			logCtx := s.logg.WithDocumentID(ctx, doc.ID.String())
			s.logg.Warn(logCtx, "analysis artifact unreadable, serving metadata")
		default:
			return nil, err
		}
	}

	out.Metadata = metadataFromRecord(doc)
	return out, nil
}

func (s *service) readArtifact(ctx context.Context, doc *models.Document) (json.RawMessage, error) {
	data, err := s.store.ReadObject(ctx, *doc.ProcessedBucket, *doc.ProcessedKey, maxArtifactBytes)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInconsistentState, err, "analysis artifact missing")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read analysis artifact")
	}
	if !json.Valid(data) {
		return nil, pkgerrors.New(pkgerrors.CodeInconsistentState, "analysis artifact is not valid JSON")
	}
	return json.RawMessage(data), nil
}

func buildUploadKey(prefix string, id uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = id.String()
	}
	return fmt.Sprintf("%s/%s/%s", prefix, id.String(), cleanName)
}

// urlReservedChars would split or corrupt the signed URL the key is
// interpolated into if they survived into the object name.
const urlReservedChars = `?#%&=+"'<>:;|`

// sanitizeFileName strips path separators, control characters, and
// URL-reserved characters so an untrusted name cannot escape the id-scoped
// key prefix or break the upload grant URL.
func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case strings.ContainsRune(urlReservedChars, r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
