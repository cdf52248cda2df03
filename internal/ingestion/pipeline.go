package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/calderon-ai/docintel-backend/internal/analysis"
	"github.com/calderon-ai/docintel-backend/internal/analytics"
	"github.com/calderon-ai/docintel-backend/internal/extraction"
	"github.com/calderon-ai/docintel-backend/pkg/db/models"
	"github.com/calderon-ai/docintel-backend/pkg/enums"
	"github.com/calderon-ai/docintel-backend/pkg/logger"
	"github.com/calderon-ai/docintel-backend/pkg/metrics"
)

const artifactName = "analysis.json"

type ingestRepository interface {
	Create(ctx context.Context, doc *models.Document) (*models.Document, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error)
	SetAnalysisJobID(ctx context.Context, id uuid.UUID, jobID string) error
	MarkCompleted(ctx context.Context, id uuid.UUID, bucket, key string, processedAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error)
}

type objectStore interface {
	ReadObject(ctx context.Context, bucket, object string, maxBytes int64) ([]byte, error)
	WriteObject(ctx context.Context, bucket, object, contentType string, data []byte) error
}

// TextSource supplies fallback sample text when the uploaded object cannot be
// read. The shipped implementation returns a fixed demo document.
type TextSource interface {
	Sample(ctx context.Context) (string, error)
}

// EventRecorder receives a row for every document the pipeline completes.
// Callers that cannot reach the warehouse pass nil rather than a nil concrete
// writer, so the recording step stays disabled.
type EventRecorder interface {
	RecordProcessed(ctx context.Context, row analytics.ProcessedEventRow) error
}

// Config tunes the pipeline's buckets, prefixes and truncation limits.
type Config struct {
	UploadPrefix    string
	ProcessedPrefix string
	ProcessedBucket string
	SampleBytes     int64
	PreviewChars    int
	MaxListEntries  int
	LanguageCode    string
	RecordTTL       time.Duration
}

// Artifact is the processed-analysis JSON persisted to object storage.
type Artifact struct {
	DocumentID     string               `json:"document_id"`
	OriginalFile   string               `json:"original_file"`
	TextPreview    string               `json:"text_preview"`
	Entities       []analysis.Entity    `json:"entities"`
	KeyPhrases     []analysis.KeyPhrase `json:"key_phrases"`
	Sentiment      analysis.Sentiment   `json:"sentiment"`
	StructuredData extraction.Report    `json:"structured_data"`
	ProcessedTime  time.Time            `json:"processed_time"`
}

// Pipeline turns a finalized upload into a persisted analysis artifact and a
// completed document record.
type Pipeline struct {
	repo      ingestRepository
	store     objectStore
	provider  analysis.Provider
	extractor extraction.Extractor
	fallback  TextSource
	events    EventRecorder
	pipeMet   *metrics.PipelineMetrics
	logg      *logger.Logger
	cfg       Config
	now       func() time.Time
}

// NewPipeline wires the ingestion pipeline. The events recorder is optional;
// everything else is required.
func NewPipeline(repo ingestRepository, store objectStore, provider analysis.Provider, extractor extraction.Extractor, fallback TextSource, events EventRecorder, pipeMet *metrics.PipelineMetrics, logg *logger.Logger, cfg Config) (*Pipeline, error) {
	if repo == nil {
		return nil, fmt.Errorf("documents repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if provider == nil {
		return nil, fmt.Errorf("analysis provider required")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor required")
	}
	if fallback == nil {
		return nil, fmt.Errorf("fallback text source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.ProcessedBucket == "" {
		return nil, fmt.Errorf("processed bucket required")
	}
	if cfg.UploadPrefix == "" || cfg.ProcessedPrefix == "" {
		return nil, fmt.Errorf("upload and processed prefixes required")
	}
	if cfg.SampleBytes <= 0 {
		return nil, fmt.Errorf("sample bytes must be positive")
	}
	if cfg.RecordTTL <= 0 {
		return nil, fmt.Errorf("record ttl must be positive")
	}
	if !strings.HasSuffix(cfg.UploadPrefix, "/") {
		cfg.UploadPrefix += "/"
	}
	if !strings.HasSuffix(cfg.ProcessedPrefix, "/") {
		cfg.ProcessedPrefix += "/"
	}
	return &Pipeline{
		repo:      repo,
		store:     store,
		provider:  provider,
		extractor: extractor,
		fallback:  fallback,
		events:    events,
		pipeMet:   pipeMet,
		logg:      logg,
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

// Process runs the pipeline for one finalized object. A nil return means the
// notification is settled (including failed runs, which transition the record
// and are never retried); a non-nil return signals a transient fault the
// consumer may redeliver.
func (p *Pipeline) Process(ctx context.Context, bucket, key string) error {
	started := p.now()
	logCtx := p.logg.WithFields(ctx, map[string]any{"bucket": bucket, "gcs_key": key})

	if !strings.HasPrefix(key, p.cfg.UploadPrefix) {
		p.logg.Info(logCtx, "skipping object outside upload namespace")
		p.pipeMet.IncOutcome("skipped")
		return nil
	}

	doc, err := p.resolveRecord(ctx, bucket, key)
	if err != nil {
		return fmt.Errorf("resolving document record: %w", err)
	}
	logCtx = p.logg.WithDocumentID(logCtx, doc.ID.String())

	moved, err := p.repo.MarkProcessing(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("marking processing: %w", err)
	}
	if !moved {
		p.logg.Info(logCtx, "record already claimed, skipping duplicate delivery")
		p.pipeMet.IncOutcome("duplicate")
		return nil
	}

	jobID, err := p.provider.StartDocumentAnalysis(ctx, bucket, key)
	if err != nil {
		p.fail(logCtx, doc.ID, fmt.Sprintf("start document analysis: %v", err))
		return nil
	}
	if err := p.repo.SetAnalysisJobID(ctx, doc.ID, jobID); err != nil {
		p.logg.Warn(logCtx, "failed to record analysis job id")
	}

	text := p.sampleText(logCtx, bucket, key)
	if strings.TrimSpace(text) == "" {
		p.fail(logCtx, doc.ID, "no text available for analysis")
		return nil
	}

	var (
		entities  []analysis.Entity
		phrases   []analysis.KeyPhrase
		sentiment analysis.Sentiment
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		entities, err = p.provider.DetectEntities(groupCtx, text, p.cfg.LanguageCode)
		return err
	})
	group.Go(func() error {
		var err error
		phrases, err = p.provider.DetectKeyPhrases(groupCtx, text, p.cfg.LanguageCode)
		return err
	})
	group.Go(func() error {
		var err error
		sentiment, err = p.provider.DetectSentiment(groupCtx, text, p.cfg.LanguageCode)
		return err
	})
	if err := group.Wait(); err != nil {
		p.fail(logCtx, doc.ID, fmt.Sprintf("analysis provider: %v", err))
		return nil
	}

	report := p.extractor.Extract(text, entities, phrases)

	processedAt := p.now()
	artifact := Artifact{
		DocumentID:     doc.ID.String(),
		OriginalFile:   key,
		TextPreview:    truncateRunes(text, p.cfg.PreviewChars),
		Entities:       truncateEntities(entities, p.cfg.MaxListEntries),
		KeyPhrases:     truncatePhrases(phrases, p.cfg.MaxListEntries),
		Sentiment:      sentiment,
		StructuredData: report,
		ProcessedTime:  processedAt,
	}
	payload, err := json.Marshal(artifact)
	if err != nil {
		p.fail(logCtx, doc.ID, fmt.Sprintf("encode artifact: %v", err))
		return nil
	}

	processedKey := fmt.Sprintf("%s%s/%s", p.cfg.ProcessedPrefix, doc.ID, artifactName)
	if err := p.store.WriteObject(ctx, p.cfg.ProcessedBucket, processedKey, "application/json", payload); err != nil {
		p.fail(logCtx, doc.ID, fmt.Sprintf("persist artifact: %v", err))
		return nil
	}

	moved, err = p.repo.MarkCompleted(ctx, doc.ID, p.cfg.ProcessedBucket, processedKey, processedAt)
	if err != nil {
		return fmt.Errorf("marking completed: %w", err)
	}
	if !moved {
		p.logg.Warn(logCtx, "record reached a terminal state during processing")
	}

	p.recordEvent(logCtx, doc, processedKey, artifact, started)

	p.pipeMet.IncOutcome("completed")
	p.pipeMet.ObserveStage("total", p.now().Sub(started))
	p.logg.Info(logCtx, "document processed")
	return nil
}

// resolveRecord adopts the upload coordinator's record when the key carries
// its document id, and otherwise creates a fresh record so direct drops into
// the namespace still process.
func (p *Pipeline) resolveRecord(ctx context.Context, bucket, key string) (*models.Document, error) {
	if id, ok := parseDocumentID(key, p.cfg.UploadPrefix); ok {
		doc, err := p.repo.FindByID(ctx, id)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	doc := &models.Document{
		ID:             uuid.New(),
		Status:         enums.DocumentStatusPending,
		OriginalBucket: bucket,
		OriginalKey:    key,
		FileName:       path.Base(key),
		ContentType:    contentTypeForKey(key),
		ExpiresAt:      p.now().Add(p.cfg.RecordTTL),
	}
	return p.repo.Create(ctx, doc)
}

func (p *Pipeline) sampleText(ctx context.Context, bucket, key string) string {
	data, err := p.store.ReadObject(ctx, bucket, key, p.cfg.SampleBytes)
	if err == nil {
		return strings.ToValidUTF8(string(data), "")
	}
	p.logg.Warn(ctx, "object read failed, using fallback sample text")

	sample, err := p.fallback.Sample(ctx)
	if err != nil {
		p.logg.Error(ctx, "fallback text source failed", err)
		return ""
	}
	return sample
}

func (p *Pipeline) fail(ctx context.Context, id uuid.UUID, reason string) {
	if _, err := p.repo.MarkFailed(ctx, id, reason); err != nil {
		p.logg.Error(ctx, "failed to mark document failed", err)
	}
	p.logg.Error(ctx, "document processing failed", fmt.Errorf("%s", reason))
	p.pipeMet.IncOutcome("failed")
}

func (p *Pipeline) recordEvent(ctx context.Context, doc *models.Document, processedKey string, artifact Artifact, started time.Time) {
	if p.events == nil {
		return
	}
	row := analytics.ProcessedEventRow{
		DocumentID:    doc.ID.String(),
		OriginalKey:   doc.OriginalKey,
		ProcessedKey:  processedKey,
		ContentType:   doc.ContentType,
		EntityCount:   len(artifact.Entities),
		PhraseCount:   len(artifact.KeyPhrases),
		Sentiment:     artifact.Sentiment.Label,
		ProcessedAt:   artifact.ProcessedTime,
		PipelineMilli: p.now().Sub(started).Milliseconds(),
	}
	if err := p.events.RecordProcessed(ctx, row); err != nil {
		p.logg.Warn(ctx, "failed to record processed event")
	}
}

func parseDocumentID(key, uploadPrefix string) (uuid.UUID, bool) {
	rest := strings.TrimPrefix(key, uploadPrefix)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func contentTypeForKey(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func truncateEntities(entities []analysis.Entity, max int) []analysis.Entity {
	if max <= 0 || len(entities) <= max {
		return entities
	}
	return entities[:max]
}

func truncatePhrases(phrases []analysis.KeyPhrase, max int) []analysis.KeyPhrase {
	if max <= 0 || len(phrases) <= max {
		return phrases
	}
	return phrases[:max]
}
