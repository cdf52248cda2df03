package analytics

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ProcessedEventRow is the BigQuery row emitted when a document completes the
// pipeline.
type ProcessedEventRow struct {
	DocumentID    string    `bigquery:"document_id"`
	OriginalKey   string    `bigquery:"original_key"`
	ProcessedKey  string    `bigquery:"processed_key"`
	ContentType   string    `bigquery:"content_type"`
	EntityCount   int       `bigquery:"entity_count"`
	PhraseCount   int       `bigquery:"phrase_count"`
	Sentiment     string    `bigquery:"sentiment"`
	ProcessedAt   time.Time `bigquery:"processed_at"`
	PipelineMilli int64     `bigquery:"pipeline_millis"`
}

type tableInserter interface {
	InsertRows(ctx context.Context, table string, rows []any) error
}

// Writer inserts processed-document events into BigQuery. Callers treat
// insert failures as non-fatal.
type Writer struct {
	client tableInserter
	table  string
}

// NewWriter creates a Writer bound to the processed-events table.
func NewWriter(client tableInserter, table string) (*Writer, error) {
	if client == nil {
		return nil, errors.New("bigquery client required")
	}
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, errors.New("processed events table is required")
	}
	return &Writer{client: client, table: table}, nil
}

// RecordProcessed inserts one processed-document event row.
func (w *Writer) RecordProcessed(ctx context.Context, row ProcessedEventRow) error {
	if w == nil || w.client == nil {
		return errors.New("analytics writer not initialized")
	}
	return w.client.InsertRows(ctx, w.table, []any{&row})
}
