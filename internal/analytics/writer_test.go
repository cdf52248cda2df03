package analytics

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubInserter struct {
	table string
	rows  []any
	err   error
}

func (s *stubInserter) InsertRows(ctx context.Context, table string, rows []any) error {
	s.table = table
	s.rows = rows
	return s.err
}

func TestNewWriterValidation(t *testing.T) {
	if _, err := NewWriter(nil, "processed_documents"); err == nil {
		t.Fatal("expected error when client missing")
	}
	if _, err := NewWriter(&stubInserter{}, " "); err == nil {
		t.Fatal("expected error when table missing")
	}
}

func TestRecordProcessed(t *testing.T) {
	inserter := &stubInserter{}
	writer, err := NewWriter(inserter, "processed_documents")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	row := ProcessedEventRow{
		DocumentID:   "doc-1",
		OriginalKey:  "uploads/doc-1/report.pdf",
		ProcessedKey: "processed/doc-1/analysis.json",
		Sentiment:    "POSITIVE",
		ProcessedAt:  time.Now(),
	}
	if err := writer.RecordProcessed(context.Background(), row); err != nil {
		t.Fatalf("RecordProcessed: %v", err)
	}
	if inserter.table != "processed_documents" {
		t.Fatalf("unexpected table %s", inserter.table)
	}
	if len(inserter.rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(inserter.rows))
	}
}

func TestRecordProcessedPropagatesError(t *testing.T) {
	inserter := &stubInserter{err: errors.New("insert failed")}
	writer, err := NewWriter(inserter, "processed_documents")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	if err := writer.RecordProcessed(context.Background(), ProcessedEventRow{}); err == nil {
		t.Fatal("expected error from inserter")
	}
}
