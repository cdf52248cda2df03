package search

import (
	"context"
	"errors"
	"testing"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(DemoCorpus())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.Search(context.Background(), "", "all")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected full corpus, got %d results", len(results))
	}
}

func TestSearchTypeFilterExactMatch(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.Search(context.Background(), "", "player_stats")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].DocumentID != "sample-002" {
		t.Fatalf("unexpected result %s", results[0].DocumentID)
	}

	// A partial type tag must not match.
	results, err = svc.Search(context.Background(), "", "player")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results for partial type tag, got %d", len(results))
	}
}

func TestSearchQueryCaseInsensitive(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.Search(context.Background(), "bARKLEY", "all")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].DocumentID != "sample-002" {
		t.Fatalf("unexpected result %s", results[0].DocumentID)
	}
}

func TestSearchMatchesExcerpt(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.Search(context.Background(), "brian daboll", "all")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].DocumentID != "sample-001" {
		t.Fatalf("unexpected result %s", results[0].DocumentID)
	}
}

func TestSearchNoMatches(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.Search(context.Background(), "nothing matches this", "all")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty results, got %d", len(results))
	}
}

func TestSearchEmptyTypeDefaultsToAll(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.Search(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected full corpus, got %d results", len(results))
	}
}

type failingCorpus struct{}

func (failingCorpus) Corpus(context.Context) ([]Result, error) {
	return nil, errors.New("corpus unavailable")
}

func TestSearchCorpusError(t *testing.T) {
	svc, err := NewService(failingCorpus{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.Search(context.Background(), "", "all"); err == nil {
		t.Fatal("expected error when corpus source fails")
	}
}
