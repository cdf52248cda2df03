package search

import (
	"context"
	"fmt"
	"strings"
)

// Result is a single search hit.
type Result struct {
	DocumentID string  `json:"documentId"`
	Title      string  `json:"title"`
	Type       string  `json:"type"`
	Excerpt    string  `json:"excerpt"`
	Date       string  `json:"date"`
	Relevance  float64 `json:"relevance"`
}

// TypeAll disables the type filter.
const TypeAll = "all"

// CorpusSource supplies the searchable documents. The shipped implementation
// is a static demo corpus; deployments swap in their own.
type CorpusSource interface {
	Corpus(ctx context.Context) ([]Result, error)
}

// Service answers search queries over the injected corpus.
type Service interface {
	Search(ctx context.Context, query, searchType string) ([]Result, error)
}

type service struct {
	corpus CorpusSource
}

// NewService constructs a search service over the given corpus source.
func NewService(corpus CorpusSource) (Service, error) {
	if corpus == nil {
		return nil, fmt.Errorf("corpus source required")
	}
	return &service{corpus: corpus}, nil
}

// Search filters the corpus by exact type tag, then by case-insensitive
// substring match on title and excerpt. An empty query matches everything.
func (s *service) Search(ctx context.Context, query, searchType string) ([]Result, error) {
	corpus, err := s.corpus.Corpus(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}

	searchType = strings.TrimSpace(searchType)
	if searchType == "" {
		searchType = TypeAll
	}

	results := make([]Result, 0, len(corpus))
	needle := strings.ToLower(strings.TrimSpace(query))
	for _, result := range corpus {
		if searchType != TypeAll && result.Type != searchType {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(result.Title), needle) &&
			!strings.Contains(strings.ToLower(result.Excerpt), needle) {
			continue
		}
		results = append(results, result)
	}

	return results, nil
}
