package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calderon-ai/docintel-backend/internal/search"
)

type stubSearchService struct {
	searchFn func(ctx context.Context, query, searchType string) ([]search.Result, error)
}

func (s *stubSearchService) Search(ctx context.Context, query, searchType string) ([]search.Result, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, query, searchType)
	}
	return nil, nil
}

func TestSearchEchoesQueryAndCountsResults(t *testing.T) {
	svc := &stubSearchService{
		searchFn: func(ctx context.Context, query, searchType string) ([]search.Result, error) {
			if query != "giants" || searchType != "season_report" {
				t.Fatalf("unexpected params %q %q", query, searchType)
			}
			return []search.Result{{DocumentID: "sample-001", Title: "2023 Season Review"}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=giants&type=season_report", nil)
	resp := httptest.NewRecorder()
	Search(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Query != "giants" || out.Type != "season_report" {
		t.Fatalf("unexpected echo %+v", out)
	}
	if out.TotalResults != 1 || len(out.Results) != 1 {
		t.Fatalf("unexpected result count %+v", out)
	}
}

func TestSearchDefaultsTypeToAll(t *testing.T) {
	svc := &stubSearchService{
		searchFn: func(ctx context.Context, query, searchType string) ([]search.Result, error) {
			if searchType != search.TypeAll {
				t.Fatalf("expected default type %q got %q", search.TypeAll, searchType)
			}
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=x", nil)
	resp := httptest.NewRecorder()
	Search(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Results == nil {
		t.Fatalf("results should serialize as an empty array, not null")
	}
	if out.TotalResults != 0 {
		t.Fatalf("unexpected total %d", out.TotalResults)
	}
}

func TestSearchPropagatesServiceErrors(t *testing.T) {
	svc := &stubSearchService{
		searchFn: func(ctx context.Context, query, searchType string) ([]search.Result, error) {
			return nil, errors.New("corpus unavailable")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=x", nil)
	resp := httptest.NewRecorder()
	Search(svc, testLogger())(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
