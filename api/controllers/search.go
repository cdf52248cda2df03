package controllers

import (
	"net/http"

	"github.com/calderon-ai/docintel-backend/api/responses"
	"github.com/calderon-ai/docintel-backend/api/validators"
	"github.com/calderon-ai/docintel-backend/internal/search"
	pkgerrors "github.com/calderon-ai/docintel-backend/pkg/errors"
	"github.com/calderon-ai/docintel-backend/pkg/logger"
)

type searchResponse struct {
	Query        string          `json:"query"`
	Type         string          `json:"type"`
	Results      []search.Result `json:"results"`
	TotalResults int             `json:"totalResults"`
}

// Search filters the document corpus by type tag and substring match.
func Search(svc search.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "search service unavailable"))
			return
		}

		query := validators.QueryString(r, "q", "")
		searchType := validators.QueryString(r, "type", search.TypeAll)

		results, err := svc.Search(r.Context(), query, searchType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if results == nil {
			results = []search.Result{}
		}

		responses.WriteSuccess(w, searchResponse{
			Query:        query,
			Type:         searchType,
			Results:      results,
			TotalResults: len(results),
		})
	}
}
