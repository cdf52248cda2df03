package controllers

import (
	"net/http"

	"github.com/calderon-ai/docintel-backend/api/responses"
	"github.com/calderon-ai/docintel-backend/api/validators"
	"github.com/calderon-ai/docintel-backend/internal/documents"
	pkgerrors "github.com/calderon-ai/docintel-backend/pkg/errors"
	"github.com/calderon-ai/docintel-backend/pkg/logger"
)

type documentUploadRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=128"`
}

// DocumentUpload mints a document record and returns a signed PUT URL for
// the raw file.
func DocumentUpload(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		var payload documentUploadRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.PresignUpload(r.Context(), documents.UploadInput{
			FileName:    payload.FileName,
			ContentType: payload.ContentType,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}

// DocumentAnalyze returns the analysis artifact for a completed document,
// degrading to lifecycle metadata when the artifact is not readable.
func DocumentAnalyze(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		documentID, err := validators.RequireQueryUUID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Analyze(r.Context(), documentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}
