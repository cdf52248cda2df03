package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calderon-ai/docintel-backend/api/controllers"
	"github.com/calderon-ai/docintel-backend/api/middleware"
	"github.com/calderon-ai/docintel-backend/internal/documents"
	"github.com/calderon-ai/docintel-backend/internal/search"
	"github.com/calderon-ai/docintel-backend/pkg/config"
	"github.com/calderon-ai/docintel-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readyChecks map[string]controllers.Pinger,
	documentsService documents.Service,
	searchService search.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyChecks))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/documents", func(r chi.Router) {
			r.Post("/upload", controllers.DocumentUpload(documentsService, logg))
			r.Get("/analyze", controllers.DocumentAnalyze(documentsService, logg))
		})
		r.Get("/search", controllers.Search(searchService, logg))
	})

	return r
}
