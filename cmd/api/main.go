package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/calderon-ai/docintel-backend/api/controllers"
	"github.com/calderon-ai/docintel-backend/api/routes"
	"github.com/calderon-ai/docintel-backend/internal/documents"
	"github.com/calderon-ai/docintel-backend/internal/search"
	"github.com/calderon-ai/docintel-backend/pkg/config"
	"github.com/calderon-ai/docintel-backend/pkg/db"
	"github.com/calderon-ai/docintel-backend/pkg/logger"
	"github.com/calderon-ai/docintel-backend/pkg/migrate"
	"github.com/calderon-ai/docintel-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}

	documentsService, err := documents.NewService(
		documents.NewRepository(dbClient.DB()),
		gcsClient,
		logg,
		cfg.GCS.DocumentsBucket,
		cfg.Ingest.UploadPrefix,
		cfg.GCS.UploadURLExpiry,
		cfg.Documents.RecordTTL,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create documents service", err)
		os.Exit(1)
	}

	searchService, err := search.NewService(search.DemoCorpus())
	if err != nil {
		logg.Error(context.Background(), "failed to create search service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			controllers.ReadyChecks(dbClient, nil, gcsClient, nil),
			documentsService,
			searchService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
