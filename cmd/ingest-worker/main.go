package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/calderon-ai/docintel-backend/internal/analysis"
	"github.com/calderon-ai/docintel-backend/internal/analytics"
	"github.com/calderon-ai/docintel-backend/internal/documents"
	"github.com/calderon-ai/docintel-backend/internal/extraction"
	"github.com/calderon-ai/docintel-backend/internal/ingestion"
	"github.com/calderon-ai/docintel-backend/pkg/bigquery"
	"github.com/calderon-ai/docintel-backend/pkg/config"
	"github.com/calderon-ai/docintel-backend/pkg/db"
	"github.com/calderon-ai/docintel-backend/pkg/logger"
	"github.com/calderon-ai/docintel-backend/pkg/metrics"
	"github.com/calderon-ai/docintel-backend/pkg/migrate"
	"github.com/calderon-ai/docintel-backend/pkg/pubsub"
	"github.com/calderon-ai/docintel-backend/pkg/storage/gcs"
	"github.com/calderon-ai/docintel-backend/pkg/vertex"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "ingest-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "ingest-worker"

	logg = logger.New(logger.Options{
		ServiceName: "ingest-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	requireResource(ctx, logg, "object storage", err)

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer pubsubClient.Close()

	vertexClient, err := vertex.NewClient(context.Background(), cfg.GCP, cfg.Vertex, logg)
	requireResource(ctx, logg, "vertex", err)
	defer vertexClient.Close()

	provider, err := analysis.NewVertexProvider(vertexClient, logg)
	requireResource(ctx, logg, "analysis provider", err)

	// Analytics is best-effort: run without it rather than refuse to start.
	// The recorder stays a nil interface unless the writer actually came up,
	// so the pipeline skips recording instead of warning on every document.
	var events ingestion.EventRecorder
	bigqueryClient, err := bigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
	if err != nil {
		logg.Warn(ctx, "bigquery unavailable, processed-document events disabled")
	} else {
		defer bigqueryClient.Close()
		writer, err := analytics.NewWriter(bigqueryClient, cfg.BigQuery.ProcessedEventsTable)
		requireResource(ctx, logg, "analytics writer", err)
		events = writer
	}

	pipeline, err := ingestion.NewPipeline(
		documents.NewRepository(dbClient.DB()),
		gcsClient,
		provider,
		extraction.NewReportExtractor(extraction.DefaultConfig()),
		ingestion.DemoTextSource(),
		events,
		metrics.NewPipelineMetrics(prometheus.DefaultRegisterer),
		logg,
		ingestion.Config{
			UploadPrefix:    cfg.Ingest.UploadPrefix,
			ProcessedPrefix: cfg.Ingest.ProcessedPrefix,
			ProcessedBucket: cfg.GCS.ProcessedBucket,
			SampleBytes:     cfg.Ingest.SampleBytes,
			PreviewChars:    cfg.Ingest.PreviewChars,
			MaxListEntries:  cfg.Ingest.MaxListEntries,
			LanguageCode:    cfg.Vertex.LanguageCode,
			RecordTTL:       cfg.Documents.RecordTTL,
		},
	)
	requireResource(ctx, logg, "ingestion pipeline", err)

	consumer, err := ingestion.NewConsumer(pipeline, pubsubClient.UploadsSubscription(), logg)
	requireResource(ctx, logg, "upload consumer", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"serviceKind": cfg.Service.Kind,
		"env":         cfg.App.Env,
	})
	logg.Info(runCtx, "ingest worker ready")

	if err := consumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "ingest worker not working", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
