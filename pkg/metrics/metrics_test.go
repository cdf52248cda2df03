package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func gatheredNames(t *testing.T, reg *prometheus.Registry) map[string]bool {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}
	return names
}

func TestCronJobMetricsExportNamespacedNames(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	met := NewCronJobMetrics(reg)
	met.ObserveDuration("document-ttl", time.Second)
	met.IncSuccess("document-ttl")
	met.IncFailure("document-ttl")

	names := gatheredNames(t, reg)
	for _, want := range []string{
		"docintel_cron_job_duration_seconds",
		"docintel_cron_job_success_total",
		"docintel_cron_job_failure_total",
	} {
		if !names[want] {
			t.Fatalf("metric %s not exported, got %v", want, names)
		}
	}
}

func TestPipelineMetricsExportNamespacedNames(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	met := NewPipelineMetrics(reg)
	met.ObserveStage("analysis", time.Second)
	met.IncOutcome("completed")

	names := gatheredNames(t, reg)
	for _, want := range []string{
		"docintel_ingest_pipeline_duration_seconds",
		"docintel_ingest_pipeline_outcomes_total",
	} {
		if !names[want] {
			t.Fatalf("metric %s not exported, got %v", want, names)
		}
	}
}

func TestMetricsNilRegistererIsNoop(t *testing.T) {
	t.Parallel()

	cron := NewCronJobMetrics(nil)
	cron.ObserveDuration("document-ttl", time.Second)
	cron.IncSuccess("document-ttl")
	cron.IncFailure("document-ttl")

	pipe := NewPipelineMetrics(nil)
	pipe.ObserveStage("analysis", time.Second)
	pipe.IncOutcome("completed")
}
