package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records processing outcomes for the ingestion pipeline.
type PipelineMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "pipeline_duration_seconds",
		Help:      "End-to-end processing duration per document.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "pipeline_outcomes_total",
		Help:      "Documents processed by terminal outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, outcomes)
	return &PipelineMetrics{duration: duration, outcomes: outcomes}
}

// ObserveStage records how long a pipeline stage took.
func (p *PipelineMetrics) ObserveStage(stage string, d time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(stage)).Observe(d.Seconds())
}

// IncOutcome increments the counter for a terminal outcome (completed, failed, skipped).
func (p *PipelineMetrics) IncOutcome(outcome string) {
	if p == nil || p.outcomes == nil {
		return
	}
	p.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}
