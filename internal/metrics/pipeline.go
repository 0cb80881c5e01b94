package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline Prometheus metrics.
var (
	SummariesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paperlens",
			Name:      "summaries_total",
			Help:      "Summaries produced, by source and fallback reason",
		},
		[]string{"source", "reason"},
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "paperlens",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of local pipeline stages in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"stage"},
	)

	PapersIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paperlens",
			Name:      "papers_ingested_total",
			Help:      "Papers ingested, by outcome",
		},
		[]string{"result"}, // "created" / "updated" / "error"
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(SummariesTotal)
	prometheus.MustRegister(StageDuration)
	prometheus.MustRegister(PapersIngestedTotal)
	pipelineMetricsRegistered = true
}

// ObserveStage records the time elapsed since start for a pipeline stage.
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
