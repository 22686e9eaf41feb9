package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics. Labels identify the pipeline ("pricing" or "anomaly")
// and the outcome ("success" or "error").
var (
	PipelineRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fleetcli",
		Name:      "pipeline_runs_total",
		Help:      "Total number of pipeline runs by pipeline and outcome.",
	}, []string{"pipeline", "outcome"})

	PipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fleetcli",
		Name:      "pipeline_duration_seconds",
		Help:      "Duration of pipeline runs in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"pipeline"})

	PipelineRecordsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fleetcli",
		Name:      "pipeline_records_processed_total",
		Help:      "Total number of input records processed by pipeline.",
	}, []string{"pipeline"})
)

// ObservePipelineRun records the outcome and duration of one pipeline run
func ObservePipelineRun(pipeline string, seconds float64, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	PipelineRunsTotal.WithLabelValues(pipeline, outcome).Inc()
	PipelineDuration.WithLabelValues(pipeline).Observe(seconds)
}
