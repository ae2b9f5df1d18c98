// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	PipelineFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestion_pipeline_fallbacks_total",
			Help: "Filter pipeline runs that returned the unfiltered input, by failing stage",
		},
		[]string{"stage"},
	)

	SmartFilterCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smart_filter_cache_requests_total",
			Help: "Smart filter cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	ExternalSignalFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "external_signal_failures_total",
			Help: "Failed calls to weather, novelty, avoidance and preference providers",
		},
		[]string{"provider"},
	)
)
