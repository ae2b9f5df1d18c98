// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobRecorder receives per-job timings; observability.Observability implements it.
type JobRecorder interface {
	RecordJobProcessed(ctx context.Context, taskType string)
	RecordJobDuration(ctx context.Context, duration time.Duration, taskType string)
}

type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
}

// StartWorker opens a job worker for taskType and instruments every job with
// Prometheus and OpenTelemetry timings.
func StartWorker(
	client zbc.Client,
	taskType string,
	opts WorkerOptions,
	handle worker.JobHandler,
	recorder JobRecorder,
	log logger.Logger,
) worker.JobWorker {
	instrumented := func(jc worker.JobClient, job entities.Job) {
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

		handle(jc, job)

		elapsed := time.Since(start)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		if recorder != nil {
			ctx := context.Background()
			recorder.RecordJobProcessed(ctx, taskType)
			recorder.RecordJobDuration(ctx, elapsed, taskType)
		}
	}

	step := client.NewJobWorker().
		JobType(taskType).
		Handler(instrumented).
		MaxJobsActive(opts.MaxJobsActive).
		Name(taskType)
	if opts.Timeout > 0 {
		step = step.Timeout(opts.Timeout)
	}
	jw := step.Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": opts.MaxJobsActive,
		"timeout":       opts.Timeout.String(),
	})
	return jw
}
