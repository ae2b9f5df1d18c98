// internal/common/camunda/jobs.go
package camunda

import (
	"context"

	commonerrors "suggestion-workers/internal/common/errors"
	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// CompleteJob sends output as the job's result variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, taskType string, output interface{}, log logger.Logger) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		log.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
	log.Info("job completed", map[string]interface{}{"jobKey": job.Key})
}

// FailJob counts the failure and hands err to the ErrorHandler, which either
// retries or throws a BPMN error.
func FailJob(ctx context.Context, client worker.JobClient, job entities.Job, taskType string, err error, handler *commonerrors.ErrorHandler) {
	stdErr := commonerrors.AsStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(taskType, string(stdErr.Code)).Inc()
	handler.HandleJobError(ctx, client, job, stdErr)
}
