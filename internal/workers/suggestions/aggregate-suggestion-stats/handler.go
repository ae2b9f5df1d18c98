// internal/workers/suggestions/aggregate-suggestion-stats/handler.go
package aggregatesuggestionstats

import (
	"context"
	"encoding/json"

	"suggestion-workers/internal/common/camunda"
	commonerrors "suggestion-workers/internal/common/errors"
	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/common/validation"
	"suggestion-workers/internal/ranking/stats"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "aggregate-suggestion-stats"
)

var schema = validation.MustCompile(inputSchema)

type Handler struct {
	config       *Config
	aggregator   *stats.Aggregator
	errorHandler *commonerrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, aggregator *stats.Aggregator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		aggregator:   aggregator,
		errorHandler: commonerrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if violations := schema.Validate(job.Variables); len(violations) > 0 {
		camunda.FailJob(ctx, client, job, TaskType, commonerrors.NewSchemaValidationFailedError(violations), h.errorHandler)
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		camunda.FailJob(ctx, client, job, TaskType, commonerrors.NewParseError(err), h.errorHandler)
		return
	}

	camunda.CompleteJob(ctx, client, job, TaskType, h.Execute(&input), h.logger)
}

func (h *Handler) Execute(input *Input) *Output {
	statistics := h.aggregator.Aggregate(input.Suggestions)
	h.logger.Debug("statistics aggregated", map[string]interface{}{
		"count": len(input.Suggestions),
		"keys":  len(statistics),
	})
	return &Output{Statistics: statistics}
}
