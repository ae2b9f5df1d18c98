// internal/workers/suggestions/filter-suggestions/handler.go
package filtersuggestions

import (
	"context"
	"encoding/json"
	"errors"

	"suggestion-workers/internal/common/camunda"
	commonerrors "suggestion-workers/internal/common/errors"
	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/common/validation"
	"suggestion-workers/internal/ranking/criteria"
	"suggestion-workers/internal/ranking/filter"
	"suggestion-workers/internal/ranking/stats"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "filter-suggestions"
)

var (
	ErrNilInput = errors.New("input cannot be nil")

	schema = validation.MustCompile(inputSchema)
)

type Handler struct {
	config       *Config
	pipeline     *filter.Pipeline
	aggregator   *stats.Aggregator
	errorHandler *commonerrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, pipeline *filter.Pipeline, aggregator *stats.Aggregator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		pipeline:     pipeline,
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

	output, err := h.execute(ctx, &input)
	if err != nil {
		camunda.FailJob(ctx, client, job, TaskType, err, h.errorHandler)
		return
	}

	camunda.CompleteJob(ctx, client, job, TaskType, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, commonerrors.NewInternalError(ErrNilInput)
	}

	if valid, violations := criteria.Validate(input.Criteria); !valid {
		return nil, commonerrors.NewValidationFailedError(violations)
	}

	result := h.pipeline.Apply(ctx, input.Candidates, input.Criteria)

	output := &Output{
		RunID:       uuid.NewString(),
		Suggestions: result.Suggestions,
		Count:       len(result.Suggestions),
		Degraded:    result.Degraded,
		FailedStage: result.FailedStage,
	}
	if input.IncludeStatistics {
		output.Statistics = h.aggregator.Aggregate(result.Suggestions)
	}

	fields := map[string]interface{}{
		"runId":       output.RunID,
		"inputCount":  len(input.Candidates),
		"outputCount": output.Count,
	}
	if result.Degraded {
		fields["failedStage"] = result.FailedStage
		h.logger.Warn("suggestions returned unfiltered", fields)
	} else {
		h.logger.Info("suggestions filtered", fields)
	}

	return output, nil
}

// Execute runs the filtering logic without a job client.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
