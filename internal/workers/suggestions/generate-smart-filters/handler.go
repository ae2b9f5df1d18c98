// internal/workers/suggestions/generate-smart-filters/handler.go
package generatesmartfilters

import (
	"context"
	"encoding/json"

	"suggestion-workers/internal/common/camunda"
	commonerrors "suggestion-workers/internal/common/errors"
	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/common/validation"
	"suggestion-workers/internal/ranking/smartfilter"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-smart-filters"
)

var schema = validation.MustCompile(inputSchema)

type Handler struct {
	config       *Config
	generator    *smartfilter.Generator
	errorHandler *commonerrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, generator *smartfilter.Generator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		generator:    generator,
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

	camunda.CompleteJob(ctx, client, job, TaskType, h.Execute(ctx, &input), h.logger)
}

// Execute never fails; weather and cache problems only reduce the output.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	result := h.generator.Generate(ctx, input.Latitude, input.Longitude, input.UserHash)

	h.logger.Info("smart filters generated", map[string]interface{}{
		"latitude":       input.Latitude,
		"longitude":      input.Longitude,
		"fromCache":      result.FromCache,
		"weatherApplied": result.WeatherApplied,
		"degraded":       result.Degraded,
	})

	return &Output{
		Criteria:       result.Criteria,
		FromCache:      result.FromCache,
		WeatherApplied: result.WeatherApplied,
		Degraded:       result.Degraded,
	}
}
