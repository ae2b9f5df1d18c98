// internal/workers/suggestions/validate-filter-criteria/handler.go
package validatefiltercriteria

import (
	"context"
	"encoding/json"

	"suggestion-workers/internal/common/camunda"
	commonerrors "suggestion-workers/internal/common/errors"
	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/common/validation"
	"suggestion-workers/internal/ranking/criteria"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-filter-criteria"
)

var schema = validation.MustCompile(inputSchema)

type Handler struct {
	config       *Config
	errorHandler *commonerrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		errorHandler: commonerrors.NewErrorHandler(log),
		logger:       log,
	}
}

// Handle completes the job for rule violations too; the result is a verdict,
// not a gate. Only malformed variables fail the job.
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
	valid, errs := criteria.Validate(input.Criteria)
	if errs == nil {
		errs = []string{}
	}
	if !valid {
		h.logger.Info("criteria rejected", map[string]interface{}{"errors": errs})
	}
	return &Output{Valid: valid, Errors: errs}
}
