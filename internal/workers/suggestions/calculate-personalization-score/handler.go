// internal/workers/suggestions/calculate-personalization-score/handler.go
package calculatepersonalizationscore

import (
	"context"
	"encoding/json"
	"errors"

	"suggestion-workers/internal/common/camunda"
	commonerrors "suggestion-workers/internal/common/errors"
	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/common/validation"
	"suggestion-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-personalization-score"
)

var (
	ErrNilInput = errors.New("input cannot be nil")

	schema = validation.MustCompile(inputSchema)
)

type Scorer interface {
	Score(ctx context.Context, userID string, place models.Suggestion, prefs *models.UserPreferenceProfile) (float64, error)
}

type PreferenceProvider interface {
	GetPreferences(ctx context.Context, userID string) (*models.UserPreferenceProfile, error)
}

type Handler struct {
	config       *Config
	scorer       Scorer
	preferences  PreferenceProvider
	errorHandler *commonerrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, scorer Scorer, preferences PreferenceProvider, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		scorer:       scorer,
		preferences:  preferences,
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

	prefs := input.Preferences
	if prefs == nil && input.UserID != "" && h.preferences != nil {
		loaded, err := h.preferences.GetPreferences(ctx, input.UserID)
		if err != nil {
			return nil, commonerrors.NewPreferenceLookupFailedError(input.UserID, err)
		}
		prefs = loaded
	}

	score, err := h.scorer.Score(ctx, input.UserID, input.Place, prefs)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, commonerrors.NewDependencyTimeoutError("personalization", err)
		}
		return nil, err
	}

	h.logger.Info("personalization score calculated", map[string]interface{}{
		"userId":       input.UserID,
		"placeId":      input.Place.ID,
		"score":        score,
		"personalized": prefs != nil,
	})

	return &Output{Score: score, Personalized: prefs != nil}, nil
}

// Execute runs the scoring logic without a job client.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
