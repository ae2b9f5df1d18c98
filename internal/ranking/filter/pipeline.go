// Package filter narrows, orders and truncates a candidate list against a
// FilterCriteria snapshot.
package filter

import (
	"context"
	"fmt"
	"time"

	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/common/metrics"
	"suggestion-workers/internal/models"
)

// Stage is one named step of the pipeline. Implementations return a new slice and
// never edit in.
type Stage struct {
	Name string
	Run  func(ctx context.Context, in []models.Suggestion, c *models.FilterCriteria, now time.Time) ([]models.Suggestion, error)
}

// Result carries the pipeline output. When Degraded is set, Suggestions is a copy
// of the original input and FailedStage/Err describe what went wrong.
type Result struct {
	Suggestions []models.Suggestion
	Degraded    bool
	FailedStage string
	Err         error
}

type Pipeline struct {
	stages []Stage
	now    func() time.Time
	logger logger.Logger
}

type Option func(*pipelineOptions)

type pipelineOptions struct {
	now          func() time.Time
	timeOfDay    TimeOfDayFilter
	personalizer Personalizer
}

// WithClock overrides the evaluation time source used by the trending stage.
func WithClock(now func() time.Time) Option {
	return func(o *pipelineOptions) { o.now = now }
}

func WithTimeOfDayFilter(f TimeOfDayFilter) Option {
	return func(o *pipelineOptions) { o.timeOfDay = f }
}

func WithPersonalizer(p Personalizer) Option {
	return func(o *pipelineOptions) { o.personalizer = p }
}

func NewPipeline(log logger.Logger, opts ...Option) *Pipeline {
	o := pipelineOptions{
		now:          time.Now,
		timeOfDay:    PassThroughTimeOfDay{},
		personalizer: PassThroughPersonalizer{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Pipeline{
		stages: defaultStages(o.timeOfDay, o.personalizer),
		now:    o.now,
		logger: log.WithFields(map[string]interface{}{"component": "filter-pipeline"}),
	}
}

// StageNames lists the stages in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Apply runs every stage in order. It never returns a partially filtered list: any
// stage error or panic yields a copy of candidates with Degraded set.
func (p *Pipeline) Apply(ctx context.Context, candidates []models.Suggestion, criteria *models.FilterCriteria) (result Result) {
	if criteria == nil {
		criteria = &models.FilterCriteria{}
	}

	current := ""
	defer func() {
		if r := recover(); r != nil {
			result = p.fallback(candidates, current, fmt.Errorf("stage panicked: %v", r))
		}
	}()

	now := p.now()
	working := cloneSuggestions(candidates)

	for _, stage := range p.stages {
		current = stage.Name
		if err := ctx.Err(); err != nil {
			return p.fallback(candidates, current, err)
		}

		next, err := stage.Run(ctx, working, criteria, now)
		if err != nil {
			return p.fallback(candidates, current, err)
		}
		working = next
	}

	p.logger.Debug("pipeline completed", map[string]interface{}{
		"inputCount":  len(candidates),
		"outputCount": len(working),
	})
	return Result{Suggestions: working}
}

func (p *Pipeline) fallback(candidates []models.Suggestion, stage string, err error) Result {
	metrics.PipelineFallbacks.WithLabelValues(stage).Inc()
	p.logger.Error("filter pipeline failed, returning unfiltered input", map[string]interface{}{
		"stage":      stage,
		"error":      err.Error(),
		"inputCount": len(candidates),
	})
	return Result{
		Suggestions: cloneSuggestions(candidates),
		Degraded:    true,
		FailedStage: stage,
		Err:         err,
	}
}

func cloneSuggestions(in []models.Suggestion) []models.Suggestion {
	out := make([]models.Suggestion, len(in))
	copy(out, in)
	return out
}
