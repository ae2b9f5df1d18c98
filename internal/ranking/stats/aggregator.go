// Package stats summarizes a suggestion collection for reporting.
package stats

import (
	"fmt"
	"sort"
	"time"

	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/models"
)

const lastWeekWindow = 7 * 24 * time.Hour

type Aggregator struct {
	now      func() time.Time
	location *time.Location
	logger   logger.Logger
}

// NewAggregator uses loc to decide where "today" starts. A nil loc means time.Local.
func NewAggregator(loc *time.Location, log logger.Logger) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{
		now:      time.Now,
		location: loc,
		logger:   log.WithFields(map[string]interface{}{"component": "stats-aggregator"}),
	}
}

// WithClock returns a copy of a that reads the evaluation time from now.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	clone := *a
	clone.now = now
	return &clone
}

// Aggregate returns an empty map for empty input, and also when the computation
// fails unexpectedly.
func (a *Aggregator) Aggregate(suggestions []models.Suggestion) (out map[string]interface{}) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("statistics aggregation failed", map[string]interface{}{
				"error": fmt.Sprint(r),
				"count": len(suggestions),
			})
			out = map[string]interface{}{}
		}
	}()

	if len(suggestions) == 0 {
		return map[string]interface{}{}
	}

	now := a.now().In(a.location)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.location)
	weekAgo := now.Add(-lastWeekWindow)

	categories := make(map[string]int)
	sources := make(map[string]int)
	scores := make([]float64, 0, len(suggestions))
	var withPhotos, sponsored, createdToday, createdLastWeek int
	var sum float64

	for _, s := range suggestions {
		categories[s.Category]++
		sources[s.Source]++
		scores = append(scores, s.Score)
		sum += s.Score

		if s.HasPhoto() {
			withPhotos++
		}
		if s.IsSponsored {
			sponsored++
		}
		if !s.CreatedAt.Before(midnight) {
			createdToday++
		}
		if !s.CreatedAt.Before(weekAgo) {
			createdLastWeek++
		}
	}

	sort.Float64s(scores)
	total := len(suggestions)

	return map[string]interface{}{
		"totalCount":     total,
		"categoryCounts": categories,
		"sourceCounts":   sources,
		"scoreStats": map[string]float64{
			"min":    scores[0],
			"max":    scores[total-1],
			"avg":    sum / float64(total),
			"median": scores[total/2],
		},
		"withPhotos":      withPhotos,
		"withoutPhotos":   total - withPhotos,
		"sponsored":       sponsored,
		"organic":         total - sponsored,
		"createdToday":    createdToday,
		"createdLastWeek": createdLastWeek,
	}
}
