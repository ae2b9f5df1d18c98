package filter

import (
	"context"
	"sort"
	"time"

	"suggestion-workers/internal/models"
	"suggestion-workers/internal/ranking/geo"
)

// less reports whether a sorts before b. center is nil when the criteria carry none.
type less func(a, b models.Suggestion, center *point) bool

type point struct{ lat, lng float64 }

var sortStrategies = map[models.SortMode]less{
	models.SortRelevance: byScoreDesc,
	models.SortScore:     byScoreDesc,
	models.SortRecent: func(a, b models.Suggestion, _ *point) bool {
		return a.CreatedAt.After(b.CreatedAt)
	},
	models.SortName: func(a, b models.Suggestion, _ *point) bool {
		return a.PlaceName < b.PlaceName
	},
	models.SortDistance: func(a, b models.Suggestion, c *point) bool {
		return geo.Distance(c.lat, c.lng, a.Latitude, a.Longitude) <
			geo.Distance(c.lat, c.lng, b.Latitude, b.Longitude)
	},
}

func byScoreDesc(a, b models.Suggestion, _ *point) bool {
	return a.Score > b.Score
}

// resolveSort picks the strategy for mode. Unknown modes and distance without a
// center fall back to relevance.
func resolveSort(c *models.FilterCriteria) (less, *point) {
	mode := models.SortRelevance
	if c.SortBy != nil {
		mode = *c.SortBy
	}

	var center *point
	if c.HasCenter() {
		center = &point{lat: *c.Latitude, lng: *c.Longitude}
	}
	if mode == models.SortDistance && center == nil {
		mode = models.SortRelevance
	}

	strategy, ok := sortStrategies[mode]
	if !ok {
		strategy = sortStrategies[models.SortRelevance]
	}
	return strategy, center
}

func sortStage(_ context.Context, in []models.Suggestion, c *models.FilterCriteria, _ time.Time) ([]models.Suggestion, error) {
	strategy, center := resolveSort(c)
	out := cloneSuggestions(in)
	sort.SliceStable(out, func(i, j int) bool {
		return strategy(out[i], out[j], center)
	})
	return out, nil
}
