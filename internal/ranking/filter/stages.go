package filter

import (
	"context"
	"strings"
	"time"

	"suggestion-workers/internal/models"
	"suggestion-workers/internal/ranking/geo"
)

const trendingWindow = 24 * time.Hour

var indoorCategories = categorySet("museum", "shopping", "cafe", "restaurant", "mall", "cinema", "theater", "gallery")

var outdoorCategories = categorySet("park", "beach", "hiking", "sports", "garden", "playground", "zoo", "tourist_attraction")

func defaultStages(tod TimeOfDayFilter, pers Personalizer) []Stage {
	return []Stage{
		{Name: "geo_radius", Run: predicateStage(geoRadius)},
		{Name: "category_include", Run: predicateStage(categoryInclude)},
		{Name: "category_exclude", Run: predicateStage(categoryExclude)},
		{Name: "min_score", Run: predicateStage(minScore)},
		{Name: "time_of_day", Run: tod.FilterByTimeOfDay},
		{Name: "weather", Run: predicateStage(weatherFit)},
		{Name: "trending", Run: predicateStage(trending)},
		{Name: "personalization", Run: pers.Personalize},
		{Name: "keywords", Run: predicateStage(keywords)},
		{Name: "sources", Run: predicateStage(sources)},
		{Name: "photos", Run: predicateStage(photos)},
		{Name: "created_after", Run: predicateStage(createdAfter)},
		{Name: "sort", Run: sortStage},
		{Name: "sponsored", Run: predicateStage(sponsored)},
		{Name: "limit", Run: limitStage},
	}
}

// predicate returns nil when the criteria leave the stage inactive.
type predicate func(c *models.FilterCriteria, now time.Time) func(models.Suggestion) bool

func predicateStage(build predicate) func(context.Context, []models.Suggestion, *models.FilterCriteria, time.Time) ([]models.Suggestion, error) {
	return func(_ context.Context, in []models.Suggestion, c *models.FilterCriteria, now time.Time) ([]models.Suggestion, error) {
		keep := build(c, now)
		if keep == nil {
			return in, nil
		}
		out := make([]models.Suggestion, 0, len(in))
		for _, s := range in {
			if keep(s) {
				out = append(out, s)
			}
		}
		return out, nil
	}
}

func geoRadius(c *models.FilterCriteria, _ time.Time) func(models.Suggestion) bool {
	if !c.HasCenter() || c.RadiusMeters == nil {
		return nil
	}
	lat, lng, radius := *c.Latitude, *c.Longitude, *c.RadiusMeters
	return func(s models.Suggestion) bool {
		return geo.Distance(lat, lng, s.Latitude, s.Longitude) <= radius
	}
}

func categoryInclude(c *models.FilterCriteria, _ time.Time) func(models.Suggestion) bool {
	if len(c.IncludeCategories) == 0 {
		return nil
	}
	return func(s models.Suggestion) bool {
		return equalsAny(s.Category, c.IncludeCategories)
	}
}

func categoryExclude(c *models.FilterCriteria, _ time.Time) func(models.Suggestion) bool {
	if len(c.ExcludeCategories) == 0 {
		return nil
	}
	return func(s models.Suggestion) bool {
		return !equalsAny(s.Category, c.ExcludeCategories)
	}
}

func minScore(c *models.FilterCriteria, _ time.Time) func(models.Suggestion) bool {
	if c.MinScore == nil {
		return nil
	}
	threshold := *c.MinScore
	return func(s models.Suggestion) bool {
		return s.Score >= threshold
	}
}

// weatherFit applies indoorOnly then outdoorOnly; setting both leaves nothing.
func weatherFit(c *models.FilterCriteria, _ time.Time) func(models.Suggestion) bool {
	indoor, outdoor := models.Enabled(c.IndoorOnly), models.Enabled(c.OutdoorOnly)
	if !indoor && !outdoor {
		return nil
	}
	return func(s models.Suggestion) bool {
		category := strings.ToLower(s.Category)
		if indoor && !indoorCategories[category] {
			return false
		}
		if outdoor && !outdoorCategories[category] {
			return false
		}
		return true
	}
}

func trending(c *models.FilterCriteria, now time.Time) func(models.Suggestion) bool {
	if !models.Enabled(c.TrendingNow) {
		return nil
	}
	cutoff := now.Add(-trendingWindow)
	return func(s models.Suggestion) bool {
		return !s.CreatedAt.Before(cutoff)
	}
}

func keywords(c *models.FilterCriteria, _ time.Time) func(models.Suggestion) bool {
	terms := lowerNonEmpty(c.Keywords)
	if len(terms) == 0 {
		return nil
	}
	return func(s models.Suggestion) bool {
		name := strings.ToLower(s.PlaceName)
		category := strings.ToLower(s.Category)
		reason := strings.ToLower(s.Reason)
		for _, kw := range terms {
			if strings.Contains(name, kw) || strings.Contains(category, kw) || strings.Contains(reason, kw) {
				return true
			}
		}
		return false
	}
}

func sources(c *models.FilterCriteria, _ time.Time) func(models.Suggestion) bool {
	if len(c.Sources) == 0 {
		return nil
	}
	return func(s models.Suggestion) bool {
		return equalsAny(s.Source, c.Sources)
	}
}

func photos(c *models.FilterCriteria, _ time.Time) func(models.Suggestion) bool {
	if !models.Enabled(c.HasPhotos) {
		return nil
	}
	return models.Suggestion.HasPhoto
}

func createdAfter(c *models.FilterCriteria, _ time.Time) func(models.Suggestion) bool {
	if c.CreatedAfter == nil {
		return nil
	}
	threshold := *c.CreatedAfter
	return func(s models.Suggestion) bool {
		return !s.CreatedAt.Before(threshold)
	}
}

// sponsored drops paid placements only when inclusion is explicitly disabled.
func sponsored(c *models.FilterCriteria, _ time.Time) func(models.Suggestion) bool {
	if c.IncludeSponsored == nil || *c.IncludeSponsored {
		return nil
	}
	return func(s models.Suggestion) bool {
		return !s.IsSponsored
	}
}

// limitStage ignores non-positive limits; bounds are enforced by criteria validation.
func limitStage(_ context.Context, in []models.Suggestion, c *models.FilterCriteria, _ time.Time) ([]models.Suggestion, error) {
	if c.Limit == nil || *c.Limit <= 0 || len(in) <= *c.Limit {
		return in, nil
	}
	return in[:*c.Limit], nil
}

func equalsAny(value string, set []string) bool {
	for _, candidate := range set {
		if strings.EqualFold(value, candidate) {
			return true
		}
	}
	return false
}

func lowerNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func categorySet(labels ...string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	return set
}
