// internal/models/criteria.go
package models

import "time"

type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortDistance  SortMode = "distance"
	SortScore     SortMode = "score"
	SortRecent    SortMode = "recent"
	SortName      SortMode = "name"
)

type TimeOfDay string

const (
	TimeOfDayEarlyMorning TimeOfDay = "early_morning"
	TimeOfDayMorning      TimeOfDay = "morning"
	TimeOfDayAfternoon    TimeOfDay = "afternoon"
	TimeOfDayEvening      TimeOfDay = "evening"
	TimeOfDayNight        TimeOfDay = "night"
	TimeOfDayLateNight    TimeOfDay = "late_night"
)

type WeatherCondition string

const (
	WeatherSunny  WeatherCondition = "sunny"
	WeatherCloudy WeatherCondition = "cloudy"
	WeatherRainy  WeatherCondition = "rainy"
	WeatherSnowy  WeatherCondition = "snowy"
	WeatherWindy  WeatherCondition = "windy"
	WeatherHot    WeatherCondition = "hot"
	WeatherCold   WeatherCondition = "cold"
)

// FilterCriteria is a sparse constraint set. A nil pointer or empty slice means
// "no constraint" for that field.
type FilterCriteria struct {
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	RadiusMeters *float64 `json:"radiusMeters,omitempty"`

	IncludeCategories []string `json:"includeCategories,omitempty"`
	ExcludeCategories []string `json:"excludeCategories,omitempty"`

	MinScore  *float64 `json:"minScore,omitempty"`
	MinRating *float64 `json:"minRating,omitempty"`
	MaxRating *float64 `json:"maxRating,omitempty"`

	Keywords     []string   `json:"keywords,omitempty"`
	Sources      []string   `json:"sources,omitempty"`
	HasPhotos    *bool      `json:"hasPhotos,omitempty"`
	CreatedAfter *time.Time `json:"createdAfter,omitempty"`

	UserHash         *string `json:"userHash,omitempty"`
	MatchPreferences *bool   `json:"matchPreferences,omitempty"`

	IndoorOnly  *bool `json:"indoorOnly,omitempty"`
	OutdoorOnly *bool `json:"outdoorOnly,omitempty"`
	TrendingNow *bool `json:"trendingNow,omitempty"`

	TimeOfDay         *TimeOfDay        `json:"timeOfDay,omitempty"`
	DaysOfWeek        []time.Weekday    `json:"daysOfWeek,omitempty"`
	Weather           *WeatherCondition `json:"weather,omitempty"`
	FamilyFriendly    *bool             `json:"familyFriendly,omitempty"`
	PopularWithLocals *bool             `json:"popularWithLocals,omitempty"`

	SortBy           *SortMode `json:"sortBy,omitempty"`
	IncludeSponsored *bool     `json:"includeSponsored,omitempty"`
	Limit            *int      `json:"limit,omitempty"`
}

// HasCenter reports whether both coordinates of the geo center are present.
func (c *FilterCriteria) HasCenter() bool {
	return c != nil && c.Latitude != nil && c.Longitude != nil
}

// Enabled dereferences an optional flag; nil counts as false.
func Enabled(flag *bool) bool {
	return flag != nil && *flag
}
