// Package smartfilter derives default filter criteria from location, local time
// and current weather.
package smartfilter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"suggestion-workers/internal/common/cache"
	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/common/metrics"
	"suggestion-workers/internal/models"
)

const (
	DefaultTTL          = 30 * time.Minute
	DefaultRadiusMeters = 3000.0

	cacheKeyPrefix = "smart_filters"
	anonymousUser  = "anonymous"

	windyThreshold      = 20.0
	hotThreshold        = 30.0
	coldThreshold       = 5.0
	indoorFreezing      = 0.0
	indoorHeat          = 35.0
	indoorWindThreshold = 25.0
)

// WeatherProvider returns current conditions at a coordinate. Wind speed is km/h.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, lat, lng float64) (*models.WeatherSnapshot, error)
}

// Result wraps generated criteria. Degraded means generation failed and Criteria
// holds only the coordinates; WeatherApplied is false when the lookup failed.
type Result struct {
	Criteria       *models.FilterCriteria
	FromCache      bool
	WeatherApplied bool
	Degraded       bool
}

type Generator struct {
	cache         cache.Cache
	weather       WeatherProvider
	ttl           time.Duration
	defaultRadius float64
	now           func() time.Time
	location      *time.Location
	logger        logger.Logger
}

type Option func(*Generator)

func WithTTL(ttl time.Duration) Option {
	return func(g *Generator) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

func WithDefaultRadius(meters float64) Option {
	return func(g *Generator) {
		if meters > 0 {
			g.defaultRadius = meters
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLocation sets the zone used to bucket the current hour and weekday.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.location = loc
		}
	}
}

func NewGenerator(c cache.Cache, weather WeatherProvider, log logger.Logger, opts ...Option) *Generator {
	g := &Generator{
		cache:         c,
		weather:       weather,
		ttl:           DefaultTTL,
		defaultRadius: DefaultRadiusMeters,
		now:           time.Now,
		location:      time.Local,
		logger:        log.WithFields(map[string]interface{}{"component": "smart-filter-generator"}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CacheKey composes the per-location, per-user cache key.
func CacheKey(lat, lng float64, userHash string) string {
	if userHash == "" {
		userHash = anonymousUser
	}
	return fmt.Sprintf("%s:%.4f:%.4f:%s", cacheKeyPrefix, lat, lng, userHash)
}

// Generate never returns an error. Weather failures drop the weather-derived
// fields; anything else yields criteria holding only the coordinates.
func (g *Generator) Generate(ctx context.Context, lat, lng float64, userHash string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = g.minimal(lat, lng, fmt.Errorf("generation panicked: %v", r))
		}
	}()

	key := CacheKey(lat, lng, userHash)
	if cached, ok := g.lookup(ctx, key); ok {
		return Result{Criteria: cached, FromCache: true, WeatherApplied: cached.Weather != nil}
	}

	now := g.now().In(g.location)
	criteria := &models.FilterCriteria{
		Latitude:     &lat,
		Longitude:    &lng,
		RadiusMeters: ptr(g.defaultRadius),
		TimeOfDay:    ptr(TimeOfDayFor(now.Hour())),
		DaysOfWeek:   []time.Weekday{now.Weekday()},
	}
	if userHash != "" {
		criteria.UserHash = ptr(userHash)
	}
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		criteria.FamilyFriendly = ptr(true)
		criteria.PopularWithLocals = ptr(true)
	}

	weatherApplied := g.applyWeather(ctx, criteria, lat, lng)

	payload, err := json.Marshal(criteria)
	if err != nil {
		return g.minimal(lat, lng, err)
	}
	// Criteria without weather are not cached so the next call retries the lookup.
	if weatherApplied {
		if err := g.cache.Set(ctx, key, payload, g.ttl); err != nil {
			g.logger.Warn("failed to cache smart filters", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	return Result{Criteria: criteria, WeatherApplied: weatherApplied}
}

func (g *Generator) lookup(ctx context.Context, key string) (*models.FilterCriteria, bool) {
	raw, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		metrics.SmartFilterCacheRequests.WithLabelValues("error").Inc()
		g.logger.Warn("smart filter cache lookup failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}
	if !ok {
		metrics.SmartFilterCacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}

	var criteria models.FilterCriteria
	if err := json.Unmarshal(raw, &criteria); err != nil {
		metrics.SmartFilterCacheRequests.WithLabelValues("error").Inc()
		g.logger.Warn("discarding unreadable cached smart filters", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}
	metrics.SmartFilterCacheRequests.WithLabelValues("hit").Inc()
	return &criteria, true
}

func (g *Generator) applyWeather(ctx context.Context, criteria *models.FilterCriteria, lat, lng float64) bool {
	snapshot, err := g.weather.CurrentWeather(ctx, lat, lng)
	if err != nil || snapshot == nil {
		fields := map[string]interface{}{"latitude": lat, "longitude": lng}
		if err != nil {
			fields["error"] = err.Error()
		}
		g.logger.Warn("weather lookup failed, omitting weather defaults", fields)
		return false
	}

	criteria.Weather = ptr(ConditionFor(*snapshot))
	criteria.IndoorOnly = ptr(RecommendIndoor(*snapshot))
	return true
}

func (g *Generator) minimal(lat, lng float64, err error) Result {
	g.logger.Error("smart filter generation failed, returning coordinates only", map[string]interface{}{
		"latitude":  lat,
		"longitude": lng,
		"error":     err.Error(),
	})
	return Result{
		Criteria: &models.FilterCriteria{Latitude: &lat, Longitude: &lng},
		Degraded: true,
	}
}

// TimeOfDayFor buckets a local hour in [0,24).
func TimeOfDayFor(hour int) models.TimeOfDay {
	switch {
	case hour >= 6 && hour < 9:
		return models.TimeOfDayEarlyMorning
	case hour >= 9 && hour < 12:
		return models.TimeOfDayMorning
	case hour >= 12 && hour < 17:
		return models.TimeOfDayAfternoon
	case hour >= 17 && hour < 20:
		return models.TimeOfDayEvening
	case hour >= 20 && hour < 24:
		return models.TimeOfDayNight
	default:
		return models.TimeOfDayLateNight
	}
}

func ConditionFor(w models.WeatherSnapshot) models.WeatherCondition {
	switch strings.ToLower(w.Condition) {
	case "clear":
		return models.WeatherSunny
	case "clouds":
		return models.WeatherCloudy
	case "rain", "drizzle":
		return models.WeatherRainy
	case "snow":
		return models.WeatherSnowy
	}

	switch {
	case w.WindSpeed > windyThreshold:
		return models.WeatherWindy
	case w.TemperatureC > hotThreshold:
		return models.WeatherHot
	case w.TemperatureC < coldThreshold:
		return models.WeatherCold
	default:
		return models.WeatherSunny
	}
}

func RecommendIndoor(w models.WeatherSnapshot) bool {
	switch strings.ToLower(w.Condition) {
	case "rain", "snow", "thunderstorm":
		return true
	}
	return w.TemperatureC < indoorFreezing || w.TemperatureC > indoorHeat || w.WindSpeed > indoorWindThreshold
}

func ptr[T any](v T) *T { return &v }
