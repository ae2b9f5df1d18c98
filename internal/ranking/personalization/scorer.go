// Package personalization estimates how well a place fits one user.
package personalization

import (
	"context"
	"math"
	"strconv"
	"strings"

	commonerrors "suggestion-workers/internal/common/errors"
	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/common/metrics"
	"suggestion-workers/internal/models"

	"golang.org/x/sync/errgroup"
)

const (
	NeutralScore = 0.5

	cuisineBoost      = 0.3
	activityBoost     = 0.2
	avoidedPenalty    = 0.4
	noveltyWeight     = 0.2
	avoidanceWeight   = 0.3
	ratingWeight      = 0.1
	maxPlaceRating    = 5.0
	providerNovelty   = "novelty"
	providerAvoidance = "avoidance"
)

// NoveltyEngine estimates how unfamiliar a place is to a user, in [0,1].
type NoveltyEngine interface {
	NoveltyScore(ctx context.Context, userID string, place models.Suggestion) (float64, error)
}

// AvoidanceTracker estimates the recent-visit or poor-experience penalty, in [0,1].
type AvoidanceTracker interface {
	AvoidanceScore(ctx context.Context, userID string, place models.Suggestion) (float64, error)
}

type Scorer struct {
	novelty   NoveltyEngine
	avoidance AvoidanceTracker
	logger    logger.Logger
}

func NewScorer(novelty NoveltyEngine, avoidance AvoidanceTracker, log logger.Logger) *Scorer {
	return &Scorer{
		novelty:   novelty,
		avoidance: avoidance,
		logger:    log.WithFields(map[string]interface{}{"component": "personalization"}),
	}
}

// Score returns an affinity in [0,1]. Without preferences the result is exactly
// NeutralScore and no signal is fetched. Novelty and avoidance are fetched
// concurrently; a failure of either is returned as a DEPENDENCY_FAILED error.
func (s *Scorer) Score(ctx context.Context, userID string, place models.Suggestion, prefs *models.UserPreferenceProfile) (float64, error) {
	if prefs == nil {
		return NeutralScore, nil
	}

	score := NeutralScore
	category := strings.ToLower(place.Category)

	if containsAny(category, prefs.FavoriteCuisines) {
		score += cuisineBoost
	}
	if containsAny(category, prefs.FavoriteActivityTypes) {
		score += activityBoost
	}
	if containsAny(category, prefs.AvoidedActivityTypes) {
		score -= avoidedPenalty
	}

	novelty, avoidance, err := s.fetchSignals(ctx, userID, place)
	if err != nil {
		return 0, err
	}
	score += novelty * noveltyWeight
	score -= avoidance * avoidanceWeight

	if rating, ok := parseRating(place.Rating); ok {
		score += (rating / maxPlaceRating) * ratingWeight
	}

	clamped := clamp01(score)
	s.logger.Debug("personalization score computed", map[string]interface{}{
		"userId":    userID,
		"placeId":   place.ID,
		"raw":       score,
		"score":     clamped,
		"novelty":   novelty,
		"avoidance": avoidance,
	})
	return clamped, nil
}

func (s *Scorer) fetchSignals(ctx context.Context, userID string, place models.Suggestion) (float64, float64, error) {
	var novelty, avoidance float64
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := s.novelty.NoveltyScore(gctx, userID, place)
		if err != nil {
			metrics.ExternalSignalFailures.WithLabelValues(providerNovelty).Inc()
			return commonerrors.NewDependencyFailedError(providerNovelty, err)
		}
		novelty = sanitize(v)
		return nil
	})
	g.Go(func() error {
		v, err := s.avoidance.AvoidanceScore(gctx, userID, place)
		if err != nil {
			metrics.ExternalSignalFailures.WithLabelValues(providerAvoidance).Inc()
			return commonerrors.NewDependencyFailedError(providerAvoidance, err)
		}
		avoidance = sanitize(v)
		return nil
	})

	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return novelty, avoidance, nil
}

// containsAny matches the first non-empty label that is a substring of category.
func containsAny(category string, labels []string) bool {
	for _, label := range labels {
		label = strings.ToLower(strings.TrimSpace(label))
		if label != "" && strings.Contains(category, label) {
			return true
		}
	}
	return false
}

func parseRating(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0.0), 1.0)
}
