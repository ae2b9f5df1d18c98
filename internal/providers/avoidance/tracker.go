// Package avoidance penalizes places a user visited recently or rated poorly.
package avoidance

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/models"
)

const (
	perVisitPenalty   = 0.25
	poorRatingPenalty = 0.5
	poorRatingBelow   = 2.5
)

const recentVisitsQuery = `
	SELECT COUNT(*), AVG(rating)
	FROM place_visits
	WHERE user_id = $1 AND place_id = $2 AND visited_at >= $3`

type Tracker struct {
	db     *sql.DB
	window time.Duration
	now    func() time.Time
	logger logger.Logger
}

func NewTracker(db *sql.DB, windowDays int, log logger.Logger) *Tracker {
	return &Tracker{
		db:     db,
		window: time.Duration(windowDays) * 24 * time.Hour,
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"provider": "avoidance"}),
	}
}

// AvoidanceScore grows by 0.25 per visit inside the window, capped at 1, and adds
// 0.5 when the average rating of those visits is below 2.5.
func (t *Tracker) AvoidanceScore(ctx context.Context, userID string, place models.Suggestion) (float64, error) {
	since := t.now().Add(-t.window)

	var visits int
	var avgRating sql.NullFloat64
	err := t.db.QueryRowContext(ctx, recentVisitsQuery, userID, place.ID, since).Scan(&visits, &avgRating)
	if err != nil {
		return 0, fmt.Errorf("query recent visits: %w", err)
	}

	score := math.Min(1.0, float64(visits)*perVisitPenalty)
	if avgRating.Valid && avgRating.Float64 < poorRatingBelow {
		score += poorRatingPenalty
	}
	score = math.Min(score, 1.0)

	t.logger.Debug("avoidance computed", map[string]interface{}{
		"userId":  userID,
		"placeId": place.ID,
		"visits":  visits,
		"score":   score,
	})
	return score, nil
}
