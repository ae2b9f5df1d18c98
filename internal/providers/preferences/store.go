// Package preferences loads user preference profiles from Postgres with a Redis
// read-through cache in front.
package preferences

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"suggestion-workers/internal/common/cache"
	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/models"
)

const profileQuery = `
	SELECT favorite_cuisines, favorite_activities, avoided_activities
	FROM user_preferences
	WHERE user_id = $1`

const cacheKeyPrefix = "user_preferences:"

type Store struct {
	db     *sql.DB
	cache  cache.Cache
	ttl    time.Duration
	logger logger.Logger
}

func NewStore(db *sql.DB, c cache.Cache, ttl time.Duration, log logger.Logger) *Store {
	return &Store{
		db:     db,
		cache:  c,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"provider": "preferences"}),
	}
}

// GetPreferences returns (nil, nil) when the user has no stored profile.
func (s *Store) GetPreferences(ctx context.Context, userID string) (*models.UserPreferenceProfile, error) {
	key := cacheKeyPrefix + userID

	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("preference cache lookup failed", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	} else if ok {
		var profile models.UserPreferenceProfile
		if err := json.Unmarshal(raw, &profile); err == nil {
			return &profile, nil
		}
	}

	profile, err := s.load(ctx, userID)
	if err != nil || profile == nil {
		return nil, err
	}

	if payload, err := json.Marshal(profile); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
			s.logger.Warn("failed to cache preferences", map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			})
		}
	}
	return profile, nil
}

func (s *Store) load(ctx context.Context, userID string) (*models.UserPreferenceProfile, error) {
	var cuisines, activities, avoided []byte
	err := s.db.QueryRowContext(ctx, profileQuery, userID).Scan(&cuisines, &activities, &avoided)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}

	profile := &models.UserPreferenceProfile{}
	for _, col := range []struct {
		raw  []byte
		dest *[]string
		name string
	}{
		{cuisines, &profile.FavoriteCuisines, "favorite_cuisines"},
		{activities, &profile.FavoriteActivityTypes, "favorite_activities"},
		{avoided, &profile.AvoidedActivityTypes, "avoided_activities"},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return nil, fmt.Errorf("decode %s: %w", col.name, err)
		}
	}
	return profile, nil
}
