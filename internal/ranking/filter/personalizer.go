package filter

import (
	"context"
	"time"

	"suggestion-workers/internal/models"

	"golang.org/x/sync/errgroup"
)

// TimeOfDayFilter is the hook for narrowing by the criteria's time-of-day hint.
type TimeOfDayFilter interface {
	FilterByTimeOfDay(ctx context.Context, in []models.Suggestion, c *models.FilterCriteria, now time.Time) ([]models.Suggestion, error)
}

// Personalizer is the hook for the personalization stage, active only when the
// criteria carry a user hash and ask for preference matching.
type Personalizer interface {
	Personalize(ctx context.Context, in []models.Suggestion, c *models.FilterCriteria, now time.Time) ([]models.Suggestion, error)
}

type PassThroughTimeOfDay struct{}

func (PassThroughTimeOfDay) FilterByTimeOfDay(_ context.Context, in []models.Suggestion, _ *models.FilterCriteria, _ time.Time) ([]models.Suggestion, error) {
	return in, nil
}

type PassThroughPersonalizer struct{}

func (PassThroughPersonalizer) Personalize(_ context.Context, in []models.Suggestion, _ *models.FilterCriteria, _ time.Time) ([]models.Suggestion, error) {
	return in, nil
}

// PlaceScorer is satisfied by personalization.Scorer.
type PlaceScorer interface {
	Score(ctx context.Context, userID string, place models.Suggestion, prefs *models.UserPreferenceProfile) (float64, error)
}

// PreferenceSource loads a user's profile. A nil profile with a nil error means
// the user has none.
type PreferenceSource interface {
	GetPreferences(ctx context.Context, userID string) (*models.UserPreferenceProfile, error)
}

// ScoringPersonalizer replaces each candidate's score with its personalization
// score. Candidates are scored concurrently, at most Concurrency at a time; the
// first failure cancels the rest and fails the stage.
type ScoringPersonalizer struct {
	Scorer      PlaceScorer
	Preferences PreferenceSource
	Concurrency int
}

func (p *ScoringPersonalizer) Personalize(ctx context.Context, in []models.Suggestion, c *models.FilterCriteria, _ time.Time) ([]models.Suggestion, error) {
	if c.UserHash == nil || *c.UserHash == "" || !models.Enabled(c.MatchPreferences) {
		return in, nil
	}
	userID := *c.UserHash

	prefs, err := p.Preferences.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := cloneSuggestions(in)
	g, gctx := errgroup.WithContext(ctx)
	if p.Concurrency > 0 {
		g.SetLimit(p.Concurrency)
	}

	for i := range out {
		i := i
		g.Go(func() error {
			score, err := p.Scorer.Score(gctx, userID, out[i], prefs)
			if err != nil {
				return err
			}
			out[i].Score = score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
