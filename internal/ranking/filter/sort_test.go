package filter

import (
	"context"
	"testing"
	"time"

	"suggestion-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSortStage(t *testing.T) {
	alpha := suggestion("alpha", 0.5)
	alpha.PlaceName = "alpha"
	alpha.Latitude, alpha.Longitude = 10.0, 10.0
	alpha.CreatedAt = fixedNow.Add(-3 * time.Hour)

	beta := suggestion("beta", 0.9)
	beta.PlaceName = "Beta"
	beta.Latitude, beta.Longitude = 1.0, 1.0
	beta.CreatedAt = fixedNow.Add(-2 * time.Hour)

	gamma := suggestion("gamma", 0.5)
	gamma.PlaceName = "gamma"
	gamma.Latitude, gamma.Longitude = 5.0, 5.0
	gamma.CreatedAt = fixedNow.Add(-time.Hour)

	in := []models.Suggestion{alpha, beta, gamma}

	tests := []struct {
		name     string
		criteria *models.FilterCriteria
		want     []string
	}{
		{name: "default is relevance", criteria: &models.FilterCriteria{}, want: []string{"beta", "alpha", "gamma"}},
		{name: "score keeps ties stable", criteria: &models.FilterCriteria{SortBy: ptr(models.SortScore)}, want: []string{"beta", "alpha", "gamma"}},
		{name: "recent", criteria: &models.FilterCriteria{SortBy: ptr(models.SortRecent)}, want: []string{"gamma", "beta", "alpha"}},
		{name: "name is ordinal", criteria: &models.FilterCriteria{SortBy: ptr(models.SortName)}, want: []string{"beta", "alpha", "gamma"}},
		{
			name:     "distance from center",
			criteria: &models.FilterCriteria{SortBy: ptr(models.SortDistance), Latitude: ptr(0.0), Longitude: ptr(0.0)},
			want:     []string{"beta", "gamma", "alpha"},
		},
		{name: "distance without center falls back", criteria: &models.FilterCriteria{SortBy: ptr(models.SortDistance)}, want: []string{"beta", "alpha", "gamma"}},
		{name: "unknown mode falls back", criteria: &models.FilterCriteria{SortBy: ptr(models.SortMode("popularity"))}, want: []string{"beta", "alpha", "gamma"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := sortStage(context.Background(), in, tt.criteria, fixedNow)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ids(out))
			assert.Equal(t, "alpha", in[0].ID)
		})
	}
}
