package filter

import (
	"context"
	"errors"
	"testing"
	"time"

	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func createTestPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewPipeline(logger.NewTestLogger(t), opts...)
}

func suggestion(id string, score float64) models.Suggestion {
	return models.Suggestion{
		ID:        id,
		PlaceName: "Place " + id,
		Category:  "restaurant",
		Source:    "google",
		Score:     score,
		CreatedAt: fixedNow.Add(-time.Hour),
	}
}

func ids(in []models.Suggestion) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = s.ID
	}
	return out
}

func TestPipeline_StageOrder(t *testing.T) {
	p := createTestPipeline(t)
	assert.Equal(t, []string{
		"geo_radius", "category_include", "category_exclude", "min_score", "time_of_day",
		"weather", "trending", "personalization", "keywords", "sources", "photos",
		"created_after", "sort", "sponsored", "limit",
	}, p.StageNames())
}

func TestPipeline_MinScore(t *testing.T) {
	p := createTestPipeline(t)
	candidates := []models.Suggestion{
		suggestion("a", 0.2), suggestion("b", 0.5), suggestion("c", 0.9), suggestion("d", 0.49),
	}

	res := p.Apply(context.Background(), candidates, &models.FilterCriteria{MinScore: ptr(0.5)})

	require.False(t, res.Degraded)
	assert.Equal(t, []string{"c", "b"}, ids(res.Suggestions))
	for _, s := range res.Suggestions {
		assert.GreaterOrEqual(t, s.Score, 0.5)
	}
}

func TestPipeline_Limit(t *testing.T) {
	p := createTestPipeline(t)
	candidates := []models.Suggestion{
		suggestion("a", 0.1), suggestion("b", 0.2), suggestion("c", 0.3), suggestion("d", 0.4),
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "truncates", limit: 2, want: 2},
		{name: "exact", limit: 4, want: 4},
		{name: "larger than input", limit: 10, want: 4},
		{name: "non-positive ignored", limit: 0, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Apply(context.Background(), candidates, &models.FilterCriteria{Limit: ptr(tt.limit)})
			assert.Len(t, res.Suggestions, tt.want)
		})
	}
}

func TestPipeline_SponsoredRemovedAfterSort(t *testing.T) {
	p := createTestPipeline(t)
	paid := suggestion("paid", 0.9)
	paid.IsSponsored = true
	organic := suggestion("organic", 0.8)

	res := p.Apply(context.Background(), []models.Suggestion{paid, organic}, &models.FilterCriteria{
		SortBy:           ptr(models.SortScore),
		IncludeSponsored: ptr(false),
		Limit:            ptr(1),
	})

	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, "organic", res.Suggestions[0].ID)
	assert.Equal(t, 0.8, res.Suggestions[0].Score)
}

func TestPipeline_SponsoredKeptUnlessExplicitlyExcluded(t *testing.T) {
	p := createTestPipeline(t)
	paid := suggestion("paid", 0.9)
	paid.IsSponsored = true

	res := p.Apply(context.Background(), []models.Suggestion{paid}, &models.FilterCriteria{})
	assert.Len(t, res.Suggestions, 1)

	res = p.Apply(context.Background(), []models.Suggestion{paid}, &models.FilterCriteria{IncludeSponsored: ptr(true)})
	assert.Len(t, res.Suggestions, 1)
}

func TestPipeline_GeoRadius(t *testing.T) {
	p := createTestPipeline(t)
	near := suggestion("near", 0.1)
	near.Latitude, near.Longitude = 51.5080, -0.1280
	far := suggestion("far", 0.9)
	far.Latitude, far.Longitude = 48.8566, 2.3522

	criteria := &models.FilterCriteria{
		Latitude:     ptr(51.5074),
		Longitude:    ptr(-0.1278),
		RadiusMeters: ptr(1000.0),
	}
	res := p.Apply(context.Background(), []models.Suggestion{near, far}, criteria)
	assert.Equal(t, []string{"near"}, ids(res.Suggestions))

	// Without a radius the stage is inactive.
	criteria.RadiusMeters = nil
	res = p.Apply(context.Background(), []models.Suggestion{near, far}, criteria)
	assert.Len(t, res.Suggestions, 2)
}

func TestPipeline_Categories(t *testing.T) {
	p := createTestPipeline(t)
	cafe := suggestion("cafe", 0.5)
	cafe.Category = "Cafe"
	park := suggestion("park", 0.4)
	park.Category = "park"
	bar := suggestion("bar", 0.3)
	bar.Category = "bar"
	in := []models.Suggestion{cafe, park, bar}

	res := p.Apply(context.Background(), in, &models.FilterCriteria{IncludeCategories: []string{"CAFE", "park"}})
	assert.Equal(t, []string{"cafe", "park"}, ids(res.Suggestions))

	res = p.Apply(context.Background(), in, &models.FilterCriteria{ExcludeCategories: []string{"cafe"}})
	assert.Equal(t, []string{"park", "bar"}, ids(res.Suggestions))
}

func TestPipeline_IndoorOutdoor(t *testing.T) {
	p := createTestPipeline(t)
	museum := suggestion("museum", 0.5)
	museum.Category = "Museum"
	beach := suggestion("beach", 0.4)
	beach.Category = "beach"
	bar := suggestion("bar", 0.3)
	bar.Category = "bar"
	in := []models.Suggestion{museum, beach, bar}

	tests := []struct {
		name     string
		criteria *models.FilterCriteria
		want     []string
	}{
		{name: "indoor", criteria: &models.FilterCriteria{IndoorOnly: ptr(true)}, want: []string{"museum"}},
		{name: "outdoor", criteria: &models.FilterCriteria{OutdoorOnly: ptr(true)}, want: []string{"beach"}},
		{name: "both", criteria: &models.FilterCriteria{IndoorOnly: ptr(true), OutdoorOnly: ptr(true)}, want: []string{}},
		{name: "flags false", criteria: &models.FilterCriteria{IndoorOnly: ptr(false)}, want: []string{"museum", "beach", "bar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Apply(context.Background(), in, tt.criteria)
			assert.Equal(t, tt.want, ids(res.Suggestions))
		})
	}
}

func TestPipeline_TrendingAndCreatedAfter(t *testing.T) {
	p := createTestPipeline(t)
	fresh := suggestion("fresh", 0.5)
	fresh.CreatedAt = fixedNow.Add(-2 * time.Hour)
	old := suggestion("old", 0.9)
	old.CreatedAt = fixedNow.Add(-48 * time.Hour)
	in := []models.Suggestion{fresh, old}

	res := p.Apply(context.Background(), in, &models.FilterCriteria{TrendingNow: ptr(true)})
	assert.Equal(t, []string{"fresh"}, ids(res.Suggestions))

	threshold := fixedNow.Add(-48 * time.Hour)
	res = p.Apply(context.Background(), in, &models.FilterCriteria{CreatedAfter: &threshold})
	assert.Equal(t, []string{"old", "fresh"}, ids(res.Suggestions))
}

func TestPipeline_KeywordsSourcesPhotos(t *testing.T) {
	p := createTestPipeline(t)
	a := suggestion("a", 0.9)
	a.PlaceName = "Blue Bottle"
	a.Source = "yelp"
	a.PhotoURL = ptr("https://img/1.jpg")
	b := suggestion("b", 0.8)
	b.Reason = "Great COFFEE nearby"
	c := suggestion("c", 0.7)
	c.PhotoURL = ptr("")
	in := []models.Suggestion{a, b, c}

	res := p.Apply(context.Background(), in, &models.FilterCriteria{Keywords: []string{"bottle", "coffee"}})
	assert.Equal(t, []string{"a", "b"}, ids(res.Suggestions))

	res = p.Apply(context.Background(), in, &models.FilterCriteria{Sources: []string{"YELP"}})
	assert.Equal(t, []string{"a"}, ids(res.Suggestions))

	res = p.Apply(context.Background(), in, &models.FilterCriteria{HasPhotos: ptr(true)})
	assert.Equal(t, []string{"a"}, ids(res.Suggestions))
}

func TestPipeline_DoesNotMutateInput(t *testing.T) {
	p := createTestPipeline(t)
	in := []models.Suggestion{suggestion("low", 0.1), suggestion("high", 0.9)}
	snapshot := cloneSuggestions(in)

	res := p.Apply(context.Background(), in, &models.FilterCriteria{SortBy: ptr(models.SortScore)})

	assert.Equal(t, []string{"high", "low"}, ids(res.Suggestions))
	assert.Equal(t, snapshot, in)
}

func TestPipeline_NilCriteria(t *testing.T) {
	p := createTestPipeline(t)
	res := p.Apply(context.Background(), []models.Suggestion{suggestion("a", 0.1), suggestion("b", 0.2)}, nil)
	require.False(t, res.Degraded)
	assert.Equal(t, []string{"b", "a"}, ids(res.Suggestions))
}

type mockPersonalizer struct {
	mock.Mock
}

func (m *mockPersonalizer) Personalize(ctx context.Context, in []models.Suggestion, c *models.FilterCriteria, now time.Time) ([]models.Suggestion, error) {
	args := m.Called(ctx, in, c, now)
	if out := args.Get(0); out != nil {
		return out.([]models.Suggestion), args.Error(1)
	}
	return nil, args.Error(1)
}

type panickingTimeFilter struct{}

func (panickingTimeFilter) FilterByTimeOfDay(context.Context, []models.Suggestion, *models.FilterCriteria, time.Time) ([]models.Suggestion, error) {
	panic("boom")
}

func TestPipeline_FallbackReturnsOriginalInput(t *testing.T) {
	in := []models.Suggestion{suggestion("a", 0.1), suggestion("b", 0.9), suggestion("c", 0.5)}
	criteria := &models.FilterCriteria{MinScore: ptr(0.4), Limit: ptr(1)}

	t.Run("stage error", func(t *testing.T) {
		pers := new(mockPersonalizer)
		pers.On("Personalize", mock.Anything, mock.Anything, criteria, fixedNow).
			Return(nil, errors.New("scorer unavailable"))

		res := createTestPipeline(t, WithPersonalizer(pers)).Apply(context.Background(), in, criteria)

		assert.True(t, res.Degraded)
		assert.Equal(t, "personalization", res.FailedStage)
		assert.EqualError(t, res.Err, "scorer unavailable")
		assert.Equal(t, in, res.Suggestions)
		pers.AssertExpectations(t)
	})

	t.Run("stage panic", func(t *testing.T) {
		res := createTestPipeline(t, WithTimeOfDayFilter(panickingTimeFilter{})).Apply(context.Background(), in, criteria)

		assert.True(t, res.Degraded)
		assert.Equal(t, "time_of_day", res.FailedStage)
		assert.Contains(t, res.Err.Error(), "boom")
		assert.Equal(t, in, res.Suggestions)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res := createTestPipeline(t).Apply(ctx, in, criteria)

		assert.True(t, res.Degraded)
		assert.Equal(t, "geo_radius", res.FailedStage)
		assert.ErrorIs(t, res.Err, context.Canceled)
		assert.Equal(t, in, res.Suggestions)
	})
}
