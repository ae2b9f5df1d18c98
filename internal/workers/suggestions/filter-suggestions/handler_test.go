// internal/workers/suggestions/filter-suggestions/handler_test.go
package filtersuggestions

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	commonerrors "suggestion-workers/internal/common/errors"
	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/models"
	"suggestion-workers/internal/ranking/filter"
	"suggestion-workers/internal/ranking/stats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func createTestHandler(t *testing.T, opts ...filter.Option) *Handler {
	t.Helper()
	log := logger.NewTestLogger(t)
	opts = append([]filter.Option{filter.WithClock(func() time.Time { return fixedNow })}, opts...)
	pipeline := filter.NewPipeline(log, opts...)
	aggregator := stats.NewAggregator(time.UTC, log).WithClock(func() time.Time { return fixedNow })
	return NewHandler(createTestConfig(), pipeline, aggregator, log)
}

func ptr[T any](v T) *T { return &v }

func createTestCandidates() []models.Suggestion {
	return []models.Suggestion{
		{ID: "s1", PlaceName: "Museum of London", Category: "museum", Source: "google", Score: 0.7, CreatedAt: fixedNow.Add(-time.Hour)},
		{ID: "s2", PlaceName: "Hyde Park", Category: "park", Source: "google", Score: 0.9, IsSponsored: true, CreatedAt: fixedNow.Add(-time.Hour)},
		{ID: "s3", PlaceName: "Corner Cafe", Category: "cafe", Source: "yelp", Score: 0.4, CreatedAt: fixedNow.Add(-72 * time.Hour)},
	}
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name      string
		input     *Input
		wantIDs   []string
		wantStats bool
	}{
		{
			name:    "no criteria sorts by relevance",
			input:   &Input{Candidates: createTestCandidates()},
			wantIDs: []string{"s2", "s1", "s3"},
		},
		{
			name: "min score and sponsored exclusion",
			input: &Input{
				Candidates: createTestCandidates(),
				Criteria:   &models.FilterCriteria{MinScore: ptr(0.5), IncludeSponsored: ptr(false)},
			},
			wantIDs: []string{"s1"},
		},
		{
			name: "indoor with limit and statistics",
			input: &Input{
				Candidates:        createTestCandidates(),
				Criteria:          &models.FilterCriteria{IndoorOnly: ptr(true), Limit: ptr(1)},
				IncludeStatistics: true,
			},
			wantIDs:   []string{"s1"},
			wantStats: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t)

			output, err := h.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			assert.False(t, output.Degraded)
			assert.Equal(t, len(tt.wantIDs), output.Count)
			got := make([]string, len(output.Suggestions))
			for i, s := range output.Suggestions {
				got[i] = s.ID
			}
			assert.Equal(t, tt.wantIDs, got)

			_, err = uuid.Parse(output.RunID)
			assert.NoError(t, err)

			if tt.wantStats {
				require.NotNil(t, output.Statistics)
				assert.Equal(t, 1, output.Statistics["totalCount"])
			} else {
				assert.Nil(t, output.Statistics)
			}
		})
	}
}

func TestHandler_Execute_InvalidCriteria(t *testing.T) {
	h := createTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{
		Candidates: createTestCandidates(),
		Criteria:   &models.FilterCriteria{RadiusMeters: ptr(0.0), Limit: ptr(500)},
	})

	require.Error(t, err)
	stdErr := commonerrors.AsStandardError(err)
	assert.Equal(t, commonerrors.ErrCodeValidationFailed, stdErr.Code)
	assert.Len(t, stdErr.Metadata["violations"], 2)

	bpmn := commonerrors.ConvertToBPMNError(stdErr)
	assert.Equal(t, "INVALID_CRITERIA", bpmn.Code)
	assert.Zero(t, bpmn.Retries)
}

func TestHandler_Execute_NilInput(t *testing.T) {
	_, err := createTestHandler(t).Execute(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilInput)
}

type failingTimeFilter struct{}

func (failingTimeFilter) FilterByTimeOfDay(context.Context, []models.Suggestion, *models.FilterCriteria, time.Time) ([]models.Suggestion, error) {
	return nil, assert.AnError
}

func TestHandler_Execute_DegradedStillCompletes(t *testing.T) {
	h := createTestHandler(t, filter.WithTimeOfDayFilter(failingTimeFilter{}))
	candidates := createTestCandidates()

	output, err := h.Execute(context.Background(), &Input{
		Candidates: candidates,
		Criteria:   &models.FilterCriteria{Limit: ptr(1)},
	})

	require.NoError(t, err)
	assert.True(t, output.Degraded)
	assert.Equal(t, "time_of_day", output.FailedStage)
	assert.Equal(t, candidates, output.Suggestions)
	assert.Equal(t, 3, output.Count)
}

func TestInputSchema(t *testing.T) {
	valid, err := json.Marshal(Input{Candidates: createTestCandidates(), Criteria: &models.FilterCriteria{SortBy: ptr(models.SortName)}})
	require.NoError(t, err)

	tests := []struct {
		name      string
		variables string
		wantValid bool
	}{
		{name: "well formed", variables: string(valid), wantValid: true},
		{name: "null criteria", variables: `{"candidates": [], "criteria": null}`, wantValid: true},
		{name: "missing candidates", variables: `{"criteria": {}}`},
		{name: "candidate without id", variables: `{"candidates": [{"score": 1}]}`},
		{name: "unknown sort mode", variables: `{"candidates": [], "criteria": {"sortBy": "popularity"}}`},
		{name: "fractional limit", variables: `{"candidates": [], "criteria": {"limit": 2.5}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := schema.Validate(tt.variables)
			assert.Equal(t, tt.wantValid, len(violations) == 0, violations)
		})
	}
}
