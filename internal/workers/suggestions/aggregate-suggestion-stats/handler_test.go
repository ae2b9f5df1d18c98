// internal/workers/suggestions/aggregate-suggestion-stats/handler_test.go
package aggregatesuggestionstats

import (
	"encoding/json"
	"testing"
	"time"

	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/ranking/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	log := logger.NewTestLogger(t)
	agg := stats.NewAggregator(time.UTC, log).WithClock(func() time.Time { return fixedNow })
	return NewHandler(&Config{Timeout: time.Second}, agg, log)
}

func TestHandler_Execute(t *testing.T) {
	var input Input
	require.NoError(t, json.Unmarshal([]byte(`{
		"suggestions": [
			{"id": "a", "category": "cafe", "source": "google", "score": 0.1, "createdAt": "2024-06-15T08:00:00Z"},
			{"id": "b", "category": "cafe", "source": "google", "score": 0.2, "createdAt": "2024-06-10T08:00:00Z", "isSponsored": true},
			{"id": "c", "category": "park", "source": "yelp", "score": 0.3, "createdAt": "2024-05-01T08:00:00Z", "photoUrl": "x.jpg"},
			{"id": "d", "category": "park", "source": "yelp", "score": 0.4, "createdAt": "2024-06-15T00:00:00Z"}
		]
	}`), &input))

	output := createTestHandler(t).Execute(&input)

	s := output.Statistics
	assert.Equal(t, 4, s["totalCount"])
	assert.Equal(t, map[string]int{"cafe": 2, "park": 2}, s["categoryCounts"])
	assert.Equal(t, 2, s["createdToday"])
	assert.Equal(t, 3, s["createdLastWeek"])
	assert.Equal(t, 1, s["withPhotos"])
	assert.Equal(t, 1, s["sponsored"])

	scores := s["scoreStats"].(map[string]float64)
	assert.Equal(t, 0.3, scores["median"])
	assert.InDelta(t, 0.25, scores["avg"], 1e-9)
}

func TestHandler_Execute_Empty(t *testing.T) {
	output := createTestHandler(t).Execute(&Input{})
	assert.NotNil(t, output.Statistics)
	assert.Empty(t, output.Statistics)

	raw, err := json.Marshal(output)
	require.NoError(t, err)
	assert.JSONEq(t, `{"statistics": {}}`, string(raw))
}

func TestInputSchema(t *testing.T) {
	assert.Empty(t, schema.Validate(`{"suggestions": []}`))
	assert.Empty(t, schema.Validate(`{"suggestions": null}`))
	assert.NotEmpty(t, schema.Validate(`{}`))
	assert.NotEmpty(t, schema.Validate(`{"suggestions": [{"id": "a"}]}`))
}
