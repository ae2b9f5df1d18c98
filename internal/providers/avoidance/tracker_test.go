package avoidance

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func setupMockDB(t *testing.T) (*Tracker, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tracker := NewTracker(db, 30, logger.NewTestLogger(t))
	tracker.now = func() time.Time { return fixedNow }
	return tracker, mock
}

func TestAvoidanceScore(t *testing.T) {
	tests := []struct {
		name   string
		visits int
		avg    interface{}
		want   float64
	}{
		{name: "no visits", visits: 0, avg: nil, want: 0},
		{name: "one good visit", visits: 1, avg: 4.5, want: 0.25},
		{name: "two poor visits", visits: 2, avg: 1.5, want: 1.0},
		{name: "one poor visit", visits: 1, avg: 2.0, want: 0.75},
		{name: "many visits capped", visits: 9, avg: 5.0, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, mock := setupMockDB(t)
			mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), AVG(rating)")).
				WithArgs("user-1", "place-1", fixedNow.Add(-30*24*time.Hour)).
				WillReturnRows(sqlmock.NewRows([]string{"count", "avg"}).AddRow(tt.visits, tt.avg))

			score, err := tracker.AvoidanceScore(context.Background(), "user-1", models.Suggestion{ID: "place-1"})

			require.NoError(t, err)
			assert.InDelta(t, tt.want, score, 1e-9)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAvoidanceScore_QueryError(t *testing.T) {
	tracker, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("connection reset"))

	_, err := tracker.AvoidanceScore(context.Background(), "user-1", models.Suggestion{ID: "place-1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
