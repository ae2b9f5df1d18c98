package criteria

import (
	"testing"

	"suggestion-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		criteria *models.FilterCriteria
		valid    bool
		errors   []string
	}{
		{name: "nil", criteria: nil, valid: true},
		{name: "empty", criteria: &models.FilterCriteria{}, valid: true},
		{
			name: "boundaries accepted",
			criteria: &models.FilterCriteria{
				RadiusMeters: ptr(50000.0),
				MinRating:    ptr(0.0),
				MaxRating:    ptr(5.0),
				Limit:        ptr(100),
			},
			valid: true,
		},
		{name: "zero radius", criteria: &models.FilterCriteria{RadiusMeters: ptr(0.0)}, errors: []string{"radius must be greater than 0"}},
		{name: "radius too large", criteria: &models.FilterCriteria{RadiusMeters: ptr(50001.0)}, errors: []string{"radius must not exceed 50000 meters"}},
		{name: "minRating above range", criteria: &models.FilterCriteria{MinRating: ptr(5.1)}, errors: []string{"minRating must be between 0 and 5"}},
		{name: "maxRating below range", criteria: &models.FilterCriteria{MaxRating: ptr(-1.0)}, errors: []string{"maxRating must be between 0 and 5"}},
		{name: "zero limit", criteria: &models.FilterCriteria{Limit: ptr(0)}, errors: []string{"limit must be greater than 0"}},
		{name: "limit too large", criteria: &models.FilterCriteria{Limit: ptr(101)}, errors: []string{"limit must not exceed 100"}},
		{
			name:     "inverted ratings",
			criteria: &models.FilterCriteria{MinRating: ptr(4.0), MaxRating: ptr(2.0)},
			errors:   []string{"minRating must not be greater than maxRating"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := Validate(tt.criteria)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.errors, errs)
		})
	}
}

func TestValidate_ReportsAllViolations(t *testing.T) {
	_, errs := Validate(&models.FilterCriteria{RadiusMeters: ptr(0.0), Limit: ptr(101)})
	assert.Len(t, errs, 2)

	valid, errs := Validate(&models.FilterCriteria{
		RadiusMeters: ptr(50001.0),
		MinRating:    ptr(5.1),
		MaxRating:    ptr(2.0),
		Limit:        ptr(0),
	})
	assert.False(t, valid)
	assert.ElementsMatch(t, []string{
		"radius must not exceed 50000 meters",
		"minRating must be between 0 and 5",
		"minRating must not be greater than maxRating",
		"limit must be greater than 0",
	}, errs)
}
