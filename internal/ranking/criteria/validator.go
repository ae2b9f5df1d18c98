// Package criteria checks FilterCriteria numeric fields against their bounds.
package criteria

import (
	"fmt"

	"suggestion-workers/internal/models"
)

const (
	MaxRadiusMeters = 50000.0
	MinRating       = 0.0
	MaxRating       = 5.0
	MaxLimit        = 100
)

// Validate reports every violated rule, not only the first. A nil criteria is valid.
func Validate(c *models.FilterCriteria) (bool, []string) {
	if c == nil {
		return true, nil
	}

	var errs []string

	if c.RadiusMeters != nil {
		if *c.RadiusMeters <= 0 {
			errs = append(errs, "radius must be greater than 0")
		}
		if *c.RadiusMeters > MaxRadiusMeters {
			errs = append(errs, fmt.Sprintf("radius must not exceed %.0f meters", MaxRadiusMeters))
		}
	}

	if c.MinRating != nil && outOfRatingRange(*c.MinRating) {
		errs = append(errs, fmt.Sprintf("minRating must be between %.0f and %.0f", MinRating, MaxRating))
	}
	if c.MaxRating != nil && outOfRatingRange(*c.MaxRating) {
		errs = append(errs, fmt.Sprintf("maxRating must be between %.0f and %.0f", MinRating, MaxRating))
	}
	if c.MinRating != nil && c.MaxRating != nil && *c.MinRating > *c.MaxRating {
		errs = append(errs, "minRating must not be greater than maxRating")
	}

	if c.Limit != nil {
		if *c.Limit <= 0 {
			errs = append(errs, "limit must be greater than 0")
		}
		if *c.Limit > MaxLimit {
			errs = append(errs, fmt.Sprintf("limit must not exceed %d", MaxLimit))
		}
	}

	return len(errs) == 0, errs
}

func outOfRatingRange(v float64) bool {
	return v < MinRating || v > MaxRating
}
