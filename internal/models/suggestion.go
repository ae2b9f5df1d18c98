// internal/models/suggestion.go
package models

import "time"

// Suggestion is a single candidate place. Values are treated as immutable snapshots;
// ranking code copies slices instead of editing them in place.
type Suggestion struct {
	ID             string     `json:"id"`
	PlaceName      string     `json:"placeName"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	Category       string     `json:"category"`
	Source         string     `json:"source"`
	Reason         string     `json:"reason"`
	Score          float64    `json:"score"`
	Rating         string     `json:"rating,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UserHash       *string    `json:"userHash,omitempty"`
	IsSponsored    bool       `json:"isSponsored"`
	SponsoredUntil *time.Time `json:"sponsoredUntil,omitempty"`
	PhotoURL       *string    `json:"photoUrl,omitempty"`
}

// HasPhoto reports whether the suggestion carries a non-empty photo reference.
func (s Suggestion) HasPhoto() bool {
	return s.PhotoURL != nil && *s.PhotoURL != ""
}
