// internal/workers/suggestions/calculate-personalization-score/models.go
package calculatepersonalizationscore

import "suggestion-workers/internal/models"

type Input struct {
	UserID      string                        `json:"userId"`
	Place       models.Suggestion             `json:"place"`
	Preferences *models.UserPreferenceProfile `json:"preferences,omitempty"`
}

type Output struct {
	Score float64 `json:"score"`
	// Personalized is false when no preference profile was available.
	Personalized bool `json:"personalized"`
}

const inputSchema = `{
	"type": "object",
	"required": ["userId", "place"],
	"properties": {
		"userId": {"type": "string", "minLength": 1},
		"place": {
			"type": "object",
			"required": ["id", "category"],
			"properties": {
				"id": {"type": "string"},
				"category": {"type": "string"},
				"rating": {"type": "string"}
			}
		},
		"preferences": {
			"type": ["object", "null"],
			"properties": {
				"favoriteCuisines": {"type": ["array", "null"], "items": {"type": "string"}},
				"favoriteActivityTypes": {"type": ["array", "null"], "items": {"type": "string"}},
				"avoidedActivityTypes": {"type": ["array", "null"], "items": {"type": "string"}}
			}
		}
	}
}`
