// internal/workers/suggestions/aggregate-suggestion-stats/models.go
package aggregatesuggestionstats

import "suggestion-workers/internal/models"

type Input struct {
	Suggestions []models.Suggestion `json:"suggestions"`
}

type Output struct {
	Statistics map[string]interface{} `json:"statistics"`
}

const inputSchema = `{
	"type": "object",
	"required": ["suggestions"],
	"properties": {
		"suggestions": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["id", "score"],
				"properties": {
					"id": {"type": "string"},
					"score": {"type": "number"},
					"isSponsored": {"type": "boolean"}
				}
			}
		}
	}
}`
