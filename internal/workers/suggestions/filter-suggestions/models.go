// internal/workers/suggestions/filter-suggestions/models.go
package filtersuggestions

import "suggestion-workers/internal/models"

type Input struct {
	Candidates        []models.Suggestion    `json:"candidates"`
	Criteria          *models.FilterCriteria `json:"criteria,omitempty"`
	IncludeStatistics bool                   `json:"includeStatistics"`
}

type Output struct {
	RunID       string                 `json:"runId"`
	Suggestions []models.Suggestion    `json:"suggestions"`
	Count       int                    `json:"count"`
	Degraded    bool                   `json:"degraded"`
	FailedStage string                 `json:"failedStage,omitempty"`
	Statistics  map[string]interface{} `json:"statistics,omitempty"`
}

const inputSchema = `{
	"type": "object",
	"required": ["candidates"],
	"properties": {
		"candidates": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "score"],
				"properties": {
					"id": {"type": "string"},
					"latitude": {"type": "number", "minimum": -90, "maximum": 90},
					"longitude": {"type": "number", "minimum": -180, "maximum": 180},
					"score": {"type": "number"},
					"createdAt": {"type": "string"}
				}
			}
		},
		"criteria": {
			"type": ["object", "null"],
			"properties": {
				"latitude": {"type": "number", "minimum": -90, "maximum": 90},
				"longitude": {"type": "number", "minimum": -180, "maximum": 180},
				"radiusMeters": {"type": "number"},
				"minScore": {"type": "number"},
				"limit": {"type": "integer"},
				"sortBy": {"enum": ["relevance", "distance", "score", "recent", "name"]},
				"includeCategories": {"type": "array", "items": {"type": "string"}},
				"excludeCategories": {"type": "array", "items": {"type": "string"}},
				"keywords": {"type": "array", "items": {"type": "string"}},
				"sources": {"type": "array", "items": {"type": "string"}}
			}
		},
		"includeStatistics": {"type": "boolean"}
	}
}`
