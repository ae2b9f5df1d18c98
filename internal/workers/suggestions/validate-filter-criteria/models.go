// internal/workers/suggestions/validate-filter-criteria/models.go
package validatefiltercriteria

import "suggestion-workers/internal/models"

type Input struct {
	Criteria *models.FilterCriteria `json:"criteria"`
}

type Output struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

const inputSchema = `{
	"type": "object",
	"required": ["criteria"],
	"properties": {
		"criteria": {
			"type": ["object", "null"],
			"properties": {
				"radiusMeters": {"type": "number"},
				"minRating": {"type": "number"},
				"maxRating": {"type": "number"},
				"limit": {"type": "integer"}
			}
		}
	}
}`
