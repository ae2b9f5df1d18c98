// internal/workers/suggestions/generate-smart-filters/models.go
package generatesmartfilters

import "suggestion-workers/internal/models"

type Input struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	UserHash  string  `json:"userHash,omitempty"`
}

type Output struct {
	Criteria       *models.FilterCriteria `json:"criteria"`
	FromCache      bool                   `json:"fromCache"`
	WeatherApplied bool                   `json:"weatherApplied"`
	Degraded       bool                   `json:"degraded"`
}

const inputSchema = `{
	"type": "object",
	"required": ["latitude", "longitude"],
	"properties": {
		"latitude": {"type": "number", "minimum": -90, "maximum": 90},
		"longitude": {"type": "number", "minimum": -180, "maximum": 180},
		"userHash": {"type": ["string", "null"]}
	}
}`
