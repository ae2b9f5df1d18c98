// internal/workers/suggestions/aggregate-suggestion-stats/config.go
package aggregatesuggestionstats

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
