// internal/workers/suggestions/generate-smart-filters/config.go
package generatesmartfilters

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
