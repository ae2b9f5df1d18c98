// internal/workers/suggestions/validate-filter-criteria/config.go
package validatefiltercriteria

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 2 * time.Second,
	}
}
