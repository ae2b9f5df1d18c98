// internal/workers/suggestions/calculate-personalization-score/config.go
package calculatepersonalizationscore

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
