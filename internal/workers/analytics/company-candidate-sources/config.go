// internal/workers/analytics/company-candidate-sources/config.go
package companycandidatesources

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
