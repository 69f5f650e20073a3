// internal/workers/analytics/company-hiring-trends/config.go
package companyhiringtrends

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
