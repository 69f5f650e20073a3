// internal/workers/analytics/search-analytics-snapshots/config.go
package searchanalyticssnapshots

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
