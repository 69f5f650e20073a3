// internal/workers/analytics/publish-analytics-report/config.go
package publishanalyticsreport

import "time"

type Config struct {
	Timeout time.Duration
	Enabled bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Enabled: true,
	}
}
