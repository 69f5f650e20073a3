// internal/workers/analytics/comparative-drive-analytics/config.go
package comparativedriveanalytics

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
