// internal/workers/analytics/company-skill-demand/config.go
package companyskilldemand

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
