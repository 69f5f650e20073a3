// internal/workers/analytics/company-hiring-trends/models.go
package companyhiringtrends

import (
	"encoding/json"
	"time"

	"placement-analytics/internal/models"
)

type Input struct {
	CompanyID   string `json:"companyId"`
	InstituteID string `json:"instituteId,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`
}

type Output struct {
	ReportID    string          `json:"reportId"`
	Kind        string          `json:"kind"`
	Scope       models.Scope    `json:"scope"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Cached      bool            `json:"cached"`
	Report      json.RawMessage `json:"report"`
}

func newOutput(env *models.ReportEnvelope) *Output {
	return &Output{
		ReportID:    env.ReportID,
		Kind:        string(env.Kind),
		Scope:       env.Scope,
		GeneratedAt: env.GeneratedAt,
		Cached:      env.Cached,
		Report:      env.Report,
	}
}
