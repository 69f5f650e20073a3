// internal/workers/analytics/search-analytics-snapshots/models.go
package searchanalyticssnapshots

import (
	"time"

	"placement-analytics/internal/models"
)

type Input struct {
	Kind        string     `json:"kind,omitempty"`
	CompanyID   string     `json:"companyId,omitempty"`
	InstituteID string     `json:"instituteId,omitempty"`
	DriveID     string     `json:"driveId,omitempty"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
	Size        int        `json:"size,omitempty"`
}

// Snapshot identifies an archived report; report bodies stay in the index.
type Snapshot struct {
	ReportID    string       `json:"reportId"`
	Kind        string       `json:"kind"`
	Scope       models.Scope `json:"scope"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

type Output struct {
	Total     int64      `json:"total"`
	Took      int64      `json:"took"` // milliseconds
	Snapshots []Snapshot `json:"snapshots"`
}
