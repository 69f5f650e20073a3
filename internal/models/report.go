// internal/models/report.go
package models

import (
	"encoding/json"
	"time"
)

type ReportKind string

const (
	ReportCompanyAnalytics   ReportKind = "company_analytics"
	ReportHiringTrends       ReportKind = "hiring_trends"
	ReportSkillDemand        ReportKind = "skill_demand"
	ReportCandidateSources   ReportKind = "candidate_sources"
	ReportDriveAnalytics     ReportKind = "drive_analytics"
	ReportComparativeDrives  ReportKind = "comparative_drives"
	ReportInstituteAnalytics ReportKind = "institute_analytics"
)

var ReportKinds = []ReportKind{
	ReportCompanyAnalytics,
	ReportHiringTrends,
	ReportSkillDemand,
	ReportCandidateSources,
	ReportDriveAnalytics,
	ReportComparativeDrives,
	ReportInstituteAnalytics,
}

func (k ReportKind) Valid() bool {
	for _, known := range ReportKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ReportEnvelope wraps a computed report with its identity and scope.
type ReportEnvelope struct {
	ReportID    string          `json:"reportId"`
	Kind        ReportKind      `json:"kind"`
	Scope       Scope           `json:"scope"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Cached      bool            `json:"cached"`
	Report      json.RawMessage `json:"report"`
}
