// internal/workers/analytics/publish-analytics-report/models.go
package publishanalyticsreport

type Input struct {
	ReportID    string `json:"reportId"`
	Kind        string `json:"kind"`
	CompanyID   string `json:"companyId,omitempty"`
	InstituteID string `json:"instituteId,omitempty"`
	DriveID     string `json:"driveId,omitempty"`
}

type Output struct {
	MessageID string `json:"messageId,omitempty"`
	Published bool   `json:"published"`
}
