// internal/models/dataset.go
package models

import "fmt"

// Dataset is the pre-fetched set of collections a report is computed from.
type Dataset struct {
	Drives       []Drive       `json:"drives"`
	Applications []Application `json:"applications"`
	Candidates   []Candidate   `json:"candidates"`
	Institutes   []Institute   `json:"institutes"`
	Companies    []Company     `json:"companies,omitempty"`
}

// Scope selects the records a report covers.
type Scope struct {
	CompanyID   string `json:"companyId,omitempty"`
	InstituteID string `json:"instituteId,omitempty"`
	DriveID     string `json:"driveId,omitempty"`
	Year        int    `json:"year,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

// CacheKey renders the scope as a stable key fragment.
func (s Scope) CacheKey() string {
	return fmt.Sprintf("company=%s:institute=%s:drive=%s:year=%d:limit=%d",
		s.CompanyID, s.InstituteID, s.DriveID, s.Year, s.Limit)
}
