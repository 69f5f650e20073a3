// Package dataset fetches the recruitment collections a report is computed
// from. Stores only read; authorization happens before a scope reaches them.
package dataset

import (
	"context"

	"placement-analytics/internal/models"
)

const (
	CollectionDrives       = "drives"
	CollectionApplications = "applications"
	CollectionCandidates   = "candidates"
	CollectionInstitutes   = "institutes"
	CollectionCompanies    = "companies"
)

// DriveFilter selects drives. Empty fields do not filter.
type DriveFilter struct {
	CompanyID   string
	InstituteID string
	DriveID     string
}

func FilterFor(scope models.Scope) DriveFilter {
	return DriveFilter{
		CompanyID:   scope.CompanyID,
		InstituteID: scope.InstituteID,
		DriveID:     scope.DriveID,
	}
}

func (f DriveFilter) Matches(d models.Drive) bool {
	return (f.CompanyID == "" || d.Company == f.CompanyID) &&
		(f.InstituteID == "" || d.Institute == f.InstituteID) &&
		(f.DriveID == "" || d.ID == f.DriveID)
}

// Store reads the collections by id. Lookups with no ids return nothing
// without touching the backend.
type Store interface {
	Name() string
	Drives(ctx context.Context, filter DriveFilter) ([]models.Drive, error)
	Applications(ctx context.Context, driveIDs []string) ([]models.Application, error)
	Candidates(ctx context.Context, ids []string) ([]models.Candidate, error)
	Institutes(ctx context.Context, ids []string) ([]models.Institute, error)
	Companies(ctx context.Context, ids []string) ([]models.Company, error)
}
