package analytics

import (
	"time"

	"placement-analytics/internal/models"
)

type Overview struct {
	TotalHired            int     `json:"totalHired"`
	TotalApplicants       int     `json:"totalApplicants"`
	OverallAcceptanceRate float64 `json:"overallAcceptanceRate"`
	TotalDrives           int     `json:"totalDrives"`
	AverageSalary         float64 `json:"averageSalary"`
	HighestSalary         float64 `json:"highestSalary"`
}

// CompanyReport is the full analytics payload for one company's drives.
type CompanyReport struct {
	Overview                Overview               `json:"overview"`
	YearwiseStats           []YearwiseStat         `json:"yearwiseStats"`
	CandidateEducationStats EducationStats         `json:"candidateEducationStats"`
	CandidateSkillStats     SkillStats             `json:"candidateSkillStats"`
	CandidateWorkStats      WorkStats              `json:"candidateWorkStats"`
	DriveStats              DriveStats             `json:"driveStats"`
	InstituteRelationStats  InstituteRelationStats `json:"instituteRelationStats"`
	ApplicationFunnelStats  FunnelStats            `json:"applicationFunnelStats"`
	SalaryStats             SalaryStats            `json:"salaryStats"`
	TopScoringCandidates    []TopScorer            `json:"topScoringCandidates"`
}

// BuildCompanyReport composes every per-dimension reducer over a company
// dataset. Yearwise, candidate and salary figures cover hires only.
func BuildCompanyReport(ds *models.Dataset, now time.Time) CompanyReport {
	hired := hiredApplications(ds.Applications)
	hiredCandidates := HiredCandidates(ds.Candidates, ds.Applications)
	salaries := positiveSalaries(hired)

	return CompanyReport{
		Overview: Overview{
			TotalHired:            len(hired),
			TotalApplicants:       len(ds.Applications),
			OverallAcceptanceRate: rate(float64(len(hired)), float64(len(ds.Applications))),
			TotalDrives:           len(ds.Drives),
			AverageSalary:         mean(salaries),
			HighestSalary:         maxOf(salaries),
		},
		YearwiseStats:           YearwiseStats(hired),
		CandidateEducationStats: EducationStatsFor(hiredCandidates),
		CandidateSkillStats:     SkillStatsFor(hiredCandidates),
		CandidateWorkStats:      WorkStatsFor(hiredCandidates, now),
		DriveStats:              DriveStatsFor(ds.Drives, ds.Applications, now),
		InstituteRelationStats:  InstituteRelationStatsFor(ds.Institutes, ds.Drives, ds.Applications),
		ApplicationFunnelStats:  FunnelStatsFor(ds.Applications, ds.Drives),
		SalaryStats:             SalaryStatsFor(hired, ds.Drives),
		TopScoringCandidates:    TopScoringCandidates(ds.Applications, ds.Candidates, ds.Institutes),
	}
}
