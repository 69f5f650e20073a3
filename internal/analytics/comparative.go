package analytics

import (
	"slices"
	"strings"
	"time"

	"placement-analytics/internal/models"
)

const DefaultComparisonLimit = 5

type DriveComparison struct {
	DriveID           string  `json:"driveId"`
	Title             string  `json:"title"`
	Company           string  `json:"company"`
	TotalCandidates   int     `json:"totalCandidates"`
	AppliedCount      int     `json:"appliedCount"`
	HiredCount        int     `json:"hiredCount"`
	RejectedCount     int     `json:"rejectedCount"`
	InProgressCount   int     `json:"inProgressCount"`
	ConversionRate    float64 `json:"conversionRate"`
	AverageSalary     float64 `json:"averageSalary"`
	ApplicationPeriod string  `json:"applicationPeriod"`
}

type ComparisonOverall struct {
	TotalDrives           int     `json:"totalDrives"`
	TotalApplicants       int     `json:"totalApplicants"`
	TotalHired            int     `json:"totalHired"`
	AverageConversionRate float64 `json:"averageConversionRate"`
	HighestConversionRate float64 `json:"highestConversionRate"`
	LowestConversionRate  float64 `json:"lowestConversionRate"`
	AverageSalaryOffered  float64 `json:"averageSalaryOffered"`
}

type ComparativeReport struct {
	Drives       []DriveComparison `json:"drives"`
	OverallStats ComparisonOverall `json:"overallStats"`
}

// SelectComparisonDrives keeps drives whose application window opened, or
// which were created, in year (0 keeps all), newest first, up to limit.
func SelectComparisonDrives(drives []models.Drive, year, limit int) []models.Drive {
	if limit <= 0 {
		limit = DefaultComparisonLimit
	}
	selected := make([]models.Drive, 0, len(drives))
	for _, d := range drives {
		if year == 0 || inYear(d, year) {
			selected = append(selected, d)
		}
	}
	slices.SortFunc(selected, func(a, b models.Drive) int {
		ta, tb := createdOrZero(a), createdOrZero(b)
		if c := tb.Compare(ta); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}

func inYear(d models.Drive, year int) bool {
	if d.ApplicationRange != nil && d.ApplicationRange.Start != nil && d.ApplicationRange.Start.UTC().Year() == year {
		return true
	}
	return d.CreatedAt != nil && d.CreatedAt.UTC().Year() == year
}

func createdOrZero(d models.Drive) time.Time {
	if d.CreatedAt == nil {
		return time.Time{}
	}
	return *d.CreatedAt
}

// BuildComparativeReport compares the given drives side by side. Callers
// pick the drives with SelectComparisonDrives.
func BuildComparativeReport(drives []models.Drive, apps []models.Application, companies []models.Company) ComparativeReport {
	companyNames := make(map[string]string, len(companies))
	for _, c := range companies {
		companyNames[c.ID] = c.Name
	}
	appsByDrive := map[string][]models.Application{}
	for _, app := range apps {
		appsByDrive[app.Drive] = append(appsByDrive[app.Drive], app)
	}

	report := ComparativeReport{Drives: make([]DriveComparison, 0, len(drives))}
	var conversions, salaries []float64
	for _, d := range drives {
		row := compareDrive(d, appsByDrive[d.ID], companyNames)
		report.Drives = append(report.Drives, row)
		report.OverallStats.TotalApplicants += row.AppliedCount
		report.OverallStats.TotalHired += row.HiredCount
		conversions = append(conversions, row.ConversionRate)
		salaries = append(salaries, row.AverageSalary)
	}
	report.OverallStats.TotalDrives = len(report.Drives)
	report.OverallStats.AverageConversionRate = mean(conversions)
	report.OverallStats.HighestConversionRate = maxOf(conversions)
	report.OverallStats.LowestConversionRate = minOf(conversions)
	report.OverallStats.AverageSalaryOffered = mean(salaries)
	return report
}

func compareDrive(d models.Drive, apps []models.Application, companyNames map[string]string) DriveComparison {
	company := companyNames[d.Company]
	if company == "" {
		company = unknownCompany
	}
	row := DriveComparison{
		DriveID:           d.ID,
		Title:             d.Title,
		Company:           company,
		TotalCandidates:   len(d.Candidates),
		AppliedCount:      len(apps),
		ApplicationPeriod: applicationPeriod(d.ApplicationRange),
	}
	for _, app := range apps {
		switch app.Status {
		case models.StatusHired:
			row.HiredCount++
		case models.StatusRejected:
			row.RejectedCount++
		case models.StatusInProgress:
			row.InProgressCount++
		}
	}
	row.ConversionRate = rate(float64(row.HiredCount), float64(row.AppliedCount))
	row.AverageSalary = mean(positiveSalaries(hiredApplications(apps)))
	return row
}

func applicationPeriod(r *models.DateRange) string {
	if r == nil {
		return "Not specified"
	}
	format := func(t *time.Time) string {
		if t == nil {
			return time.Unix(0, 0).UTC().Format(time.DateOnly)
		}
		return t.UTC().Format(time.DateOnly)
	}
	return format(r.Start) + " - " + format(r.End)
}
