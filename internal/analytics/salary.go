package analytics

import (
	"placement-analytics/internal/models"
)

type SalaryBand struct {
	Average float64 `json:"average"`
	Highest float64 `json:"highest"`
	Lowest  float64 `json:"lowest"`
}

type SalaryStats struct {
	OverallAverage float64               `json:"overallAverage"`
	OverallMedian  float64               `json:"overallMedian"`
	ByYear         map[string]SalaryBand `json:"byYear"`
	ByRole         map[string]SalaryBand `json:"byRole"`
}

// SalaryStatsFor summarizes positive salaries of the given applications,
// grouped by creation year and by drive title.
func SalaryStatsFor(apps []models.Application, drives []models.Drive) SalaryStats {
	byDrive := driveIndex(drives)
	byYear := map[string][]float64{}
	byRole := map[string][]float64{}
	var all []float64

	for _, app := range apps {
		salary, ok := app.PositiveSalary()
		if !ok {
			continue
		}
		all = append(all, salary)
		if app.CreatedAt != nil {
			key := yearKey(*app.CreatedAt)
			byYear[key] = append(byYear[key], salary)
		}
		if d, ok := byDrive[app.Drive]; ok {
			role := d.Title
			if role == "" {
				role = unknownLabel
			}
			byRole[role] = append(byRole[role], salary)
		}
	}

	return SalaryStats{
		OverallAverage: mean(all),
		OverallMedian:  median(all),
		ByYear:         salaryBands(byYear),
		ByRole:         salaryBands(byRole),
	}
}

func salaryBands(groups map[string][]float64) map[string]SalaryBand {
	out := make(map[string]SalaryBand, len(groups))
	for key, values := range groups {
		out[key] = SalaryBand{
			Average: mean(values),
			Highest: maxOf(values),
			Lowest:  minOf(values),
		}
	}
	return out
}
