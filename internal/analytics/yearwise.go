package analytics

import (
	"slices"
	"strconv"

	"placement-analytics/internal/models"
)

// PlaceholderOfferAcceptanceRate is reported for any year with at least one
// hire. Offer acceptance is not tracked in the source data.
const PlaceholderOfferAcceptanceRate = 80.0

type YearwiseStat struct {
	Year                string  `json:"year"`
	Hired               int     `json:"hired"`
	TotalApplicants     int     `json:"totalApplicants"`
	ApplicationRate     float64 `json:"applicationRate"`
	OfferAcceptanceRate float64 `json:"offerAcceptanceRate"`
	AverageSalary       float64 `json:"averageSalary"`
	HighestSalary       float64 `json:"highestSalary"`
}

// YearwiseStats groups applications by creation year. The average salary is
// a running mean over the salaried hires of each year, taken in ascending
// salary order so the result does not depend on application order.
func YearwiseStats(apps []models.Application) []YearwiseStat {
	byYear := make(map[string]*YearwiseStat)
	salaries := make(map[string][]float64)

	for _, app := range apps {
		if app.CreatedAt == nil {
			continue
		}
		key := yearKey(*app.CreatedAt)
		stat, ok := byYear[key]
		if !ok {
			stat = &YearwiseStat{Year: key}
			byYear[key] = stat
		}
		stat.TotalApplicants++

		if !app.IsHired() {
			continue
		}
		stat.Hired++
		if salary, ok := app.PositiveSalary(); ok {
			salaries[key] = append(salaries[key], salary)
		}
	}

	out := make([]YearwiseStat, 0, len(byYear))
	for key, stat := range byYear {
		year := salaries[key]
		slices.Sort(year)
		for i, salary := range year {
			n := float64(i + 1)
			stat.AverageSalary = (stat.AverageSalary*(n-1) + salary) / n
		}
		if len(year) > 0 {
			stat.HighestSalary = year[len(year)-1]
		}
		stat.ApplicationRate = rate(float64(stat.Hired), float64(stat.TotalApplicants))
		if stat.Hired > 0 {
			stat.OfferAcceptanceRate = PlaceholderOfferAcceptanceRate
		}
		out = append(out, *stat)
	}
	slices.SortFunc(out, func(a, b YearwiseStat) int {
		ya, _ := strconv.Atoi(a.Year)
		yb, _ := strconv.Atoi(b.Year)
		return ya - yb
	})
	return out
}
