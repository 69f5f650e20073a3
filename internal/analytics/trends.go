package analytics

import (
	"slices"
	"strings"

	"placement-analytics/internal/models"
)

type MonthlyTrend struct {
	Year         string `json:"year"`
	Month        int    `json:"month"`
	Applications int    `json:"applications"`
	Hired        int    `json:"hired"`
	Rejected     int    `json:"rejected"`
	InProgress   int    `json:"inProgress"`
}

type YearlyTrend struct {
	Year          string  `json:"year"`
	Applications  int     `json:"applications"`
	Hired         int     `json:"hired"`
	Rejected      int     `json:"rejected"`
	InProgress    int     `json:"inProgress"`
	AverageSalary float64 `json:"averageSalary"`
}

type HiringTrends struct {
	Monthly []MonthlyTrend `json:"monthly"`
	Yearly  []YearlyTrend  `json:"yearly"`
}

// HiringTrendsFor buckets applications by creation month and year. An
// application without a creation time falls back to its update time.
func HiringTrendsFor(apps []models.Application) HiringTrends {
	monthly := map[string]*MonthlyTrend{}
	yearly := map[string]*YearlyTrend{}
	salaries := map[string][]float64{}

	for _, app := range apps {
		ts := app.CreatedAt
		if ts == nil {
			ts = app.UpdatedAt
		}
		if ts == nil {
			continue
		}
		y, m := yearKey(*ts), monthKey(*ts)

		yt, ok := yearly[y]
		if !ok {
			yt = &YearlyTrend{Year: y}
			yearly[y] = yt
		}
		mt, ok := monthly[m]
		if !ok {
			mt = &MonthlyTrend{Year: y, Month: int(ts.UTC().Month())}
			monthly[m] = mt
		}
		yt.Applications++
		mt.Applications++

		switch app.Status {
		case models.StatusHired:
			yt.Hired++
			mt.Hired++
			if salary, ok := app.PositiveSalary(); ok {
				salaries[y] = append(salaries[y], salary)
			}
		case models.StatusRejected:
			yt.Rejected++
			mt.Rejected++
		case models.StatusInProgress:
			yt.InProgress++
			mt.InProgress++
		}
	}

	out := HiringTrends{
		Monthly: make([]MonthlyTrend, 0, len(monthly)),
		Yearly:  make([]YearlyTrend, 0, len(yearly)),
	}
	for _, key := range sortedKeys(monthly) {
		out.Monthly = append(out.Monthly, *monthly[key])
	}
	for _, key := range sortedKeys(yearly) {
		yt := *yearly[key]
		yt.AverageSalary = mean(salaries[key])
		out.Yearly = append(out.Yearly, yt)
	}
	return out
}

// sortedKeys orders zero-padded date keys chronologically.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, strings.Compare)
	return keys
}
