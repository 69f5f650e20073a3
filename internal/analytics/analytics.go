// Package analytics turns pre-fetched recruitment collections (drives,
// applications, candidates, institutes) into derived statistics.
//
// Every function in this package is pure: no I/O, no shared state, and no
// error returns. Records with missing or malformed optional fields are
// skipped, and empty inputs produce zero-valued aggregates. Any ratio
// rendered as a percentage is 0 when its denominator is 0 and is bounded to
// [0, 100].
package analytics

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"placement-analytics/internal/models"
)

const (
	unknownInstitute = "Unknown Institute"
	unknownCompany   = "Unknown Company"
	unknownLabel     = "Unknown"

	day  = 24 * time.Hour
	year = 365 * day
)

// rate returns num/den as a percentage bounded to [0, 100].
func rate(num, den float64) float64 {
	if den <= 0 || math.IsNaN(num) {
		return 0
	}
	r := num / den * 100
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// mean sums a sorted copy so reordered inputs average to the same bits.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	return stat.Mean(sorted, nil)
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Max(xs)
}

func minOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Min(xs)
}

func sum(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Sum(xs)
}

// median averages the two middle values for even-length input.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func days(from, to time.Time) float64 {
	return float64(to.Sub(from)) / float64(day)
}

func yearKey(t time.Time) string {
	return t.UTC().Format("2006")
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// rankedCount is a key with its occurrence count.
type rankedCount struct {
	Key   string
	Count int
}

// rankCounts orders a frequency table by count descending, then key
// ascending, truncated to limit when limit > 0.
func rankCounts(counts map[string]int, limit int) []rankedCount {
	ranked := lo.Map(lo.Entries(counts), func(e lo.Entry[string, int], _ int) rankedCount {
		return rankedCount{Key: e.Key, Count: e.Value}
	})
	slices.SortFunc(ranked, func(a, b rankedCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Key, b.Key)
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func increment(counts map[string]int, key string, by int) {
	if key == "" {
		return
	}
	counts[key] += by
}

func hiredApplications(apps []models.Application) []models.Application {
	return lo.Filter(apps, func(a models.Application, _ int) bool { return a.IsHired() })
}

func hiredCandidateIDs(apps []models.Application) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, app := range apps {
		if app.IsHired() && app.User != "" {
			ids[app.User] = struct{}{}
		}
	}
	return ids
}

// HiredCandidates returns the candidates holding at least one hired application.
func HiredCandidates(candidates []models.Candidate, apps []models.Application) []models.Candidate {
	ids := hiredCandidateIDs(apps)
	return lo.Filter(candidates, func(c models.Candidate, _ int) bool {
		_, ok := ids[c.ID]
		return ok
	})
}

func driveIndex(drives []models.Drive) map[string]*models.Drive {
	idx := make(map[string]*models.Drive, len(drives))
	for i := range drives {
		idx[drives[i].ID] = &drives[i]
	}
	return idx
}

func candidateIndex(candidates []models.Candidate) map[string]*models.Candidate {
	idx := make(map[string]*models.Candidate, len(candidates))
	for i := range candidates {
		idx[candidates[i].ID] = &candidates[i]
	}
	return idx
}

func instituteNames(institutes []models.Institute) map[string]string {
	return lo.SliceToMap(institutes, func(i models.Institute) (string, string) {
		return i.ID, i.Name
	})
}

func positiveSalaries(apps []models.Application) []float64 {
	return lo.FilterMap(apps, func(a models.Application, _ int) (float64, bool) {
		return a.PositiveSalary()
	})
}
