package analytics

import (
	"slices"
	"strings"

	"placement-analytics/internal/models"
)

const topSourceLimit = 5

// Hiring cycle bands, in reporting order.
const (
	BandUnderOneWeek  = "< 1 week"
	BandOneToTwoWeeks = "1-2 weeks"
	BandTwoToFourWeek = "2-4 weeks"
	BandOneToTwoMonth = "1-2 months"
	BandOverTwoMonths = "> 2 months"
)

var cycleBands = []struct {
	Label   string
	MaxDays float64
}{
	{BandUnderOneWeek, 7},
	{BandOneToTwoWeeks, 14},
	{BandTwoToFourWeek, 30},
	{BandOneToTwoMonth, 60},
}

type InstituteSource struct {
	Name            string  `json:"name"`
	ID              string  `json:"id"`
	TotalCandidates int     `json:"totalCandidates"`
	HiredCandidates int     `json:"hiredCandidates"`
	HireRate        float64 `json:"hireRate"`
}

type CycleBand struct {
	TimeRange   string  `json:"timeRange"`
	Count       int     `json:"count"`
	AverageDays float64 `json:"averageDays"`
}

type CandidateSources struct {
	InstituteSources []InstituteSource `json:"instituteSources"`
	HiringCycleTimes []CycleBand       `json:"hiringCycleTimes"`
	TopSources       []InstituteSource `json:"topSources"`
	TotalCandidates  int               `json:"totalCandidates"`
	TotalHired       int               `json:"totalHired"`
	OverallHireRate  float64           `json:"overallHireRate"`
}

// CycleBandFor places a creation-to-update duration into its band.
func CycleBandFor(durationDays float64) string {
	for _, b := range cycleBands {
		if durationDays < b.MaxDays {
			return b.Label
		}
	}
	return BandOverTwoMonths
}

// CandidateSourcesFor attributes applications to each applicant's institute
// and bands the hiring cycle of hired applications.
func CandidateSourcesFor(apps []models.Application, candidates []models.Candidate, institutes []models.Institute) CandidateSources {
	names := instituteNames(institutes)
	byID := candidateIndex(candidates)

	type counts struct{ total, hired int }
	perInstitute := map[string]*counts{}
	cycles := map[string][]float64{}
	var totalHired int

	for _, app := range apps {
		if app.IsHired() {
			totalHired++
			if app.CreatedAt != nil && app.UpdatedAt != nil {
				d := days(*app.CreatedAt, *app.UpdatedAt)
				band := CycleBandFor(d)
				cycles[band] = append(cycles[band], d)
			}
		}
		c, ok := byID[app.User]
		if !ok || c.Institute == "" {
			continue
		}
		n, ok := perInstitute[c.Institute]
		if !ok {
			n = &counts{}
			perInstitute[c.Institute] = n
		}
		n.total++
		if app.IsHired() {
			n.hired++
		}
	}

	out := CandidateSources{
		InstituteSources: make([]InstituteSource, 0, len(perInstitute)),
		HiringCycleTimes: make([]CycleBand, 0, len(cycleBands)+1),
		TotalCandidates:  len(candidates),
		TotalHired:       totalHired,
	}
	for id, n := range perInstitute {
		name := names[id]
		if name == "" {
			name = unknownInstitute
		}
		out.InstituteSources = append(out.InstituteSources, InstituteSource{
			Name:            name,
			ID:              id,
			TotalCandidates: n.total,
			HiredCandidates: n.hired,
			HireRate:        rate(float64(n.hired), float64(n.total)),
		})
	}
	slices.SortFunc(out.InstituteSources, func(a, b InstituteSource) int {
		if a.HiredCandidates != b.HiredCandidates {
			return b.HiredCandidates - a.HiredCandidates
		}
		return strings.Compare(a.ID, b.ID)
	})
	out.TopSources = slices.Clone(out.InstituteSources[:min(topSourceLimit, len(out.InstituteSources))])

	for _, label := range []string{BandUnderOneWeek, BandOneToTwoWeeks, BandTwoToFourWeek, BandOneToTwoMonth, BandOverTwoMonths} {
		out.HiringCycleTimes = append(out.HiringCycleTimes, CycleBand{
			TimeRange:   label,
			Count:       len(cycles[label]),
			AverageDays: mean(cycles[label]),
		})
	}

	var placed int
	for id := range hiredCandidateIDs(apps) {
		if _, ok := byID[id]; ok {
			placed++
		}
	}
	out.OverallHireRate = rate(float64(placed), float64(len(candidates)))
	return out
}
