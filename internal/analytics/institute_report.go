package analytics

import (
	"math"
	"strconv"
	"time"

	"placement-analytics/internal/models"
)

type SalaryStatistics struct {
	AvgMinSalary         float64 `json:"avgMinSalary"`
	AvgMaxSalary         float64 `json:"avgMaxSalary"`
	HighestOfferedSalary float64 `json:"highestOfferedSalary"`
	CommonCurrency       string  `json:"commonCurrency"`
}

type Openings struct {
	Total    int     `json:"total"`
	Filled   int     `json:"filled"`
	Vacant   int     `json:"vacant"`
	FillRate float64 `json:"fillRate"`
}

type InstituteDriveStats struct {
	TotalDrives       int              `json:"totalDrives"`
	PublishedDrives   int              `json:"publishedDrives"`
	UnpublishedDrives int              `json:"unpublishedDrives"`
	OngoingDrives     int              `json:"ongoingDrives"`
	CompletedDrives   int              `json:"completedDrives"`
	DriveTypes        map[string]int   `json:"driveTypes"`
	SalaryStatistics  SalaryStatistics `json:"salaryStatistics"`
	Openings          Openings         `json:"openings"`
	TopSkills         []SkillCount     `json:"topSkills"`
}

type PlacementStats struct {
	Placed        int     `json:"placed"`
	Unplaced      int     `json:"unplaced"`
	PlacementRate float64 `json:"placementRate"`
}

type ApplicationsDistribution struct {
	NoApplications          int `json:"noApplications"`
	OneApplication          int `json:"oneApplication"`
	TwoToFiveApplications   int `json:"twoToFiveApplications"`
	SixToTenApplications    int `json:"sixToTenApplications"`
	MoreThanTenApplications int `json:"moreThanTenApplications"`
}

type ApplicationStats struct {
	TotalApplications           int                      `json:"totalApplications"`
	AvgApplicationsPerCandidate float64                  `json:"avgApplicationsPerCandidate"`
	StatusDistribution          map[string]int           `json:"statusDistribution"`
	ApplicationsDistribution    ApplicationsDistribution `json:"applicationsDistribution"`
	ScoreDistribution           map[string]int           `json:"scoreDistribution"`
}

type InstituteCandidateStats struct {
	TotalCandidates   int              `json:"totalCandidates"`
	PendingCandidates int              `json:"pendingCandidates"`
	PlacementStats    PlacementStats   `json:"placementStats"`
	ApplicationStats  ApplicationStats `json:"applicationStats"`
}

type HiringCompany struct {
	CompanyID        string  `json:"companyId"`
	Name             string  `json:"name"`
	HiredCount       int     `json:"hiredCount"`
	DriveCount       int     `json:"driveCount"`
	AvgSalaryOffered float64 `json:"avgSalaryOffered"`
}

type InstituteCompanyStats struct {
	TotalCompanies     int             `json:"totalCompanies"`
	TopHiringCompanies []HiringCompany `json:"topHiringCompanies"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type ActiveTimeframe struct {
	Start          *time.Time `json:"start"`
	End            *time.Time `json:"end"`
	DurationMonths int        `json:"durationMonths"`
}

type TimelineStats struct {
	DriveCreationTimeline   []MonthCount    `json:"driveCreationTimeline"`
	DrivePublishingTimeline []MonthCount    `json:"drivePublishingTimeline"`
	DriveCompletionTimeline []MonthCount    `json:"driveCompletionTimeline"`
	ApplicationTimeline     []MonthCount    `json:"applicationTimeline"`
	HiringTimeline          []MonthCount    `json:"hiringTimeline"`
	ActiveTimeframe         ActiveTimeframe `json:"activeTimeframe"`
}

type BasicInstituteStats struct {
	InstituteName          string `json:"instituteName"`
	TotalDrives            int    `json:"totalDrives"`
	TotalCompanies         int    `json:"totalCompanies"`
	TotalCandidates        int    `json:"totalCandidates"`
	TotalPendingCandidates int    `json:"totalPendingCandidates"`
}

// InstituteReport is the analytics payload for one institute.
type InstituteReport struct {
	BasicStats     BasicInstituteStats     `json:"basicStats"`
	DriveStats     InstituteDriveStats     `json:"driveStats"`
	CompanyStats   InstituteCompanyStats   `json:"companyStats"`
	CandidateStats InstituteCandidateStats `json:"candidateStats"`
	TimelineStats  TimelineStats           `json:"timelineStats"`
}

// BuildInstituteReport expects ds scoped to a single institute: its drives,
// the applications to them and the companies running them.
func BuildInstituteReport(institute models.Institute, ds *models.Dataset) InstituteReport {
	return InstituteReport{
		BasicStats: BasicInstituteStats{
			InstituteName:          institute.Name,
			TotalDrives:            len(ds.Drives),
			TotalCompanies:         len(ds.Companies),
			TotalCandidates:        len(institute.Candidates),
			TotalPendingCandidates: len(institute.PendingCandidates),
		},
		DriveStats:     InstituteDriveStatsFor(ds.Drives),
		CompanyStats:   InstituteCompanyStatsFor(ds.Drives, ds.Companies),
		CandidateStats: InstituteCandidateStatsFor(institute, ds.Drives, ds.Applications),
		TimelineStats:  TimelineStatsFor(ds.Drives, ds.Applications),
	}
}

func InstituteDriveStatsFor(drives []models.Drive) InstituteDriveStats {
	stats := InstituteDriveStats{
		TotalDrives: len(drives),
		DriveTypes:  map[string]int{},
		SalaryStatistics: SalaryStatistics{
			CommonCurrency: "INR",
		},
	}
	skills := map[string]int{}
	var mins, maxes []float64
	currencySet := false

	for _, d := range drives {
		if d.Published {
			stats.PublishedDrives++
			if !d.HasEnded {
				stats.OngoingDrives++
			}
		}
		if d.HasEnded {
			stats.CompletedDrives++
		}
		increment(stats.DriveTypes, string(d.Type), 1)
		stats.Openings.Total += d.Openings
		stats.Openings.Filled += len(d.HiredCandidates)
		for _, s := range uniqueSkills(d.Skills) {
			skills[s]++
		}
		if s := d.Salary; s != nil && s.Min != nil && s.Max != nil {
			mins = append(mins, *s.Min)
			maxes = append(maxes, *s.Max)
			if !currencySet && s.Currency != "" {
				stats.SalaryStatistics.CommonCurrency = s.Currency
			}
			currencySet = true
		}
	}

	stats.UnpublishedDrives = stats.TotalDrives - stats.PublishedDrives
	stats.SalaryStatistics.AvgMinSalary = mean(mins)
	stats.SalaryStatistics.AvgMaxSalary = mean(maxes)
	stats.SalaryStatistics.HighestOfferedSalary = maxOf(maxes)
	stats.Openings.Vacant = stats.Openings.Total - stats.Openings.Filled
	stats.Openings.FillRate = rate(float64(stats.Openings.Filled), float64(stats.Openings.Total))
	stats.TopSkills = skillCounts(rankCounts(skills, 10))
	return stats
}

// InstituteCompanyStatsFor ranks companies by hires across the institute's
// drives. Offered salary is the midpoint of each drive's range.
func InstituteCompanyStatsFor(drives []models.Drive, companies []models.Company) InstituteCompanyStats {
	names := make(map[string]string, len(companies))
	for _, c := range companies {
		names[c.ID] = c.Name
	}
	type tally struct {
		drives, hired int
		offers        []float64
	}
	byCompany := map[string]*tally{}
	for _, d := range drives {
		if d.Company == "" {
			continue
		}
		t, ok := byCompany[d.Company]
		if !ok {
			t = &tally{}
			byCompany[d.Company] = t
		}
		t.drives++
		t.hired += len(d.HiredCandidates)
		if s := d.Salary; s != nil && s.Min != nil && s.Max != nil && *s.Min > 0 && *s.Max > 0 {
			t.offers = append(t.offers, (*s.Min+*s.Max)/2)
		}
	}

	hires := make(map[string]int, len(byCompany))
	for id, t := range byCompany {
		hires[id] = t.hired
	}
	out := InstituteCompanyStats{
		TotalCompanies:     len(companies),
		TopHiringCompanies: make([]HiringCompany, 0),
	}
	for _, r := range rankCounts(hires, 10) {
		t := byCompany[r.Key]
		name := names[r.Key]
		if name == "" {
			name = unknownCompany
		}
		out.TopHiringCompanies = append(out.TopHiringCompanies, HiringCompany{
			CompanyID:        r.Key,
			Name:             name,
			HiredCount:       t.hired,
			DriveCount:       t.drives,
			AvgSalaryOffered: mean(t.offers),
		})
	}
	return out
}

// InstituteCandidateStatsFor measures placement of the institute's enrolled
// candidates and the applications they made.
func InstituteCandidateStatsFor(institute models.Institute, drives []models.Drive, apps []models.Application) InstituteCandidateStats {
	enrolled := make(map[string]struct{}, len(institute.Candidates))
	for _, id := range institute.Candidates {
		enrolled[id] = struct{}{}
	}

	placed := map[string]struct{}{}
	for _, d := range drives {
		for _, id := range d.HiredCandidates {
			placed[id] = struct{}{}
		}
	}

	total := len(institute.Candidates)
	stats := InstituteCandidateStats{
		TotalCandidates:   total,
		PendingCandidates: len(institute.PendingCandidates),
		PlacementStats: PlacementStats{
			Placed:        len(placed),
			Unplaced:      max(total-len(placed), 0),
			PlacementRate: rate(float64(len(placed)), float64(total)),
		},
	}

	appStats := ApplicationStats{
		StatusDistribution: map[string]int{},
		ScoreDistribution:  map[string]int{},
	}
	perCandidate := map[string]int{}
	for _, app := range apps {
		if _, ok := enrolled[app.User]; !ok {
			continue
		}
		appStats.TotalApplications++
		perCandidate[app.User]++
		increment(appStats.StatusDistribution, string(app.Status), 1)
		for _, s := range app.Scores {
			score := 0.0
			if s.Score != nil {
				score = *s.Score
			}
			appStats.ScoreDistribution[ScoreBucket(score)]++
		}
	}
	appStats.AvgApplicationsPerCandidate = safeDiv(float64(appStats.TotalApplications), float64(total))

	dist := ApplicationsDistribution{NoApplications: max(total-len(perCandidate), 0)}
	for _, n := range perCandidate {
		switch {
		case n == 1:
			dist.OneApplication++
		case n <= 5:
			dist.TwoToFiveApplications++
		case n <= 10:
			dist.SixToTenApplications++
		default:
			dist.MoreThanTenApplications++
		}
	}
	appStats.ApplicationsDistribution = dist
	stats.ApplicationStats = appStats
	return stats
}

// ScoreBucket renders the ten-point bucket a score falls in, e.g. "70-79".
func ScoreBucket(score float64) string {
	floor := int(math.Floor(score/10)) * 10
	return strconv.Itoa(floor) + "-" + strconv.Itoa(floor+9)
}

// TimelineStatsFor builds month series over the institute's drives and the
// applications made to them.
func TimelineStatsFor(drives []models.Drive, apps []models.Application) TimelineStats {
	creation := map[string]int{}
	publishing := map[string]int{}
	completion := map[string]int{}
	hiring := map[string]int{}
	applications := map[string]int{}
	var stamps []time.Time

	for _, d := range drives {
		if d.CreatedAt != nil {
			creation[monthKey(*d.CreatedAt)]++
		}
		if d.PublishedOn != nil {
			publishing[monthKey(*d.PublishedOn)]++
		}
		if d.UpdatedAt != nil {
			if d.HasEnded {
				completion[monthKey(*d.UpdatedAt)]++
			}
			if len(d.HiredCandidates) > 0 {
				hiring[monthKey(*d.UpdatedAt)] += len(d.HiredCandidates)
			}
		}
		for _, t := range []*time.Time{d.CreatedAt, d.PublishedOn, rangeStart(d), rangeEnd(d), d.UpdatedAt} {
			if t != nil {
				stamps = append(stamps, *t)
			}
		}
	}
	for _, app := range apps {
		if app.CreatedAt != nil {
			applications[monthKey(*app.CreatedAt)]++
		}
	}

	return TimelineStats{
		DriveCreationTimeline:   monthSeries(creation),
		DrivePublishingTimeline: monthSeries(publishing),
		DriveCompletionTimeline: monthSeries(completion),
		ApplicationTimeline:     monthSeries(applications),
		HiringTimeline:          monthSeries(hiring),
		ActiveTimeframe:         activeTimeframe(stamps),
	}
}

func rangeStart(d models.Drive) *time.Time {
	if d.ApplicationRange == nil {
		return nil
	}
	return d.ApplicationRange.Start
}

func rangeEnd(d models.Drive) *time.Time {
	if d.ApplicationRange == nil {
		return nil
	}
	return d.ApplicationRange.End
}

func monthSeries(counts map[string]int) []MonthCount {
	out := make([]MonthCount, 0, len(counts))
	for _, key := range sortedKeys(counts) {
		out = append(out, MonthCount{Month: key, Count: counts[key]})
	}
	return out
}

func activeTimeframe(stamps []time.Time) ActiveTimeframe {
	if len(stamps) == 0 {
		return ActiveTimeframe{}
	}
	start, end := stamps[0].UTC(), stamps[0].UTC()
	for _, t := range stamps[1:] {
		if t.Before(start) {
			start = t.UTC()
		}
		if t.After(end) {
			end = t.UTC()
		}
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	return ActiveTimeframe{Start: &start, End: &end, DurationMonths: months}
}
