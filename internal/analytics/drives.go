package analytics

import (
	"time"

	"placement-analytics/internal/models"
)

type DriveStats struct {
	TotalDrives                 int            `json:"totalDrives"`
	ActiveCount                 int            `json:"activeCount"`
	CompletedCount              int            `json:"completedCount"`
	AverageApplicationsPerDrive float64        `json:"averageApplicationsPerDrive"`
	AverageHiresPerDrive        float64        `json:"averageHiresPerDrive"`
	DriveTypesDistribution      map[string]int `json:"driveTypesDistribution"`
	AverageDriveDuration        float64        `json:"averageDriveDuration"`
	MostCommonSkillsRequired    []SkillCount   `json:"mostCommonSkillsRequired"`
}

// DriveStatsFor summarizes drives and the applications made to them. A drive
// with an application range is completed once its end is before now and
// active otherwise.
func DriveStatsFor(drives []models.Drive, apps []models.Application, now time.Time) DriveStats {
	stats := DriveStats{
		TotalDrives:            len(drives),
		DriveTypesDistribution: map[string]int{},
	}
	skills := map[string]int{}
	var totalDuration float64

	for _, d := range drives {
		increment(stats.DriveTypesDistribution, string(d.Type), 1)
		for _, s := range uniqueSkills(d.Skills) {
			skills[s]++
		}
		r := d.ApplicationRange
		if r == nil {
			continue
		}
		if r.Start != nil && r.End != nil {
			totalDuration += days(*r.Start, *r.End)
		}
		if r.End != nil && r.End.Before(now) {
			stats.CompletedCount++
		} else {
			stats.ActiveCount++
		}
	}

	var applications, hires int
	for _, app := range apps {
		if app.Drive == "" {
			continue
		}
		applications++
		if app.IsHired() {
			hires++
		}
	}

	n := float64(stats.TotalDrives)
	stats.AverageApplicationsPerDrive = safeDiv(float64(applications), n)
	stats.AverageHiresPerDrive = safeDiv(float64(hires), n)
	stats.AverageDriveDuration = safeDiv(totalDuration, n)
	stats.MostCommonSkillsRequired = skillCounts(rankCounts(skills, 10))
	return stats
}

// uniqueSkills drops blanks and repeated entries, keeping first-seen order.
func uniqueSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

type InstituteHires struct {
	Institute   string `json:"institute"`
	HiredCount  int    `json:"hiredCount"`
	InstituteID string `json:"instituteId"`
}

type InstituteRelationStats struct {
	TopInstitutes          []InstituteHires   `json:"topInstitutes"`
	InstitutePlacementRate map[string]float64 `json:"institutePlacementRate"`
}

// InstituteRelationStatsFor attributes applications and hires to the
// institute running each drive.
func InstituteRelationStatsFor(institutes []models.Institute, drives []models.Drive, apps []models.Application) InstituteRelationStats {
	names := instituteNames(institutes)
	byDrive := driveIndex(drives)
	applications := map[string]int{}
	hires := map[string]int{}

	for _, app := range apps {
		d, ok := byDrive[app.Drive]
		if !ok || d.Institute == "" {
			continue
		}
		applications[d.Institute]++
		if app.IsHired() {
			hires[d.Institute]++
		}
	}

	out := InstituteRelationStats{
		TopInstitutes:          make([]InstituteHires, 0),
		InstitutePlacementRate: make(map[string]float64, len(applications)),
	}
	for id, count := range applications {
		label := names[id]
		if label == "" {
			label = id
		}
		out.InstitutePlacementRate[label] = rate(float64(hires[id]), float64(count))
	}
	for _, r := range rankCounts(hires, 10) {
		label := names[r.Key]
		if label == "" {
			label = unknownInstitute
		}
		out.TopInstitutes = append(out.TopInstitutes, InstituteHires{
			Institute:   label,
			HiredCount:  r.Count,
			InstituteID: r.Key,
		})
	}
	return out
}
