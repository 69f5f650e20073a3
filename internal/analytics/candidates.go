package analytics

import (
	"cmp"
	"math"
	"strings"
	"time"

	"placement-analytics/internal/models"
)

type EducationStats struct {
	DegreeDistribution map[string]int `json:"degreeDistribution"`
	SchoolDistribution map[string]int `json:"schoolDistribution"`
	BranchDistribution map[string]int `json:"branchDistribution"`
	AveragePercentage  float64        `json:"averagePercentage"`
}

// EducationStatsFor counts the latest education entry of each candidate.
func EducationStatsFor(candidates []models.Candidate) EducationStats {
	stats := EducationStats{
		DegreeDistribution: map[string]int{},
		SchoolDistribution: map[string]int{},
		BranchDistribution: map[string]int{},
	}
	var percentages []float64

	for _, c := range candidates {
		latest, ok := latestEducation(c.Education)
		if !ok {
			continue
		}
		increment(stats.DegreeDistribution, latest.Degree, 1)
		increment(stats.SchoolDistribution, latest.School, 1)
		increment(stats.BranchDistribution, latest.Branch, 1)
		if latest.Percentage != nil && *latest.Percentage > 0 {
			percentages = append(percentages, *latest.Percentage)
		}
	}
	stats.AveragePercentage = mean(percentages)
	return stats
}

// latestEducation picks the entry with the greatest end year; an entry
// without one is still in progress and ranks last-finished. Entries ending
// the same year fall back to degree, school and branch ascending, then the
// higher percentage, so the pick does not depend on entry order.
func latestEducation(entries []models.Education) (models.Education, bool) {
	if len(entries) == 0 {
		return models.Education{}, false
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if compareEducation(e, best) < 0 {
			best = e
		}
	}
	return best, true
}

// compareEducation orders entries latest first.
func compareEducation(a, b models.Education) int {
	endYear := func(e models.Education) int {
		if e.EndYear == nil {
			return 9999
		}
		return *e.EndYear
	}
	percentage := func(e models.Education) float64 {
		if e.Percentage == nil {
			return 0
		}
		return *e.Percentage
	}
	return cmp.Or(
		cmp.Compare(endYear(b), endYear(a)),
		strings.Compare(a.Degree, b.Degree),
		strings.Compare(a.School, b.School),
		strings.Compare(a.Branch, b.Branch),
		cmp.Compare(percentage(b), percentage(a)),
	)
}

type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

type SkillStats struct {
	TopSkills          []SkillCount       `json:"topSkills"`
	SkillDistribution  map[string]int     `json:"skillDistribution"`
	AverageProficiency map[string]float64 `json:"averageProficiency"`
}

func SkillStatsFor(candidates []models.Candidate) SkillStats {
	counts := map[string]int{}
	proficiency := map[string][]float64{}

	for _, c := range candidates {
		for _, s := range c.TechnicalSkills {
			if s.Skill == "" {
				continue
			}
			counts[s.Skill]++
			if s.Proficiency != nil && *s.Proficiency > 0 {
				proficiency[s.Skill] = append(proficiency[s.Skill], float64(*s.Proficiency))
			}
		}
	}

	avg := make(map[string]float64, len(proficiency))
	for skill, values := range proficiency {
		avg[skill] = mean(values)
	}
	return SkillStats{
		TopSkills:          skillCounts(rankCounts(counts, 10)),
		SkillDistribution:  counts,
		AverageProficiency: avg,
	}
}

func skillCounts(ranked []rankedCount) []SkillCount {
	out := make([]SkillCount, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, SkillCount{Skill: r.Key, Count: r.Count})
	}
	return out
}

type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

type WorkStats struct {
	PreviousCompanies     []CompanyCount `json:"previousCompanies"`
	AverageWorkExperience float64        `json:"averageWorkExperience"`
	WorkTypeDistribution  map[string]int `json:"workTypeDistribution"`
}

// WorkStatsFor averages experience in 365-day years over candidates with
// any work history. Current positions run until now.
func WorkStatsFor(candidates []models.Candidate, now time.Time) WorkStats {
	companies := map[string]int{}
	types := map[string]int{}
	var perCandidate []float64

	for _, c := range candidates {
		if len(c.WorkExperience) == 0 {
			continue
		}
		var total float64
		for _, w := range c.WorkExperience {
			increment(companies, w.Company, 1)
			increment(types, w.Type, 1)
			total += experienceYears(w, now)
		}
		perCandidate = append(perCandidate, total)
	}

	out := WorkStats{
		PreviousCompanies:     make([]CompanyCount, 0),
		AverageWorkExperience: mean(perCandidate),
		WorkTypeDistribution:  types,
	}
	for _, r := range rankCounts(companies, 10) {
		out.PreviousCompanies = append(out.PreviousCompanies, CompanyCount{Company: r.Key, Count: r.Count})
	}
	return out
}

func experienceYears(w models.WorkExperience, now time.Time) float64 {
	if w.StartDate == nil {
		return 0
	}
	end := w.EndDate
	if w.Current {
		end = &now
	}
	if end == nil || end.Before(*w.StartDate) {
		return 0
	}
	years := float64(end.Sub(*w.StartDate)) / float64(year)
	if math.IsNaN(years) || math.IsInf(years, 0) {
		return 0
	}
	return years
}
