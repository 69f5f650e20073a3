package analytics

import (
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"placement-analytics/internal/models"
)

const (
	skillGapLimit   = 10
	skillTrendLimit = 10
	topDemandLimit  = 15

	// Prior-year trend points are the current demand scaled by a factor
	// drawn uniformly from [TrendDampeningMin, TrendDampeningMax).
	TrendDampeningMin = 0.7
	TrendDampeningMax = 1.2
)

type SkillDemand struct {
	Skill      string  `json:"skill"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type SkillGap struct {
	Skill                  string  `json:"skill"`
	DemandPercentage       float64 `json:"demandPercentage"`
	AvailabilityPercentage float64 `json:"availabilityPercentage"`
	Gap                    float64 `json:"gap"`
}

type SkillTrendPoint struct {
	Year       int     `json:"year"`
	Percentage float64 `json:"percentage"`
}

// SkillDemandReport compares drive skill requirements against skills held
// by hired candidates. SkillTrends is synthesized, not historical.
type SkillDemandReport struct {
	TopSkills          []SkillDemand                `json:"topSkills"`
	SkillGaps          []SkillGap                   `json:"skillGaps"`
	CategorizedSkills  map[string][]SkillDemand     `json:"categorizedSkills"`
	SkillTrends        map[string][]SkillTrendPoint `json:"skillTrends"`
	TrendsAreSynthetic bool                         `json:"trendsAreSynthetic"`
}

// SkillDemandFor computes demand over drives with at least one required
// skill and availability over hiredCandidates. Each drive and candidate
// counts a skill once. rng drives the synthetic trend; a nil rng yields
// undampened prior years.
func SkillDemandFor(drives []models.Drive, hiredCandidates []models.Candidate, now time.Time, rng *rand.Rand) SkillDemandReport {
	required := map[string]int{}
	var demandDrives int
	for _, d := range drives {
		skills := uniqueSkills(d.Skills)
		if len(skills) == 0 {
			continue
		}
		demandDrives++
		for _, s := range skills {
			required[s]++
		}
	}

	held := map[string]int{}
	for _, c := range hiredCandidates {
		names := make([]string, 0, len(c.TechnicalSkills))
		for _, s := range c.TechnicalSkills {
			names = append(names, s.Skill)
		}
		for _, s := range uniqueSkills(names) {
			held[s]++
		}
	}

	demand := make(map[string]float64, len(required))
	for skill, count := range required {
		demand[skill] = rate(float64(count), float64(demandDrives))
	}

	report := SkillDemandReport{
		TopSkills:          make([]SkillDemand, 0),
		SkillGaps:          make([]SkillGap, 0),
		CategorizedSkills:  map[string][]SkillDemand{},
		SkillTrends:        map[string][]SkillTrendPoint{},
		TrendsAreSynthetic: true,
	}

	for skill, pct := range demand {
		availability := rate(float64(held[skill]), float64(len(hiredCandidates)))
		if gap := pct - availability; gap > 0 {
			report.SkillGaps = append(report.SkillGaps, SkillGap{
				Skill:                  skill,
				DemandPercentage:       pct,
				AvailabilityPercentage: availability,
				Gap:                    gap,
			})
		}
		category := CategorizeSkill(skill)
		report.CategorizedSkills[category] = append(report.CategorizedSkills[category],
			SkillDemand{Skill: skill, Count: required[skill], Percentage: pct})
	}

	slices.SortFunc(report.SkillGaps, func(a, b SkillGap) int {
		return compareDesc(a.Gap, b.Gap, a.Skill, b.Skill)
	})
	if len(report.SkillGaps) > skillGapLimit {
		report.SkillGaps = report.SkillGaps[:skillGapLimit]
	}
	for _, entries := range report.CategorizedSkills {
		slices.SortFunc(entries, func(a, b SkillDemand) int {
			return compareDesc(a.Percentage, b.Percentage, a.Skill, b.Skill)
		})
	}

	for _, r := range rankCounts(required, topDemandLimit) {
		report.TopSkills = append(report.TopSkills, SkillDemand{Skill: r.Key, Count: r.Count, Percentage: demand[r.Key]})
	}

	current := now.UTC().Year()
	for _, r := range rankCounts(required, skillTrendLimit) {
		points := make([]SkillTrendPoint, 0, 3)
		for y := current - 2; y <= current; y++ {
			pct := demand[r.Key]
			if y != current {
				pct = dampen(pct, rng)
			}
			points = append(points, SkillTrendPoint{Year: y, Percentage: pct})
		}
		report.SkillTrends[r.Key] = points
	}
	return report
}

func dampen(pct float64, rng *rand.Rand) float64 {
	if rng == nil {
		return pct
	}
	factor := TrendDampeningMin + rng.Float64()*(TrendDampeningMax-TrendDampeningMin)
	if v := pct * factor; v < 100 {
		return v
	}
	return 100
}

// compareDesc orders by value descending, then label ascending.
func compareDesc(a, b float64, la, lb string) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return strings.Compare(la, lb)
}
