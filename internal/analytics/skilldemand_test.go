package analytics

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-analytics/internal/models"
)

// ==========================
// Skill Demand Tests
// ==========================

func TestSkillDemandFor_GapWithNoAvailability(t *testing.T) {
	drives := []models.Drive{
		{ID: "d1", Skills: []string{"Go"}},
		{ID: "d2", Skills: []string{"Go", "Java"}},
		{ID: "d3", Skills: []string{"Java"}},
		{ID: "d4", Skills: []string{"Python"}},
		{ID: "d5"},
	}
	hired := []models.Candidate{createCandidate("c1", "", "Java")}

	report := SkillDemandFor(drives, hired, testNow, nil)

	gap := findGap(report.SkillGaps, "Go")
	require.NotNil(t, gap)
	assert.Equal(t, 50.0, gap.DemandPercentage)
	assert.Zero(t, gap.AvailabilityPercentage)
	assert.Equal(t, 50.0, gap.Gap)
	assert.Nil(t, findGap(report.SkillGaps, "Java"), "fully available skills carry no gap")
}

func TestSkillDemandFor_CompanyDataset(t *testing.T) {
	ds := createCompanyDataset()
	hired := HiredCandidates(ds.Candidates, ds.Applications)

	report := SkillDemandFor(ds.Drives, hired, testNow, nil)

	require.Len(t, report.SkillGaps, 3)
	assert.Equal(t, "SQL", report.SkillGaps[0].Skill)
	assert.InDelta(t, 100-100.0/3, report.SkillGaps[0].Gap, 1e-9)
	assert.Equal(t, "Docker", report.SkillGaps[1].Skill)
	assert.Equal(t, "Go", report.SkillGaps[2].Skill)

	require.NotEmpty(t, report.TopSkills)
	assert.Equal(t, SkillDemand{Skill: "SQL", Count: 2, Percentage: 100}, report.TopSkills[0])
	assert.True(t, report.TrendsAreSynthetic)
}

func TestSkillDemandFor_DuplicateSkillsCountOnce(t *testing.T) {
	drives := []models.Drive{{ID: "d1", Skills: []string{"Go", "Go", ""}}}
	hired := []models.Candidate{createCandidate("c1", "", "Rust", "Rust")}

	report := SkillDemandFor(drives, hired, testNow, nil)

	require.Len(t, report.TopSkills, 1)
	assert.Equal(t, 1, report.TopSkills[0].Count)
	assert.Equal(t, 100.0, report.TopSkills[0].Percentage)
}

func TestSkillDemandFor_TrendBounds(t *testing.T) {
	drives := []models.Drive{
		{ID: "d1", Skills: []string{"Go", "Kubernetes"}},
		{ID: "d2", Skills: []string{"Go"}},
	}

	for seed := uint64(0); seed < 25; seed++ {
		report := SkillDemandFor(drives, nil, testNow, rand.New(rand.NewPCG(seed, seed+1)))

		for skill, points := range report.SkillTrends {
			require.Len(t, points, 3)
			demand := findDemand(report.TopSkills, skill).Percentage
			assert.Equal(t, testNow.Year()-2, points[0].Year)
			assert.Equal(t, SkillTrendPoint{Year: testNow.Year(), Percentage: demand}, points[2])
			for _, p := range points[:2] {
				assert.GreaterOrEqual(t, p.Percentage, demand*TrendDampeningMin)
				assert.Less(t, p.Percentage, demand*TrendDampeningMax+1e-9)
				assert.LessOrEqual(t, p.Percentage, 100.0)
			}
		}
	}
}

func TestSkillDemandFor_SeededTrendIsReproducible(t *testing.T) {
	drives := []models.Drive{{ID: "d1", Skills: []string{"Go"}}, {ID: "d2", Skills: []string{"SQL"}}}

	first := SkillDemandFor(drives, nil, testNow, rand.New(rand.NewPCG(7, 7)))
	second := SkillDemandFor(drives, nil, testNow, rand.New(rand.NewPCG(7, 7)))

	assert.Equal(t, first.SkillTrends, second.SkillTrends)
}

func TestCategorizeSkill(t *testing.T) {
	tests := []struct {
		skill    string
		expected string
	}{
		{"Python", "Programming Languages"},
		{"typescript", "Programming Languages"},
		{"React", "Web Development"},
		{"Pandas", "Data Science"},
		{"AWS", "DevOps"},
		{"Xamarin", "Data Science"},
		{"iOS", "Mobile Development"},
		{"MongoDB", "Programming Languages"},
		{"Cobol", OtherCategory},
		{"", OtherCategory},
	}

	for _, tt := range tests {
		t.Run(tt.skill, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeSkill(tt.skill))
		})
	}
}

func TestSkillDemandFor_CategorizedSortedByPercentage(t *testing.T) {
	drives := []models.Drive{
		{ID: "d1", Skills: []string{"Python", "Java"}},
		{ID: "d2", Skills: []string{"Python"}},
	}

	report := SkillDemandFor(drives, nil, testNow, nil)

	langs := report.CategorizedSkills["Programming Languages"]
	require.Len(t, langs, 2)
	assert.Equal(t, "Python", langs[0].Skill)
	assert.Equal(t, 100.0, langs[0].Percentage)
	assert.Equal(t, 50.0, langs[1].Percentage)
}

func findGap(gaps []SkillGap, skill string) *SkillGap {
	for i := range gaps {
		if gaps[i].Skill == skill {
			return &gaps[i]
		}
	}
	return nil
}

func findDemand(entries []SkillDemand, skill string) SkillDemand {
	for _, e := range entries {
		if e.Skill == skill {
			return e
		}
	}
	return SkillDemand{}
}
