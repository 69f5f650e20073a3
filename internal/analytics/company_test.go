package analytics

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-analytics/internal/models"
)

// ==========================
// Company Report Tests
// ==========================

func TestBuildCompanyReport_Overview(t *testing.T) {
	report := BuildCompanyReport(createCompanyDataset(), testNow)

	assert.Equal(t, 3, report.Overview.TotalHired)
	assert.Equal(t, 5, report.Overview.TotalApplicants)
	assert.Equal(t, 2, report.Overview.TotalDrives)
	assert.InDelta(t, 60.0, report.Overview.OverallAcceptanceRate, 1e-9)
	assert.InDelta(t, 2600000.0/3, report.Overview.AverageSalary, 1e-6)
	assert.Equal(t, 1200000.0, report.Overview.HighestSalary)
}

func TestBuildCompanyReport_Sections(t *testing.T) {
	report := BuildCompanyReport(createCompanyDataset(), testNow)

	require.Len(t, report.YearwiseStats, 2)
	assert.Equal(t, "2023", report.YearwiseStats[0].Year)
	assert.Equal(t, 2, report.YearwiseStats[0].Hired)

	assert.Equal(t, map[string]int{"B.Tech": 2}, report.CandidateEducationStats.DegreeDistribution)
	assert.InDelta(t, 79.0, report.CandidateEducationStats.AveragePercentage, 1e-9)

	assert.Equal(t, 2, report.CandidateSkillStats.SkillDistribution["Python"])
	assert.InDelta(t, 1.0, report.CandidateWorkStats.AverageWorkExperience, 1e-9)

	assert.Equal(t, 1, report.DriveStats.ActiveCount)
	assert.Equal(t, 1, report.DriveStats.CompletedCount)
	assert.InDelta(t, 45.5, report.DriveStats.AverageDriveDuration, 1e-9)

	require.Len(t, report.InstituteRelationStats.TopInstitutes, 2)
	assert.Equal(t, "Institute of Technology", report.InstituteRelationStats.TopInstitutes[0].Institute)

	assert.Equal(t, 800000.0, report.SalaryStats.OverallMedian)
	require.NotEmpty(t, report.TopScoringCandidates)
	assert.Equal(t, "cand-1", report.TopScoringCandidates[0].ID)
}

func TestBuildCompanyReport_EmptyDataset(t *testing.T) {
	report := BuildCompanyReport(&models.Dataset{}, testNow)

	assert.Zero(t, report.Overview.TotalApplicants)
	assert.Zero(t, report.Overview.OverallAcceptanceRate)
	assert.Empty(t, report.YearwiseStats)
	assert.Empty(t, report.TopScoringCandidates)
	assert.Empty(t, report.ApplicationFunnelStats.Stages)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
}

// ==========================
// Property Tests
// ==========================

func TestReports_RatesBounded(t *testing.T) {
	ds := createCompanyDataset()
	// Applications from unknown candidates and drives push naive ratios past 100.
	ds.Applications = append(ds.Applications,
		createApplication("app-x", "drive-missing", "cand-missing", models.StatusHired, at(2024, 2, 1)))

	rng := rand.New(rand.NewPCG(1, 2))
	payloads := []interface{}{
		BuildCompanyReport(ds, testNow),
		HiringTrendsFor(ds.Applications),
		SkillDemandFor(ds.Drives, HiredCandidates(ds.Candidates, ds.Applications), testNow, rng),
		CandidateSourcesFor(ds.Applications, ds.Candidates[:1], ds.Institutes),
		BuildDriveReport(ds.Drives[0], ds.Applications, ds.Candidates),
		BuildComparativeReport(ds.Drives, ds.Applications, ds.Companies),
		BuildInstituteReport(models.Institute{ID: "inst-1", Candidates: []string{"cand-1"}}, ds),
	}

	for _, payload := range payloads {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		var decoded interface{}
		require.NoError(t, json.Unmarshal(data, &decoded))
		assertRatesBounded(t, "", decoded)
	}
}

func assertRatesBounded(t *testing.T, key string, v interface{}) {
	t.Helper()
	switch val := v.(type) {
	case map[string]interface{}:
		for k, child := range val {
			assertRatesBounded(t, k, child)
		}
	case []interface{}:
		for _, child := range val {
			assertRatesBounded(t, key, child)
		}
	case float64:
		lower := strings.ToLower(key)
		if strings.HasSuffix(lower, "rate") || strings.HasSuffix(lower, "percentage") || lower == "gap" {
			assert.False(t, math.IsNaN(val), "%s is NaN", key)
			assert.GreaterOrEqual(t, val, 0.0, key)
			assert.LessOrEqual(t, val, 100.0, key)
		}
	}
}

func TestReports_IdempotentUnderReordering(t *testing.T) {
	ds := createCompanyDataset()
	shuffled := &models.Dataset{
		Drives:       slices.Clone(ds.Drives),
		Applications: slices.Clone(ds.Applications),
		Candidates:   slices.Clone(ds.Candidates),
		Institutes:   slices.Clone(ds.Institutes),
		Companies:    slices.Clone(ds.Companies),
	}
	slices.Reverse(shuffled.Drives)
	slices.Reverse(shuffled.Applications)
	slices.Reverse(shuffled.Candidates)
	slices.Reverse(shuffled.Institutes)

	marshal := func(v interface{}) string {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		return string(data)
	}

	assert.JSONEq(t, marshal(BuildCompanyReport(ds, testNow)), marshal(BuildCompanyReport(shuffled, testNow)))
	assert.JSONEq(t, marshal(HiringTrendsFor(ds.Applications)), marshal(HiringTrendsFor(shuffled.Applications)))
	assert.JSONEq(t,
		marshal(CandidateSourcesFor(ds.Applications, ds.Candidates, ds.Institutes)),
		marshal(CandidateSourcesFor(shuffled.Applications, shuffled.Candidates, shuffled.Institutes)))

	first := SkillDemandFor(ds.Drives, ds.Candidates, testNow, nil)
	second := SkillDemandFor(shuffled.Drives, shuffled.Candidates, testNow, nil)
	assert.JSONEq(t, marshal(first), marshal(second))
}
