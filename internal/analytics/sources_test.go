package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-analytics/internal/models"
)

func TestCycleBandFor(t *testing.T) {
	tests := []struct {
		days     float64
		expected string
	}{
		{0, BandUnderOneWeek},
		{6.99, BandUnderOneWeek},
		{7, BandOneToTwoWeeks},
		{10, BandOneToTwoWeeks},
		{14, BandTwoToFourWeek},
		{29.5, BandTwoToFourWeek},
		{30, BandOneToTwoMonth},
		{59, BandOneToTwoMonth},
		{60, BandOverTwoMonths},
		{365, BandOverTwoMonths},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CycleBandFor(tt.days), "%v days", tt.days)
	}
}

func TestCandidateSourcesFor_TenDayCycle(t *testing.T) {
	app := createApplication("a1", "d1", "c1", models.StatusHired, at(2024, time.March, 1))
	app.UpdatedAt = at(2024, time.March, 11)

	sources := CandidateSourcesFor([]models.Application{app}, nil, nil)

	require.Len(t, sources.HiringCycleTimes, 5)
	for _, band := range sources.HiringCycleTimes {
		if band.TimeRange == BandOneToTwoWeeks {
			assert.Equal(t, 1, band.Count)
			assert.Equal(t, 10.0, band.AverageDays)
		} else {
			assert.Zero(t, band.Count, band.TimeRange)
		}
	}
}

func TestCandidateSourcesFor_CompanyDataset(t *testing.T) {
	ds := createCompanyDataset()

	sources := CandidateSourcesFor(ds.Applications, ds.Candidates, ds.Institutes)

	require.Len(t, sources.InstituteSources, 2)
	assert.Equal(t, "Institute of Technology", sources.InstituteSources[0].Name)
	assert.Equal(t, 3, sources.InstituteSources[0].TotalCandidates)
	assert.Equal(t, 2, sources.InstituteSources[0].HiredCandidates)
	assert.InDelta(t, 200.0/3, sources.InstituteSources[0].HireRate, 1e-9)
	assert.Equal(t, "inst-2", sources.InstituteSources[1].ID)
	assert.Equal(t, sources.InstituteSources, sources.TopSources)

	labels := make([]string, 0, len(sources.HiringCycleTimes))
	for _, b := range sources.HiringCycleTimes {
		labels = append(labels, b.TimeRange)
	}
	assert.Equal(t, []string{BandUnderOneWeek, BandOneToTwoWeeks, BandTwoToFourWeek, BandOneToTwoMonth, BandOverTwoMonths}, labels)
	assert.Equal(t, 2, sources.HiringCycleTimes[0].Count)
	assert.Equal(t, 1, sources.HiringCycleTimes[1].Count)

	assert.Equal(t, 5, sources.TotalCandidates)
	assert.Equal(t, 3, sources.TotalHired)
	assert.Equal(t, 60.0, sources.OverallHireRate)
}

func TestCandidateSourcesFor_UnknownInstitute(t *testing.T) {
	apps := []models.Application{createApplication("a1", "d1", "c1", models.StatusRejected, nil)}
	candidates := []models.Candidate{createCandidate("c1", "inst-404")}

	sources := CandidateSourcesFor(apps, candidates, nil)

	require.Len(t, sources.InstituteSources, 1)
	assert.Equal(t, unknownInstitute, sources.InstituteSources[0].Name)
	assert.Zero(t, sources.InstituteSources[0].HireRate)
	assert.Zero(t, sources.OverallHireRate)
}

func TestCandidateSourcesFor_TopSourcesLimited(t *testing.T) {
	var apps []models.Application
	var candidates []models.Candidate
	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		candidates = append(candidates, createCandidate(id, "inst-"+id))
		apps = append(apps, createApplication("app-"+id, "d1", id, models.StatusHired, nil))
	}

	sources := CandidateSourcesFor(apps, candidates, nil)

	assert.Len(t, sources.InstituteSources, 8)
	assert.Len(t, sources.TopSources, 5)
	assert.Equal(t, 100.0, sources.OverallHireRate)
}
