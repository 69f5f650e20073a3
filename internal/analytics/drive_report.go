package analytics

import (
	"math"
	"strings"

	"placement-analytics/internal/models"
)

type CTCStats struct {
	AverageCTC        float64 `json:"averageCTC"`
	HighestCTC        float64 `json:"highestCTC"`
	LowestCTC         float64 `json:"lowestCTC"`
	MedianCTC         float64 `json:"medianCTC"`
	TotalCompensation float64 `json:"totalCompensation"`
}

type StageAnalytics struct {
	StageName        string  `json:"stageName"`
	TotalCandidates  int     `json:"totalCandidates"`
	PassedCandidates int     `json:"passedCandidates"`
	FailedCandidates int     `json:"failedCandidates"`
	PassRate         float64 `json:"passRate"`
	DropOffRate      float64 `json:"dropOffRate"`
	IsBottleneck     bool    `json:"isBottleneck"`
}

type GenderDistribution struct {
	Male             int     `json:"male"`
	Female           int     `json:"female"`
	Other            int     `json:"other"`
	MalePercentage   float64 `json:"malePercentage"`
	FemalePercentage float64 `json:"femalePercentage"`
	OtherPercentage  float64 `json:"otherPercentage"`
}

type SchoolCount struct {
	School string `json:"school"`
	Count  int    `json:"count"`
}

type EducationDistribution struct {
	DegreeTypes map[string]int `json:"degreeTypes"`
	TopSchools  []SchoolCount  `json:"topSchools"`
}

// DriveReport is the analytics payload for a single drive.
type DriveReport struct {
	DriveID               string                 `json:"driveId"`
	Title                 string                 `json:"title"`
	TotalCandidates       int                    `json:"totalCandidates"`
	AppliedCandidates     int                    `json:"appliedCandidates"`
	InProgressCandidates  int                    `json:"inProgressCandidates"`
	RejectedCandidates    int                    `json:"rejectedCandidates"`
	HiredCandidates       int                    `json:"hiredCandidates"`
	ApplicationRate       float64                `json:"applicationRate"`
	ConversionRate        float64                `json:"conversionRate"`
	Salary                CTCStats               `json:"salary"`
	StageAnalytics        []StageAnalytics       `json:"stageAnalytics"`
	BottleneckStage       *StageAnalytics        `json:"bottleneckStage,omitempty"`
	GenderDistribution    *GenderDistribution    `json:"genderDistribution,omitempty"`
	EducationDistribution *EducationDistribution `json:"educationDistribution,omitempty"`
	TimeToHire            *float64               `json:"timeToHire,omitempty"`
}

// BuildDriveReport summarizes one drive from its applications and the
// candidates who applied.
func BuildDriveReport(drive models.Drive, apps []models.Application, applicants []models.Candidate) DriveReport {
	r := DriveReport{
		DriveID:           drive.ID,
		Title:             drive.Title,
		TotalCandidates:   len(drive.Candidates),
		AppliedCandidates: len(apps),
		StageAnalytics:    make([]StageAnalytics, 0),
	}
	for _, app := range apps {
		switch app.Status {
		case models.StatusInProgress:
			r.InProgressCandidates++
		case models.StatusRejected:
			r.RejectedCandidates++
		case models.StatusHired:
			r.HiredCandidates++
		}
	}
	r.ApplicationRate = rate(float64(r.AppliedCandidates), float64(r.TotalCandidates))
	r.ConversionRate = rate(float64(r.HiredCandidates), float64(r.AppliedCandidates))

	salaries := positiveSalaries(hiredApplications(apps))
	r.Salary = CTCStats{
		AverageCTC:        mean(salaries),
		HighestCTC:        maxOf(salaries),
		LowestCTC:         minOf(salaries),
		MedianCTC:         median(salaries),
		TotalCompensation: sum(salaries),
	}

	r.StageAnalytics, r.BottleneckStage = stageCascade(drive.Steps(), apps)

	if len(apps) > 0 {
		r.GenderDistribution = genderDistribution(applicants)
		r.EducationDistribution = educationDistribution(applicants)
		r.TimeToHire = timeToHire(apps)
	}
	return r
}

// stageCascade feeds each stage with the candidates that passed the stage
// before it. The stage with the highest drop-off among non-empty stages is
// the bottleneck.
func stageCascade(steps []models.WorkflowStep, apps []models.Application) ([]StageAnalytics, *StageAnalytics) {
	out := make([]StageAnalytics, 0, len(steps))
	bottleneck := -1
	var highest float64

	for i, step := range steps {
		total := len(apps)
		if i > 0 {
			total = out[i-1].PassedCandidates
		}
		var failed int
		for _, app := range apps {
			if app.DisqualifiedStage != "" && (app.DisqualifiedStage == step.Name || app.DisqualifiedStage == step.ID) {
				failed++
			}
		}
		passed := max(total-failed, 0)
		stage := StageAnalytics{
			StageName:        step.Name,
			TotalCandidates:  total,
			PassedCandidates: passed,
			FailedCandidates: failed,
			PassRate:         rate(float64(passed), float64(total)),
			DropOffRate:      rate(float64(failed), float64(total)),
		}
		out = append(out, stage)
		if total > 0 && stage.DropOffRate > highest {
			highest = stage.DropOffRate
			bottleneck = i
		}
	}

	if bottleneck < 0 {
		return out, nil
	}
	out[bottleneck].IsBottleneck = true
	b := out[bottleneck]
	return out, &b
}

func genderDistribution(candidates []models.Candidate) *GenderDistribution {
	g := &GenderDistribution{}
	for _, c := range candidates {
		switch strings.ToLower(c.Gender) {
		case "male":
			g.Male++
		case "female":
			g.Female++
		default:
			g.Other++
		}
	}
	total := float64(len(candidates))
	g.MalePercentage = rate(float64(g.Male), total)
	g.FemalePercentage = rate(float64(g.Female), total)
	g.OtherPercentage = rate(float64(g.Other), total)
	return g
}

func educationDistribution(candidates []models.Candidate) *EducationDistribution {
	degrees := map[string]int{}
	schools := map[string]int{}
	for _, c := range candidates {
		for _, e := range c.Education {
			increment(degrees, e.Degree, 1)
			increment(schools, e.School, 1)
		}
	}
	top := make([]SchoolCount, 0)
	for _, r := range rankCounts(schools, 5) {
		top = append(top, SchoolCount{School: r.Key, Count: r.Count})
	}
	return &EducationDistribution{DegreeTypes: degrees, TopSchools: top}
}

// timeToHire averages whole days, rounded up, from application to hire.
func timeToHire(apps []models.Application) *float64 {
	var spans []float64
	for _, app := range apps {
		if !app.IsHired() || app.CreatedAt == nil || app.UpdatedAt == nil {
			continue
		}
		spans = append(spans, math.Ceil(math.Abs(days(*app.CreatedAt, *app.UpdatedAt))))
	}
	if len(spans) == 0 {
		return nil
	}
	avg := mean(spans)
	return &avg
}
