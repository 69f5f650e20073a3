package analytics

import (
	"slices"
	"strings"

	"placement-analytics/internal/models"
)

// FunnelStage is the progression through one workflow stage, aggregated by
// stage name across drives.
type FunnelStage struct {
	StageName      string  `json:"stageName"`
	Started        int     `json:"started"`
	Dropped        int     `json:"dropped"`
	Completed      int     `json:"completed"`
	DropOffRate    float64 `json:"dropOffRate"`
	ConversionRate float64 `json:"conversionRate"`
}

type FunnelStats struct {
	Total                int                `json:"total"`
	ByStage              map[string]int     `json:"byStage"`
	StageConversionRates map[string]float64 `json:"stageConversionRates"`
	AverageTimeInStage   map[string]float64 `json:"averageTimeInStage"`
	Stages               []FunnelStage      `json:"stages"`
}

// FunnelStatsFor walks each application through its drive's ordered
// workflow. An application reaches its disqualification stage, the last
// stage when hired, or otherwise the furthest stage it was scored in. Every
// stage up to the reached one counts as started; the reached stage counts as
// dropped unless the application was hired, in which case it completed the
// final stage.
//
// stageConversionRates treats completions as endings, so a stage passed only
// by hires converts at 0. The ordered stages list separates drop-offs from
// completions.
func FunnelStatsFor(apps []models.Application, drives []models.Drive) FunnelStats {
	byDrive := driveIndex(drives)
	byStage := map[string]int{}
	started := map[string]int{}
	dropped := map[string]int{}
	completed := map[string]int{}
	durations := map[string][]float64{}

	for _, app := range apps {
		d, ok := byDrive[app.Drive]
		if !ok {
			continue
		}
		steps := d.Steps()
		if len(steps) == 0 {
			continue
		}

		reached := reachedStage(app, steps, byStage)
		for i := 0; i <= reached && i < len(steps); i++ {
			name := steps[i].Name
			started[name]++
			if !app.IsHired() && i == reached {
				dropped[name]++
			}
			if s := steps[i].Schedule; s != nil && s.StartTime != nil && s.EndTime != nil {
				durations[name] = append(durations[name], days(*s.StartTime, *s.EndTime))
			}
		}
		if app.IsHired() {
			completed[steps[len(steps)-1].Name]++
		}
	}

	out := FunnelStats{
		Total:                len(apps),
		ByStage:              byStage,
		StageConversionRates: make(map[string]float64, len(started)),
		AverageTimeInStage:   make(map[string]float64, len(durations)),
		Stages:               make([]FunnelStage, 0),
	}
	for name, n := range started {
		ended := dropped[name] + completed[name]
		out.StageConversionRates[name] = rate(float64(n-ended), float64(n))
	}
	for name, values := range durations {
		out.AverageTimeInStage[name] = mean(values)
	}
	for _, name := range stageOrder(drives) {
		n := started[name]
		out.Stages = append(out.Stages, FunnelStage{
			StageName:      name,
			Started:        n,
			Dropped:        dropped[name],
			Completed:      completed[name],
			DropOffRate:    rate(float64(dropped[name]), float64(n)),
			ConversionRate: rate(float64(n-dropped[name]), float64(n)),
		})
	}
	return out
}

// reachedStage returns the index of the furthest stage the application
// reached, or -1, and records the stages it was counted at.
func reachedStage(app models.Application, steps []models.WorkflowStep, byStage map[string]int) int {
	switch {
	case app.DisqualifiedStage != "":
		i := stageIndex(steps, app.DisqualifiedStage)
		if i >= 0 {
			byStage[steps[i].Name]++
		}
		return i
	case app.IsHired():
		for _, s := range steps {
			byStage[s.Name]++
		}
		return len(steps) - 1
	default:
		scored := make(map[string]struct{}, len(app.Scores))
		for _, s := range app.Scores {
			scored[s.StageID] = struct{}{}
		}
		reached := -1
		for i, s := range steps {
			if _, ok := scored[s.ID]; ok {
				byStage[s.Name]++
				reached = i
			}
		}
		return reached
	}
}

// stageIndex matches a disqualification reference against step ids first,
// then step names.
func stageIndex(steps []models.WorkflowStep, ref string) int {
	if i := slices.IndexFunc(steps, func(s models.WorkflowStep) bool { return s.ID == ref }); i >= 0 {
		return i
	}
	return slices.IndexFunc(steps, func(s models.WorkflowStep) bool { return s.Name == ref })
}

// stageOrder lists distinct stage names in workflow order, visiting drives
// by id so the result does not depend on input order.
func stageOrder(drives []models.Drive) []string {
	ordered := slices.Clone(drives)
	slices.SortFunc(ordered, func(a, b models.Drive) int { return strings.Compare(a.ID, b.ID) })

	seen := map[string]struct{}{}
	var names []string
	for _, d := range ordered {
		for _, s := range d.Steps() {
			if _, ok := seen[s.Name]; ok || s.Name == "" {
				continue
			}
			seen[s.Name] = struct{}{}
			names = append(names, s.Name)
		}
	}
	return names
}
