package analytics

import (
	"slices"
	"strings"

	"placement-analytics/internal/models"
)

const topScorerLimit = 20

type TopScorer struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Score     float64 `json:"score"`
	Hired     bool    `json:"hired"`
	Institute string  `json:"institute"`
}

// TopScoringCandidates ranks candidates by their mean stage score across all
// applications. Applicants missing from candidates are left out.
func TopScoringCandidates(apps []models.Application, candidates []models.Candidate, institutes []models.Institute) []TopScorer {
	type tally struct {
		total float64
		count int
		hired bool
	}
	tallies := map[string]*tally{}
	for _, app := range apps {
		if app.User == "" {
			continue
		}
		t, ok := tallies[app.User]
		if !ok {
			t = &tally{}
			tallies[app.User] = t
		}
		if app.IsHired() {
			t.hired = true
		}
		for _, s := range app.Scores {
			if s.Score != nil {
				t.total += *s.Score
				t.count++
			}
		}
	}

	names := instituteNames(institutes)
	byID := candidateIndex(candidates)
	out := make([]TopScorer, 0, len(tallies))
	for id, t := range tallies {
		c, ok := byID[id]
		if !ok {
			continue
		}
		institute := names[c.Institute]
		if institute == "" {
			institute = unknownLabel
		}
		out = append(out, TopScorer{
			ID:        id,
			Name:      c.Name,
			Email:     c.Email,
			Score:     safeDiv(t.total, float64(t.count)),
			Hired:     t.hired,
			Institute: institute,
		})
	}
	slices.SortFunc(out, func(a, b TopScorer) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	if len(out) > topScorerLimit {
		out = out[:topScorerLimit]
	}
	return out
}
