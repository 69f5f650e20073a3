// internal/snapshot/query.go
package snapshot

import (
	"time"

	"placement-analytics/internal/models"
)

const (
	defaultSize = 20
	maxSize     = 100
)

// Query filters snapshots. Zero fields do not filter.
type Query struct {
	Kind        models.ReportKind
	CompanyID   string
	InstituteID string
	DriveID     string
	From        *time.Time
	To          *time.Time
	Size        int
}

func (q Query) size() int {
	switch {
	case q.Size < 1:
		return defaultSize
	case q.Size > maxSize:
		return maxSize
	}
	return q.Size
}

// buildSearchQuery renders the newest-first bool filter query.
func buildSearchQuery(q Query) map[string]interface{} {
	filters := []interface{}{}
	term := func(field, value string) {
		if value != "" {
			filters = append(filters, map[string]interface{}{
				"term": map[string]interface{}{field: value},
			})
		}
	}
	term("kind", string(q.Kind))
	term("scope.companyId", q.CompanyID)
	term("scope.instituteId", q.InstituteID)
	term("scope.driveId", q.DriveID)

	if q.From != nil || q.To != nil {
		bounds := map[string]interface{}{}
		if q.From != nil {
			bounds["gte"] = q.From.UTC().Format(time.RFC3339)
		}
		if q.To != nil {
			bounds["lte"] = q.To.UTC().Format(time.RFC3339)
		}
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{"generatedAt": bounds},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		},
		"sort": []interface{}{
			map[string]interface{}{"generatedAt": map[string]interface{}{"order": "desc"}},
		},
		"size": q.size(),
	}
}

// indexMapping keeps report bodies out of the mapping; their keys vary per
// report (skill names, month keys).
var indexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"reportId":    map[string]interface{}{"type": "keyword"},
			"kind":        map[string]interface{}{"type": "keyword"},
			"generatedAt": map[string]interface{}{"type": "date"},
			"scope": map[string]interface{}{
				"properties": map[string]interface{}{
					"companyId":   map[string]interface{}{"type": "keyword"},
					"instituteId": map[string]interface{}{"type": "keyword"},
					"driveId":     map[string]interface{}{"type": "keyword"},
					"year":        map[string]interface{}{"type": "integer"},
					"limit":       map[string]interface{}{"type": "integer"},
				},
			},
			"cached": map[string]interface{}{"type": "boolean"},
			"report": map[string]interface{}{"type": "object", "enabled": false},
		},
	},
}
