// internal/common/validation/schema_test.go
package validation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-analytics/internal/analytics"
	"placement-analytics/internal/models"
	"placement-analytics/pkg/registry"
)

const registryPath = "../../../configs/activity-registry.json"

func loadSchemas(t *testing.T) *SchemaSet {
	t.Helper()
	reg, err := registry.LoadRegistry(registryPath)
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	set, err := NewSchemaSet(reg)
	require.NoError(t, err)
	return set
}

// ==========================
// Input validation
// ==========================

func TestValidateInput(t *testing.T) {
	set := loadSchemas(t)

	tests := []struct {
		name           string
		taskType       string
		vars           map[string]interface{}
		validateOutput func(t *testing.T, result *ValidationResult)
	}{
		{
			name:     "valid company scope",
			taskType: "company-analytics",
			vars:     map[string]interface{}{"companyId": "c-1"},
			validateOutput: func(t *testing.T, result *ValidationResult) {
				assert.True(t, result.Valid)
				assert.Empty(t, result.Errors)
			},
		},
		{
			name:     "missing company id",
			taskType: "company-hiring-trends",
			vars:     map[string]interface{}{},
			validateOutput: func(t *testing.T, result *ValidationResult) {
				assert.False(t, result.Valid)
				assert.True(t, result.HasErrors("companyId"))
				assert.Equal(t, "REQUIRED", result.Errors[0].Code)
			},
		},
		{
			name:     "comparison limit out of range",
			taskType: "comparative-drive-analytics",
			vars:     map[string]interface{}{"instituteId": "i-1", "limit": float64(500)},
			validateOutput: func(t *testing.T, result *ValidationResult) {
				assert.False(t, result.Valid)
				assert.True(t, result.HasErrors("limit"))
				assert.NotEmpty(t, result.GetErrorMessages())
			},
		},
		{
			name:     "unknown report kind for publish",
			taskType: "publish-analytics-report",
			vars:     map[string]interface{}{"reportId": "r-1", "kind": "payroll"},
			validateOutput: func(t *testing.T, result *ValidationResult) {
				assert.False(t, result.Valid)
				assert.Len(t, result.GetErrorsForField("kind"), 1)
			},
		},
		{
			name:     "task type without schema",
			taskType: "unregistered-task",
			vars:     map[string]interface{}{"anything": true},
			validateOutput: func(t *testing.T, result *ValidationResult) {
				assert.True(t, result.Valid)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := set.ValidateInput(tt.taskType, tt.vars)
			require.NoError(t, err)
			tt.validateOutput(t, result)
		})
	}
}

// ==========================
// Report validation
// ==========================

func TestValidateReport_ComputedReports(t *testing.T) {
	set := loadSchemas(t)
	created := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(10 * 24 * time.Hour)
	salary := 120000.0

	apps := []models.Application{
		{ID: "a1", Drive: "d1", User: "u1", Status: models.StatusHired, Salary: &salary, CreatedAt: &created, UpdatedAt: &updated},
		{ID: "a2", Drive: "d1", User: "u2", Status: models.StatusRejected, CreatedAt: &created, UpdatedAt: &updated},
	}
	candidates := []models.Candidate{{ID: "u1", Institute: "i1"}, {ID: "u2", Institute: "i1"}}
	institutes := []models.Institute{{ID: "i1", Name: "North Campus"}}

	reports := map[models.ReportKind]interface{}{
		models.ReportHiringTrends:     analytics.HiringTrendsFor(apps),
		models.ReportCandidateSources: analytics.CandidateSourcesFor(apps, candidates, institutes),
	}
	for kind, report := range reports {
		payload, err := json.Marshal(report)
		require.NoError(t, err)

		result, err := set.ValidateReport(kind, payload)
		require.NoError(t, err)
		assert.True(t, result.Valid, "%s: %v", kind, result.GetErrorMessages())
	}
}

func TestValidateReport_Rejects(t *testing.T) {
	set := loadSchemas(t)

	tests := []struct {
		name           string
		kind           models.ReportKind
		payload        string
		validateOutput func(t *testing.T, result *ValidationResult)
	}{
		{
			name:    "missing yearly series",
			kind:    models.ReportHiringTrends,
			payload: `{"monthly": []}`,
			validateOutput: func(t *testing.T, result *ValidationResult) {
				assert.False(t, result.Valid)
				assert.True(t, result.HasErrors("yearly"))
			},
		},
		{
			name: "hire rate above one hundred",
			kind: models.ReportCandidateSources,
			payload: `{"instituteSources": [], "topSources": [], "totalCandidates": 1, "totalHired": 2,
				"overallHireRate": 200,
				"hiringCycleTimes": [
					{"timeRange": "< 1 week", "count": 0, "averageDays": 0},
					{"timeRange": "1-2 weeks", "count": 0, "averageDays": 0},
					{"timeRange": "2-4 weeks", "count": 0, "averageDays": 0},
					{"timeRange": "1-2 months", "count": 0, "averageDays": 0},
					{"timeRange": "> 2 months", "count": 0, "averageDays": 0}
				]}`,
			validateOutput: func(t *testing.T, result *ValidationResult) {
				assert.False(t, result.Valid)
				assert.True(t, result.HasErrors("overallHireRate"))
			},
		},
		{
			name:    "kind without schema",
			kind:    models.ReportKind("unknown"),
			payload: `{}`,
			validateOutput: func(t *testing.T, result *ValidationResult) {
				assert.True(t, result.Valid)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := set.ValidateReport(tt.kind, []byte(tt.payload))
			require.NoError(t, err)
			tt.validateOutput(t, result)
		})
	}
}

func TestValidateReport_MalformedPayload(t *testing.T) {
	set := loadSchemas(t)

	_, err := set.ValidateReport(models.ReportHiringTrends, []byte("{broken"))
	assert.Error(t, err)
}

func TestSchemaSet_AllKindsCovered(t *testing.T) {
	set := loadSchemas(t)
	for _, kind := range models.ReportKinds {
		assert.True(t, set.HasReportSchema(kind), kind)
	}
}
