package comparativedriveanalytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-analytics/internal/common/camunda/camundatest"
	"placement-analytics/internal/workers/analytics/workertest"
)

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name           string
		variables      map[string]interface{}
		validateOutput func(t *testing.T, client *camundatest.JobClient)
	}{
		{
			name:      "completes with the report",
			variables: map[string]interface{}{"instituteId": "i1", "year": 2024, "limit": 1},
			validateOutput: func(t *testing.T, client *camundatest.JobClient) {
				vars, ok := client.CompletedVariables()
				require.True(t, ok)
				assert.NotEmpty(t, vars["reportId"])
				report := vars["report"].(map[string]interface{})
				assert.Len(t, report["drives"], 1)
				scope := vars["scope"].(map[string]interface{})
				assert.Equal(t, float64(1), scope["limit"])
			},
		},
		{
			name:      "unknown resource is thrown",
			variables: map[string]interface{}{"instituteId": "i2", "year": 2021},
			validateOutput: func(t *testing.T, client *camundatest.JobClient) {
				require.Len(t, client.Thrown(), 1)
				assert.Equal(t, "RESOURCE_NOT_FOUND", client.Thrown()[0].ErrorCode)
				assert.Empty(t, client.Completed())
			},
		},
		{
			name:      "invalid input is thrown",
			variables: map[string]interface{}{"instituteId": "i1", "limit": 500},
			validateOutput: func(t *testing.T, client *camundatest.JobClient) {
				require.Len(t, client.Thrown(), 1)
				assert.Equal(t, "INVALID_INPUT", client.Thrown()[0].ErrorCode)
				assert.Empty(t, client.Failed())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(LoadConfig(), workertest.ReportService(t, nil), workertest.Deps(t))
			client := camundatest.NewJobClient()

			handler.Handle(client, camundatest.NewJob(1, TaskType, 3, tt.variables))
			tt.validateOutput(t, client)
		})
	}
}
