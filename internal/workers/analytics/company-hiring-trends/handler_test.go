package companyhiringtrends

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
			variables: map[string]interface{}{"companyId": "c1"},
			validateOutput: func(t *testing.T, client *camundatest.JobClient) {
				vars, ok := client.CompletedVariables()
				require.True(t, ok)
				assert.NotEmpty(t, vars["reportId"])
				report := vars["report"].(map[string]interface{})
				assert.Len(t, report["yearly"], 1)
				assert.Len(t, report["monthly"], 2)
			},
		},
		{
			name:      "invalid input is thrown",
			variables: map[string]interface{}{"companyId": ""},
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
