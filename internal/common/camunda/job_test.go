package camunda

import (
	"context"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-analytics/internal/common/camunda/camundatest"
	"placement-analytics/internal/common/errors"
	"placement-analytics/internal/common/logger"
)

type echoInput struct {
	Name string `json:"name"`
}

func TestJobRunner_Run(t *testing.T) {
	tests := []struct {
		name           string
		variables      string
		execute        func(ctx context.Context, in *echoInput) (interface{}, error)
		validateOutput func(t *testing.T, client *camundatest.JobClient)
	}{
		{
			name:      "completes with the output",
			variables: `{"name":"acme"}`,
			execute: func(_ context.Context, in *echoInput) (interface{}, error) {
				return map[string]interface{}{"greeting": "hello " + in.Name}, nil
			},
			validateOutput: func(t *testing.T, client *camundatest.JobClient) {
				vars, ok := client.CompletedVariables()
				require.True(t, ok)
				assert.Equal(t, "hello acme", vars["greeting"])
			},
		},
		{
			name:      "empty variables decode as an empty object",
			variables: "",
			execute: func(_ context.Context, in *echoInput) (interface{}, error) {
				return map[string]interface{}{"name": in.Name}, nil
			},
			validateOutput: func(t *testing.T, client *camundatest.JobClient) {
				vars, ok := client.CompletedVariables()
				require.True(t, ok)
				assert.Equal(t, "", vars["name"])
			},
		},
		{
			name:      "malformed variables are thrown",
			variables: `["not", "an", "object"]`,
			execute: func(context.Context, *echoInput) (interface{}, error) {
				t.Fatal("execute must not run")
				return nil, nil
			},
			validateOutput: func(t *testing.T, client *camundatest.JobClient) {
				require.Len(t, client.Thrown(), 1)
				assert.Equal(t, "INVALID_INPUT", client.Thrown()[0].ErrorCode)
			},
		},
		{
			name:      "retryable failures fail the job",
			variables: `{}`,
			execute: func(context.Context, *echoInput) (interface{}, error) {
				return nil, errors.NewDatasetLoadFailedError("drives", assert.AnError)
			},
			validateOutput: func(t *testing.T, client *camundatest.JobClient) {
				require.Len(t, client.Failed(), 1)
				assert.Equal(t, int32(1), client.Failed()[0].Retries)
			},
		},
		{
			name:      "deadline maps to a dataset timeout",
			variables: `{}`,
			execute: func(ctx context.Context, _ *echoInput) (interface{}, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
			validateOutput: func(t *testing.T, client *camundatest.JobClient) {
				require.Len(t, client.Failed(), 1)
				assert.Equal(t, "Dataset load timeout", client.Failed()[0].ErrorMessage)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := Deps{Logger: logger.NewTestLogger(t)}.Runner("echo", 50*time.Millisecond)
			client := camundatest.NewJobClient()
			job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, Type: "echo", Retries: 2, Variables: tt.variables}}

			var input echoInput
			runner.Run(client, job, &input, func(ctx context.Context) (interface{}, error) {
				return tt.execute(ctx, &input)
			})
			tt.validateOutput(t, client)
		})
	}
}
