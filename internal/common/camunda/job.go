// internal/common/camunda/job.go
package camunda

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"placement-analytics/internal/common/errors"
	"placement-analytics/internal/common/logger"
	"placement-analytics/internal/common/metrics"
	"placement-analytics/internal/common/observability"
	"placement-analytics/internal/common/validation"
)

// Deps are the collaborators every worker handler shares.
type Deps struct {
	Schemas       *validation.SchemaSet
	Observability *observability.Observability
	Logger        logger.Logger
}

// Runner builds the job runner for one task type.
func (d Deps) Runner(taskType string, timeout time.Duration) *JobRunner {
	obs := d.Observability
	if obs == nil {
		obs = observability.NewNoop()
	}
	log := d.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": taskType})
	return &JobRunner{
		taskType: taskType,
		timeout:  timeout,
		schemas:  d.Schemas,
		errors:   errors.NewErrorHandler(log),
		obs:      obs,
		logger:   log,
	}
}

// JobRunner decodes and validates job variables, bounds execution by the
// job timeout, completes the job with the output and routes failures
// through the BPMN error handler.
type JobRunner struct {
	taskType string
	timeout  time.Duration
	schemas  *validation.SchemaSet
	errors   *errors.ErrorHandler
	obs      *observability.Observability
	logger   logger.Logger
}

func (r *JobRunner) Logger() logger.Logger { return r.logger }

// Run decodes the job variables into input, calls execute and completes the
// job with its output.
func (r *JobRunner) Run(client worker.JobClient, job entities.Job, input interface{}, execute func(ctx context.Context) (interface{}, error)) {
	start := time.Now()
	active := metrics.WorkerJobsActive.WithLabelValues(r.taskType)
	active.Inc()
	defer active.Dec()

	log := r.logger.WithFields(map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	log.Info("processing job", nil)

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	status := "completed"
	output, err := r.execute(ctx, job, input, execute)
	if err == nil {
		err = r.complete(client, job, output)
		if err != nil {
			log.Error("failed to complete job", map[string]interface{}{"error": err.Error()})
			status = "failed"
			metrics.WorkerJobsFailed.WithLabelValues(r.taskType, "COMPLETE_FAILED").Inc()
		}
	} else {
		status = "failed"
		stdErr := errors.Normalize(err)
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, string(stdErr.Code)).Inc()
		r.errors.HandleJobError(context.Background(), client, job, stdErr)
	}

	elapsed := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(elapsed.Seconds())
	r.obs.RecordJobProcessed(ctx, r.taskType, status)
	r.obs.RecordJobDuration(ctx, r.taskType, elapsed, status)
	if status == "completed" {
		metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
		log.Info("job completed", map[string]interface{}{"durationMs": elapsed.Milliseconds()})
	}
}

func (r *JobRunner) execute(ctx context.Context, job entities.Job, input interface{}, execute func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	raw := strings.TrimSpace(job.Variables)
	if raw == "" {
		raw = "{}"
	}

	vars := map[string]interface{}{}
	if err := json.Unmarshal([]byte(raw), &vars); err != nil {
		return nil, errors.NewInvalidInputError("job variables are not a JSON object: " + err.Error())
	}
	if r.schemas != nil {
		result, err := r.schemas.ValidateInput(r.taskType, vars)
		if err != nil {
			return nil, errors.NewInternalError("validate job variables", err)
		}
		if !result.Valid {
			return nil, errors.NewInvalidInputError(strings.Join(result.GetErrorMessages(), "; "))
		}
	}
	if err := json.Unmarshal([]byte(raw), input); err != nil {
		return nil, errors.NewInvalidInputError("parse input: " + err.Error())
	}
	return execute(ctx)
}

func (r *JobRunner) complete(client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return err
	}
	_, err = cmd.Send(context.Background())
	return err
}
