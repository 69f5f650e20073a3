// internal/workers/analytics/comparative-drive-analytics/handler.go
package comparativedriveanalytics

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"placement-analytics/internal/common/camunda"
	"placement-analytics/internal/reporting"
)

const (
	TaskType = "comparative-drive-analytics"
)

// Handler compares the most recent drives of an institute. Year and limit
// are optional; an institute without matching drives is a not-found error.
type Handler struct {
	config  *Config
	reports *reporting.Service
	runner  *camunda.JobRunner
}

func NewHandler(config *Config, reports *reporting.Service, deps camunda.Deps) *Handler {
	return &Handler{
		config:  config,
		reports: reports,
		runner:  deps.Runner(TaskType, config.Timeout),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	var input Input
	h.runner.Run(client, job, &input, func(ctx context.Context) (interface{}, error) {
		return h.Execute(ctx, &input)
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	env, err := h.reports.ComparativeDrives(ctx, input.InstituteID, input.Year, input.Limit, input.Refresh)
	if err != nil {
		return nil, err
	}
	return newOutput(env), nil
}
