// internal/workers/analytics/company-hiring-trends/handler.go
package companyhiringtrends

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"placement-analytics/internal/common/camunda"
	"placement-analytics/internal/reporting"
)

const (
	TaskType = "company-hiring-trends"
)

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
	env, err := h.reports.HiringTrends(ctx, input.CompanyID, input.InstituteID, input.Refresh)
	if err != nil {
		return nil, err
	}
	return newOutput(env), nil
}
