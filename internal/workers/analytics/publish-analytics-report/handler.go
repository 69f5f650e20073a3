// internal/workers/analytics/publish-analytics-report/handler.go
package publishanalyticsreport

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"placement-analytics/internal/common/aws"
	"placement-analytics/internal/common/camunda"
	"placement-analytics/internal/common/errors"
	"placement-analytics/internal/common/logger"
	"placement-analytics/internal/models"
)

const (
	TaskType = "publish-analytics-report"
)

type Publisher interface {
	PublishReport(ctx context.Context, n aws.ReportNotification) (string, error)
}

// Handler announces a generated report on the analytics SNS topic. With
// notifications disabled the job completes unpublished.
type Handler struct {
	config    *Config
	publisher Publisher
	runner    *camunda.JobRunner
	logger    logger.Logger
}

func NewHandler(config *Config, publisher Publisher, deps camunda.Deps) *Handler {
	runner := deps.Runner(TaskType, config.Timeout)
	return &Handler{
		config:    config,
		publisher: publisher,
		runner:    runner,
		logger:    runner.Logger(),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	var input Input
	h.runner.Run(client, job, &input, func(ctx context.Context) (interface{}, error) {
		return h.Execute(ctx, &input)
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ReportID == "" {
		return nil, errors.NewInvalidInputError("reportId is required")
	}
	if !models.ReportKind(input.Kind).Valid() {
		return nil, errors.NewInvalidReportKindError(input.Kind)
	}

	if !h.config.Enabled || h.publisher == nil {
		h.logger.Info("notifications disabled, report not published", map[string]interface{}{
			"reportId": input.ReportID,
		})
		return &Output{Published: false}, nil
	}

	messageID, err := h.publisher.PublishReport(ctx, aws.ReportNotification{
		ReportID:    input.ReportID,
		Kind:        input.Kind,
		CompanyID:   input.CompanyID,
		InstituteID: input.InstituteID,
		DriveID:     input.DriveID,
	})
	if err != nil {
		return nil, errors.NewNotificationSendFailedError("sns", err)
	}
	return &Output{MessageID: messageID, Published: true}, nil
}
