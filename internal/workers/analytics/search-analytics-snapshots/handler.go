// internal/workers/analytics/search-analytics-snapshots/handler.go
package searchanalyticssnapshots

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"placement-analytics/internal/common/camunda"
	"placement-analytics/internal/common/errors"
	"placement-analytics/internal/models"
	"placement-analytics/internal/snapshot"
)

const (
	TaskType = "search-analytics-snapshots"
)

// Searcher finds archived reports.
type Searcher interface {
	Search(ctx context.Context, q snapshot.Query) (*snapshot.SearchResult, error)
}

type Handler struct {
	config   *Config
	searcher Searcher
	runner   *camunda.JobRunner
}

func NewHandler(config *Config, searcher Searcher, deps camunda.Deps) *Handler {
	return &Handler{
		config:   config,
		searcher: searcher,
		runner:   deps.Runner(TaskType, config.Timeout),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	var input Input
	h.runner.Run(client, job, &input, func(ctx context.Context) (interface{}, error) {
		return h.Execute(ctx, &input)
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	kind := models.ReportKind(input.Kind)
	if kind != "" && !kind.Valid() {
		return nil, errors.NewInvalidReportKindError(input.Kind)
	}
	if input.From != nil && input.To != nil && input.From.After(*input.To) {
		return nil, errors.NewInvalidInputError("from must not be after to")
	}

	result, err := h.searcher.Search(ctx, snapshot.Query{
		Kind:        kind,
		CompanyID:   input.CompanyID,
		InstituteID: input.InstituteID,
		DriveID:     input.DriveID,
		From:        input.From,
		To:          input.To,
		Size:        input.Size,
	})
	if err != nil {
		return nil, err
	}

	out := &Output{
		Total:     result.Total,
		Took:      result.TookMs,
		Snapshots: make([]Snapshot, 0, len(result.Snapshots)),
	}
	for _, env := range result.Snapshots {
		out.Snapshots = append(out.Snapshots, Snapshot{
			ReportID:    env.ReportID,
			Kind:        string(env.Kind),
			Scope:       env.Scope,
			GeneratedAt: env.GeneratedAt,
		})
	}
	return out, nil
}
