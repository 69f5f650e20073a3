// Package api serves reports and snapshot searches over HTTP.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"placement-analytics/internal/common/database"
	"placement-analytics/internal/common/logger"
	"placement-analytics/internal/common/metrics"
	"placement-analytics/internal/models"
	"placement-analytics/internal/reporting"
	"placement-analytics/internal/snapshot"
)

const readinessTimeout = 2 * time.Second

type ReportGenerator interface {
	Generate(ctx context.Context, req reporting.Request) (*models.ReportEnvelope, error)
}

type SnapshotSearcher interface {
	Search(ctx context.Context, q snapshot.Query) (*snapshot.SearchResult, error)
}

// Handler serves the read API. Snapshots may be nil when indexing is off.
type Handler struct {
	reports   ReportGenerator
	snapshots SnapshotSearcher
	checks    []database.Pinger
	logger    logger.Logger
}

func NewHandler(reports ReportGenerator, snapshots SnapshotSearcher, checks []database.Pinger, log logger.Logger) *Handler {
	return &Handler{
		reports:   reports,
		snapshots: snapshots,
		checks:    checks,
		logger:    log.WithFields(map[string]interface{}{"component": "http-api"}),
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.instrument)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/companies/{companyId}", func(r chi.Router) {
			r.Get("/analytics", h.companyReport(models.ReportCompanyAnalytics))
			r.Get("/hiring-trends", h.companyReport(models.ReportHiringTrends))
			r.Get("/skill-demand", h.companyReport(models.ReportSkillDemand))
			r.Get("/candidate-sources", h.companyReport(models.ReportCandidateSources))
		})
		r.Get("/drives/{driveId}/analytics", h.DriveAnalytics)
		r.Get("/institutes/{instituteId}/analytics", h.InstituteAnalytics)
		r.Get("/institutes/{instituteId}/drives/comparison", h.DriveComparison)
		r.Get("/snapshots", h.SearchSnapshots)
	})
	return r
}

// instrument counts requests by route pattern so ids do not explode label
// cardinality.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		h.logger.Debug("request served", map[string]interface{}{
			"route":      route,
			"method":     r.Method,
			"status":     status,
			"durationMs": time.Since(start).Milliseconds(),
			"requestId":  middleware.GetReqID(r.Context()),
		})
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

// Ready reports each dependency; any failing one makes the service unready.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	status, ok := database.CheckAll(r.Context(), readinessTimeout, h.checks...)
	code := http.StatusOK
	if !ok {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"ready":      ok,
		"components": status,
	})
}
