package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"placement-analytics/internal/common/errors"
	"placement-analytics/internal/models"
	"placement-analytics/internal/reporting"
	"placement-analytics/internal/snapshot"
)

// companyReport serves a company report, optionally restricted to the
// drives run at ?instituteId.
func (h *Handler) companyReport(kind models.ReportKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := models.Scope{
			CompanyID:   chi.URLParam(r, "companyId"),
			InstituteID: r.URL.Query().Get("instituteId"),
		}
		h.serveReport(w, r, reporting.Request{Kind: kind, Scope: scope, Refresh: refresh(r)})
	}
}

func (h *Handler) DriveAnalytics(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, reporting.Request{
		Kind:    models.ReportDriveAnalytics,
		Scope:   models.Scope{DriveID: chi.URLParam(r, "driveId")},
		Refresh: refresh(r),
	})
}

func (h *Handler) InstituteAnalytics(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, reporting.Request{
		Kind:    models.ReportInstituteAnalytics,
		Scope:   models.Scope{InstituteID: chi.URLParam(r, "instituteId")},
		Refresh: refresh(r),
	})
}

func (h *Handler) DriveComparison(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		h.writeError(w, err)
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.serveReport(w, r, reporting.Request{
		Kind:    models.ReportComparativeDrives,
		Scope:   models.Scope{InstituteID: chi.URLParam(r, "instituteId"), Year: year, Limit: limit},
		Refresh: refresh(r),
	})
}

func (h *Handler) serveReport(w http.ResponseWriter, r *http.Request, req reporting.Request) {
	env, err := h.reports.Generate(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Message: "report generated", Data: env})
}

func (h *Handler) SearchSnapshots(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		writeJSON(w, http.StatusServiceUnavailable, response{Message: "snapshot indexing is disabled"})
		return
	}

	q := r.URL.Query()
	query := snapshot.Query{
		Kind:        models.ReportKind(q.Get("kind")),
		CompanyID:   q.Get("companyId"),
		InstituteID: q.Get("instituteId"),
		DriveID:     q.Get("driveId"),
	}
	if query.Kind != "" && !query.Kind.Valid() {
		h.writeError(w, errors.NewInvalidReportKindError(q.Get("kind")))
		return
	}
	var err error
	if query.Size, err = intParam(r, "size"); err != nil {
		h.writeError(w, err)
		return
	}
	if query.From, err = timeParam(r, "from"); err != nil {
		h.writeError(w, err)
		return
	}
	if query.To, err = timeParam(r, "to"); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.snapshots.Search(r.Context(), query)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Message: "snapshots found", Data: result})
}

func refresh(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	return v
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewInvalidInputError(name + " must be an integer")
	}
	return v, nil
}

func timeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errors.NewInvalidInputError(name + " must be an RFC 3339 timestamp")
	}
	return &t, nil
}
