package api

import (
	"encoding/json"
	"net/http"

	"placement-analytics/internal/common/errors"
)

type response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

type errorBody struct {
	Code      errors.ErrorCode `json:"code"`
	Details   string           `json:"details,omitempty"`
	Retryable bool             `json:"retryable"`
}

// statusFor maps an error code onto the HTTP status a client should act on.
func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidScope, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidReportKind:
		return http.StatusBadRequest
	case errors.ErrCodeResourceNotFound, errors.ErrCodeIndexNotFound:
		return http.StatusNotFound
	case errors.ErrCodeDatasetTimeout, errors.ErrCodeQueryTimeout, errors.ErrCodeSearchTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeDatasetLoadFailed,
		errors.ErrCodeDatabaseConnectionFailed,
		errors.ErrCodeQueryExecutionFailed,
		errors.ErrCodeElasticsearchConnectionFailed,
		errors.ErrCodeSearchQueryFailed,
		errors.ErrCodeWorkflowEngineUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	stdErr := errors.Normalize(err)
	status := statusFor(stdErr.Code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
	}
	writeJSON(w, status, response{
		Message: stdErr.Message,
		Error: errorBody{
			Code:      stdErr.Code,
			Details:   stdErr.Details,
			Retryable: stdErr.Retryable,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
