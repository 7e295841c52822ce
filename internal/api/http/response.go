package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"borrowhub-backend/internal/domain"
	"borrowhub-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses:
// validation 400, not-found 404, unauthorized 403, lost conditional
// update 409, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Error(), Code: "validation_error"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "resource not found", Code: "not_found"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "not allowed for this user", Code: "unauthorized"})
	case errors.Is(err, domain.ErrPreconditionFailed):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "the resource changed state, reload and retry", Code: "precondition_failed"})
	default:
		logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "internal"})
	}
}
