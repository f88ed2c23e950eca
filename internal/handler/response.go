package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/celosave/savings/internal/amount"
	"github.com/celosave/savings/internal/backend"
	"github.com/celosave/savings/internal/goalid"
	"github.com/celosave/savings/internal/service"
	"github.com/celosave/savings/internal/validation"
)

type errorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

func respondWithFields(w http.ResponseWriter, fields []validation.FieldError) {
	respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
}

// respondWithErr maps domain errors onto HTTP statuses. Unknown errors are logged and hidden.
func respondWithErr(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		respondWithError(w, code, "internal server error")
		return
	}
	if code >= http.StatusInternalServerError {
		slog.Warn("backend unavailable", "error", err, "method", r.Method, "path", r.URL.Path)
	}
	respondWithError(w, code, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, amount.ErrInvalidAmount),
		errors.Is(err, goalid.ErrInvalidIdentifier),
		errors.Is(err, validation.ErrNameRequired),
		errors.Is(err, validation.ErrNameTooLong),
		errors.Is(err, validation.ErrInvalidAddress),
		errors.Is(err, service.ErrInvalidDeadline):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoCaller),
		errors.Is(err, backend.ErrNoOwner):
		return http.StatusUnauthorized
	case errors.Is(err, backend.ErrCallerMismatch):
		return http.StatusForbidden
	case errors.Is(err, backend.ErrGoalNotFound),
		errors.Is(err, service.ErrOperationNotFound):
		return http.StatusNotFound
	case errors.Is(err, backend.ErrGoalConflict),
		errors.Is(err, backend.ErrAmbiguousGoal):
		return http.StatusConflict
	case errors.Is(err, backend.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, backend.ErrBackendNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, backend.ErrTransportFailure),
		errors.Is(err, backend.ErrApprovalFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into dst and validates its tags. It writes the error response itself.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	if fields := validation.Struct(dst); fields != nil {
		respondWithFields(w, fields)
		return false
	}
	return true
}
