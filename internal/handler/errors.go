package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/carpool/internal/domain"
)

// ErrorDetail is the machine-readable code plus human-readable message of a
// failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the client may have gone away; nothing useful to do.
	json.NewEncoder(w).Encode(v)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// requestBody writes a 422 for a request rejected before reaching the
// service layer (e.g. missing or malformed body).
func requestBody(w http.ResponseWriter, message string) {
	writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", message)
}

// writeServiceError maps a service error to its HTTP response.
// Anything that is not a known domain sentinel is logged and becomes a 500.
// what names the resource for not-found messages (e.g. "ride").
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, "not_found", what+" not found")
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrAlreadyJoined):
		writeErrorBody(w, http.StatusConflict, "already_joined", domain.ErrAlreadyJoined.Error())
	case errors.Is(err, domain.ErrRideFull):
		writeErrorBody(w, http.StatusConflict, "ride_full", domain.ErrRideFull.Error())
	case errors.Is(err, domain.ErrNotOwner):
		writeErrorBody(w, http.StatusForbidden, "forbidden", domain.ErrNotOwner.Error())
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeErrorBody(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unwrapMessage extracts the human-readable part from a wrapped validation error.
// e.g. "service.RideService.CreateOffer: validation error: required fields missing: origin"
// → "required fields missing: origin"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const marker = domain.ErrValidationText + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
