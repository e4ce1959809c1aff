package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"poetrydesk/internal/domain"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode JSON", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, message, details string, statusCode int) {
	writeJSON(w, logger, ErrorResponse{Error: message, Details: details}, statusCode)
}

// writeServiceError maps a service error onto a status code. Validation
// errors list their fields; unexpected errors are logged and reported
// without internals.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, action string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, logger, ErrorResponse{Error: "Invalid input", Fields: verr.Fields}, http.StatusBadRequest)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, logger, "Invalid input", err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, logger, "Not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrPhoneInUse), errors.Is(err, domain.ErrPoemExists):
		writeError(w, logger, "Conflict", err.Error(), http.StatusConflict)
	default:
		logger.Error("failed to "+action,
			zap.Error(err),
			zap.String("request_id", RequestIDFrom(r.Context())))
		writeError(w, logger, "Failed to "+action, "", http.StatusInternalServerError)
	}
}
