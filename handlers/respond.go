package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"productivity-app/backend/kanban-service/logging"
	"productivity-app/backend/kanban-service/services"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto HTTP status semantics. The
// workflow gate rejection keeps its machine-readable flag so clients can
// prompt for the missing due date and resubmit.
func respondServiceError(w http.ResponseWriter, err error) {
	var gate *services.DueDateRequiredError
	if errors.As(err, &gate) {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":          "DueDate required",
			"requireDueDate": true,
			"message":        gate.Message(),
		})
		return
	}

	var validation *services.ValidationError
	if errors.As(err, &validation) {
		respondError(w, http.StatusBadRequest, validation.Msg)
		return
	}

	switch {
	case errors.Is(err, services.ErrBoardNotFound),
		errors.Is(err, services.ErrColumnNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrAccessDenied),
		errors.Is(err, services.ErrNotOwner):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: Unhandled service error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", value)
}
