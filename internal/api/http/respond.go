package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/logger"
)

type errorResponse struct {
	Error    string  `json:"error"`
	EventIDs []int32 `json:"event_ids,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain sentinels onto HTTP status codes. Anything unmapped
// is a 500 with a generic body; the real error goes to the log only.
func writeError(w http.ResponseWriter, err error) {
	var batchErr *domain.BatchCapacityError
	if errors.As(err, &batchErr) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: batchErr.Error(), EventIDs: batchErr.EventIDs})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrReasonRequired),
		errors.Is(err, domain.ErrNoPendingInBatch):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrAccountBlocked):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrApplicationNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrEventNotActive),
		errors.Is(err, domain.ErrAlreadyApplied),
		errors.Is(err, domain.ErrAlreadyApproved),
		errors.Is(err, domain.ErrPermanentlyBarred),
		errors.Is(err, domain.ErrRegistrationClosed),
		errors.Is(err, domain.ErrEventFull),
		errors.Is(err, domain.ErrNotPending),
		errors.Is(err, domain.ErrNotRegistered),
		errors.Is(err, domain.ErrCannotLeaveApproved):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}
	return nil
}

type listResponse struct {
	Items any   `json:"items"`
	Total int32 `json:"total"`
	Page  int32 `json:"page"`
}
