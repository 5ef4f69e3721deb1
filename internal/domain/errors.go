package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Admission errors. Each precondition failure is a distinct value so callers
// can tell "retry later" conflicts (EventFull) from terminal ones
// (PermanentlyBarred) without string matching.
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventNotActive      = errors.New("event is not active for participation")
	ErrAlreadyApplied      = errors.New("user has already applied for this event")
	ErrAlreadyApproved     = errors.New("user is already an approved participant of this event")
	ErrPermanentlyBarred   = errors.New("application was rejected; reapplying to this event is not possible")
	ErrRegistrationClosed  = errors.New("registration deadline has passed")
	ErrEventFull           = errors.New("event is full")
	ErrApplicationNotFound = errors.New("participant application not found")
	ErrNotPending          = errors.New("participant application is not pending")
	ErrReasonRequired      = errors.New("rejection reason is required")
	ErrNotRegistered       = errors.New("user is not registered for this event")
	ErrCannotLeaveApproved = errors.New("approved participants cannot leave; contact the organizer")
	ErrNoPendingInBatch    = errors.New("no pending applications matched the batch")
)

// Auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountBlocked     = errors.New("account is blocked")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrUserNotFound       = errors.New("user not found")
)

var ErrNotificationNotFound = errors.New("notification not found")

// ErrValidation marks caller-fault input errors; wrap it with the specific
// complaint, e.g. fmt.Errorf("%w: title is required", ErrValidation).
var ErrValidation = errors.New("validation failed")

// BatchCapacityError fails a bulk approval atomically, naming every event
// whose remaining capacity cannot absorb its share of the batch.
type BatchCapacityError struct {
	EventIDs []int32
}

func (e *BatchCapacityError) Error() string {
	ids := make([]string, len(e.EventIDs))
	for i, id := range e.EventIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return "batch approval exceeds capacity for events: " + strings.Join(ids, ", ")
}
