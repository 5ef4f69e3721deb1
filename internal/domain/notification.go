package domain

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationParticipantApproved NotificationType = "participant_approved"
	NotificationParticipantRejected NotificationType = "participant_rejected"
	NotificationEventCancelled      NotificationType = "event_cancelled"
	NotificationEventUpdated        NotificationType = "event_updated"
	NotificationSystem              NotificationType = "system"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

// Notification is one append-only ledger entry for a user. Its lifecycle is
// independent from the application that triggered it: a lost notification is
// tolerable, a lost application is not.
type Notification struct {
	ID            int32                `json:"id"`
	UserID        int32                `json:"user_id"`
	Type          NotificationType     `json:"type"`
	Title         string               `json:"title"`
	Message       string               `json:"message"`
	IsRead        bool                 `json:"is_read"`
	ReadAt        *time.Time           `json:"read_at,omitempty"`
	EventID       *int32               `json:"event_id,omitempty"`
	ParticipantID *int32               `json:"participant_id,omitempty"`
	Priority      NotificationPriority `json:"priority"`
	CreatedOn     time.Time            `json:"created_on"`
}

// Each notification kind has its own constructor carrying exactly the fields
// that kind needs; there is no open metadata payload.

func NewApprovalNotification(userID, eventID, participantID int32, eventTitle string) *Notification {
	return &Notification{
		UserID:        userID,
		Type:          NotificationParticipantApproved,
		Title:         "Event Application Approved",
		Message:       fmt.Sprintf("Your application for %q has been approved! You can now attend the event.", eventTitle),
		EventID:       &eventID,
		ParticipantID: &participantID,
		Priority:      PriorityHigh,
	}
}

func NewRejectionNotification(userID, eventID, participantID int32, eventTitle, reason string) *Notification {
	msg := fmt.Sprintf("Your application for %q has been rejected.", eventTitle)
	if reason != "" {
		msg += " Reason: " + reason
	}
	return &Notification{
		UserID:        userID,
		Type:          NotificationParticipantRejected,
		Title:         "Event Application Rejected",
		Message:       msg,
		EventID:       &eventID,
		ParticipantID: &participantID,
		Priority:      PriorityMedium,
	}
}

func NewEventCancelledNotification(userID, eventID int32, eventTitle string) *Notification {
	return &Notification{
		UserID:   userID,
		Type:     NotificationEventCancelled,
		Title:    "Event Cancelled",
		Message:  fmt.Sprintf("The event %q has been cancelled by the organizer.", eventTitle),
		EventID:  &eventID,
		Priority: PriorityHigh,
	}
}

func NewEventUpdatedNotification(userID, eventID int32, eventTitle string) *Notification {
	return &Notification{
		UserID:   userID,
		Type:     NotificationEventUpdated,
		Title:    "Event Updated",
		Message:  fmt.Sprintf("The event %q you are registered for has been updated.", eventTitle),
		EventID:  &eventID,
		Priority: PriorityLow,
	}
}
