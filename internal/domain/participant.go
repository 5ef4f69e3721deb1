package domain

import "time"

type ParticipantStatus string

const (
	ParticipantStatusPending  ParticipantStatus = "pending"
	ParticipantStatusApproved ParticipantStatus = "approved"
	ParticipantStatusRejected ParticipantStatus = "rejected"
)

// Participant is a single application of a user to attend an event. Storage
// enforces at most one row per (event_id, user_id), ever; a rejected row
// permanently bars the pair from reapplying.
type Participant struct {
	ID              int32             `json:"id"`
	EventID         int32             `json:"event_id"`
	UserID          int32             `json:"user_id"`
	Status          ParticipantStatus `json:"status"`
	AppliedAt       time.Time         `json:"applied_at"`
	ReviewedAt      *time.Time        `json:"reviewed_at,omitempty"`
	ReviewedBy      *int32            `json:"reviewed_by,omitempty"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	AttendeeDetails AttendeeDetails   `json:"attendee_details"`

	Applicant *UserSummary  `json:"applicant,omitempty"` // populated on organizer listings
	Event     *EventSummary `json:"event,omitempty"`     // populated on "my events" listings
}

// AttendeeDetails is free-form metadata supplied by the applicant at join time.
type AttendeeDetails struct {
	EmergencyContact    string `json:"emergency_contact,omitempty"`
	DietaryRequirements string `json:"dietary_requirements,omitempty"`
	AccessibilityNeeds  string `json:"accessibility_needs,omitempty"`
}

type EventSummary struct {
	ID        int32       `json:"id"`
	Title     string      `json:"title"`
	EventDate time.Time   `json:"event_date"`
	EventTime string      `json:"event_time"`
	Location  string      `json:"location"`
	Status    EventStatus `json:"status"`
}

type ParticipantStats struct {
	TotalParticipants    int32 `json:"total_participants"`
	PendingParticipants  int32 `json:"pending_participants"`
	ApprovedParticipants int32 `json:"approved_participants"`
	RejectedParticipants int32 `json:"rejected_participants"`
}
