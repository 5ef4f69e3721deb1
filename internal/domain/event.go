package domain

import "time"

type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

type Event struct {
	ID                   int32       `json:"id"`
	Title                string      `json:"title"`
	Description          string      `json:"description"`
	EventDate            time.Time   `json:"event_date"`
	EventTime            string      `json:"event_time"` // HH:MM
	Location             string      `json:"location"`
	Category             string      `json:"category"`
	ImageURL             string      `json:"image_url,omitempty"`
	MaxParticipants      int32       `json:"max_participants"`
	CurrentParticipants  int32       `json:"current_participants"`
	PriceCents           int32       `json:"price_cents"`
	Status               EventStatus `json:"status"`
	RegistrationDeadline *time.Time  `json:"registration_deadline,omitempty"`
	CreatedBy            int32       `json:"created_by"`
	CreatedOn            time.Time   `json:"created_on"`
	UpdatedOn            time.Time   `json:"updated_on"`

	// CallerStatus is the requesting user's own application status for this
	// event, populated on list/get reads for authenticated callers. Nil when
	// anonymous or never applied. Other users' statuses are never attached.
	CallerStatus *ParticipantStatus `json:"participation_status"`
}

func (e *Event) IsFull() bool {
	return e.CurrentParticipants >= e.MaxParticipants
}

func (e *Event) IsPast(now time.Time) bool {
	return e.EventDate.Before(now)
}

func (e *Event) IsRegistrationClosed(now time.Time) bool {
	return e.RegistrationDeadline != nil && e.RegistrationDeadline.Before(now)
}

type EventStats struct {
	TotalEvents     int32 `json:"total_events"`
	ActiveEvents    int32 `json:"active_events"`
	CancelledEvents int32 `json:"cancelled_events"`
	CompletedEvents int32 `json:"completed_events"`
	UpcomingEvents  int32 `json:"upcoming_events"`
}
