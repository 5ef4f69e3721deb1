package repository

import (
	"context"
	"time"

	"eventhub-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	SetBlocked(ctx context.Context, id int32, blocked bool) error
	TouchLogin(ctx context.Context, id int32, at time.Time) error
	List(ctx context.Context, page, pageSize int32) ([]domain.User, int32, error)
}

// EventFilter narrows event listings.
type EventFilter struct {
	Search       string
	Category     string
	Status       domain.EventStatus
	UpcomingOnly bool
	SortBy       string // "event_date", "created_on", "title"
	SortOrder    string // "asc" or "desc"
	Page         int32
	PageSize     int32
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id int32) (*domain.Event, error)
	List(ctx context.Context, f EventFilter) ([]domain.Event, int32, error)
	// Update never writes current_participants; that counter belongs to the
	// admission path alone.
	Update(ctx context.Context, event *domain.Event) error
	UpdateStatus(ctx context.Context, id int32, status domain.EventStatus) error
	// Delete removes the event and its applications in one transaction.
	// Notifications referencing the event are retained.
	Delete(ctx context.Context, id int32) error
	// ParticipationStatuses returns the caller's own application status per
	// event, keyed strictly on (eventIDs, userID). Events the user never
	// applied to are absent from the map.
	ParticipationStatuses(ctx context.Context, eventIDs []int32, userID int32) (map[int32]domain.ParticipantStatus, error)
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
	// ReconcileParticipantCounts re-aggregates approved applications and
	// repairs drifted counters. Consistency sweep only; the hot approval path
	// maintains the counter under its own atomic guard.
	ReconcileParticipantCounts(ctx context.Context) (int64, error)
	Stats(ctx context.Context, now time.Time) (*domain.EventStats, error)
}

// ParticipantFilter narrows participant listings.
type ParticipantFilter struct {
	Status    domain.ParticipantStatus
	Search    string
	EventID   int32 // ListPending only
	SortBy    string
	SortOrder string
	Page      int32
	PageSize  int32
}

type ParticipantRepository interface {
	// Create inserts a pending application. A (event_id, user_id) unique
	// violation surfaces as domain.ErrAlreadyApplied.
	Create(ctx context.Context, p *domain.Participant) error
	GetByID(ctx context.Context, id int32) (*domain.Participant, error)
	GetByEventAndUser(ctx context.Context, eventID, userID int32) (*domain.Participant, error)
	// Approve flips pending→approved and increments the event counter under a
	// capacity guard, in one transaction. Returns domain.ErrEventFull when the
	// guard refuses, domain.ErrNotPending when the row moved first.
	Approve(ctx context.Context, id, reviewerID int32, notes string, at time.Time) (*domain.Participant, error)
	Reject(ctx context.Context, id, reviewerID int32, reason, notes string, at time.Time) (*domain.Participant, error)
	// BulkApprove approves every pending application in ids or none of them.
	// Capacity refusal on any touched event rolls the whole batch back and
	// returns *domain.BatchCapacityError naming the offending events.
	BulkApprove(ctx context.Context, ids []int32, reviewerID int32, at time.Time) ([]domain.Participant, error)
	// Delete removes an application unconditionally, decrementing the event
	// counter in the same transaction when the row was approved.
	Delete(ctx context.Context, id int32) error
	// DeleteOwn removes the caller's pending or rejected application. Approved
	// rows are refused with domain.ErrCannotLeaveApproved.
	DeleteOwn(ctx context.Context, eventID, userID int32) error
	ListByEvent(ctx context.Context, eventID int32, f ParticipantFilter) ([]domain.Participant, int32, error)
	ListByUser(ctx context.Context, userID int32, f ParticipantFilter) ([]domain.Participant, int32, error)
	ListPending(ctx context.Context, f ParticipantFilter) ([]domain.Participant, int32, error)
	Stats(ctx context.Context) (*domain.ParticipantStats, error)
}

// NotificationFilter narrows notification listings.
type NotificationFilter struct {
	Type     domain.NotificationType
	IsRead   *bool
	Page     int32
	PageSize int32
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int32, f NotificationFilter) ([]domain.Notification, int32, error)
	UnreadCount(ctx context.Context, userID int32) (int32, error)
	MarkRead(ctx context.Context, id, userID int32, at time.Time) error
	MarkAllRead(ctx context.Context, userID int32, at time.Time) (int64, error)
	Delete(ctx context.Context, id, userID int32) error
}

type SessionRepository interface {
	// Replace upserts the single session row for a user, invalidating any
	// previously stored refresh token.
	Replace(ctx context.Context, s *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	// Rotate swaps oldToken for newToken only if oldToken is still the stored
	// one. The loser of two concurrent rotations gets domain.ErrTokenInvalid.
	Rotate(ctx context.Context, userID int32, oldToken, newToken string, expiresAt time.Time) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID int32) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
