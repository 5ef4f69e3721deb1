package service

import (
	"context"
	"time"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/repository"
)

// TokenPair is the result of every successful credential exchange.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	// VerifyAccess validates an access token and re-checks the blocked flag
	// against the store: a block takes effect on the next request.
	VerifyAccess(ctx context.Context, accessToken string) (*domain.User, error)
}

type EventInput struct {
	Title                string
	Description          string
	EventDate            time.Time
	EventTime            string
	Location             string
	Category             string
	ImageURL             string
	MaxParticipants      int32
	PriceCents           int32
	RegistrationDeadline *time.Time
}

type EventService interface {
	Create(ctx context.Context, creatorID int32, input EventInput) (*domain.Event, error)
	Get(ctx context.Context, id int32, callerID *int32) (*domain.Event, error)
	List(ctx context.Context, f repository.EventFilter, callerID *int32) ([]domain.Event, int32, error)
	Update(ctx context.Context, id int32, input EventInput) (*domain.Event, error)
	UpdateStatus(ctx context.Context, id int32, status domain.EventStatus) (*domain.Event, error)
	Delete(ctx context.Context, id int32) error
	Stats(ctx context.Context) (*domain.EventStats, error)
}

type ParticipantService interface {
	Join(ctx context.Context, eventID, userID int32, details domain.AttendeeDetails) (*domain.Participant, error)
	Leave(ctx context.Context, eventID, userID int32) error
	Approve(ctx context.Context, applicationID, reviewerID int32, notes string) (*domain.Participant, error)
	Reject(ctx context.Context, applicationID, reviewerID int32, reason, notes string) (*domain.Participant, error)
	BulkApprove(ctx context.Context, applicationIDs []int32, reviewerID int32) (int32, error)
	Delete(ctx context.Context, applicationID int32) error
	Get(ctx context.Context, applicationID int32) (*domain.Participant, error)
	ListForEvent(ctx context.Context, eventID int32, f repository.ParticipantFilter) ([]domain.Participant, int32, error)
	ListForUser(ctx context.Context, userID int32, f repository.ParticipantFilter) ([]domain.Participant, int32, error)
	ListPending(ctx context.Context, f repository.ParticipantFilter) ([]domain.Participant, int32, error)
	Stats(ctx context.Context) (*domain.ParticipantStats, error)
}

type NotificationService interface {
	List(ctx context.Context, userID int32, f repository.NotificationFilter) ([]domain.Notification, int32, error)
	UnreadCount(ctx context.Context, userID int32) (int32, error)
	MarkRead(ctx context.Context, userID, notificationID int32) error
	MarkAllRead(ctx context.Context, userID int32) (int64, error)
	Delete(ctx context.Context, userID, notificationID int32) error
}

type UserService interface {
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int32, firstName, lastName, phone string) (*domain.User, error)
	List(ctx context.Context, page, pageSize int32) ([]domain.User, int32, error)
	SetBlocked(ctx context.Context, userID int32, blocked bool) error
}

type EmailService interface {
	SendApprovalNotice(ctx context.Context, email, name, eventTitle string) error
	SendRejectionNotice(ctx context.Context, email, name, eventTitle, reason string) error
}
