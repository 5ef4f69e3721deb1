package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/logger"
	"eventhub-backend/internal/repository"
)

var eventTimeFormat = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

type eventService struct {
	eventRepo repository.EventRepository
	partRepo  repository.ParticipantRepository
	noteRepo  repository.NotificationRepository
}

func NewEventService(
	eventRepo repository.EventRepository,
	partRepo repository.ParticipantRepository,
	noteRepo repository.NotificationRepository,
) EventService {
	return &eventService{
		eventRepo: eventRepo,
		partRepo:  partRepo,
		noteRepo:  noteRepo,
	}
}

func validateEventInput(input EventInput, now time.Time) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if input.MaxParticipants < 1 {
		return fmt.Errorf("%w: max_participants must be at least 1", domain.ErrValidation)
	}
	if input.EventDate.Before(now) {
		return fmt.Errorf("%w: event date must be in the future", domain.ErrValidation)
	}
	if !eventTimeFormat.MatchString(input.EventTime) {
		return fmt.Errorf("%w: event time must be HH:MM", domain.ErrValidation)
	}
	if input.RegistrationDeadline != nil && !input.RegistrationDeadline.Before(input.EventDate) {
		return fmt.Errorf("%w: registration deadline must precede the event date", domain.ErrValidation)
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, creatorID int32, input EventInput) (*domain.Event, error) {
	if err := validateEventInput(input, time.Now()); err != nil {
		return nil, err
	}

	event := &domain.Event{
		Title:                input.Title,
		Description:          input.Description,
		EventDate:            input.EventDate,
		EventTime:            input.EventTime,
		Location:             input.Location,
		Category:             input.Category,
		ImageURL:             input.ImageURL,
		MaxParticipants:      input.MaxParticipants,
		PriceCents:           input.PriceCents,
		Status:               domain.EventStatusActive,
		RegistrationDeadline: input.RegistrationDeadline,
		CreatedBy:            creatorID,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	logger.Info("Event created", "eventID", event.ID, "createdBy", creatorID)
	return event, nil
}

func (s *eventService) Get(ctx context.Context, id int32, callerID *int32) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerID != nil {
		statuses, err := s.eventRepo.ParticipationStatuses(ctx, []int32{id}, *callerID)
		if err != nil {
			return nil, err
		}
		if status, ok := statuses[id]; ok {
			event.CallerStatus = &status
		}
	}
	return event, nil
}

// List attaches the caller's own application status per event. The lookup is
// keyed strictly on (event ids, callerID); no other user's rows are touched.
func (s *eventService) List(ctx context.Context, f repository.EventFilter, callerID *int32) ([]domain.Event, int32, error) {
	events, count, err := s.eventRepo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if callerID == nil || len(events) == 0 {
		return events, count, nil
	}

	ids := make([]int32, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	statuses, err := s.eventRepo.ParticipationStatuses(ctx, ids, *callerID)
	if err != nil {
		return nil, 0, err
	}
	for i := range events {
		if status, ok := statuses[events[i].ID]; ok {
			st := status
			events[i].CallerStatus = &st
		}
	}
	return events, count, nil
}

func (s *eventService) Update(ctx context.Context, id int32, input EventInput) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateEventInput(input, time.Now()); err != nil {
		return nil, err
	}

	event.Title = input.Title
	event.Description = input.Description
	event.EventDate = input.EventDate
	event.EventTime = input.EventTime
	event.Location = input.Location
	event.Category = input.Category
	event.ImageURL = input.ImageURL
	event.MaxParticipants = input.MaxParticipants
	event.PriceCents = input.PriceCents
	event.RegistrationDeadline = input.RegistrationDeadline

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.notifyParticipants(ctx, event, domain.NotificationEventUpdated)
	return event, nil
}

func (s *eventService) UpdateStatus(ctx context.Context, id int32, status domain.EventStatus) (*domain.Event, error) {
	switch status {
	case domain.EventStatusActive, domain.EventStatusCancelled, domain.EventStatusCompleted:
	default:
		return nil, fmt.Errorf("%w: status must be one of active, cancelled, completed", domain.ErrValidation)
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	event.Status = status
	logger.Info("Event status updated", "eventID", id, "status", status)

	if status == domain.EventStatusCancelled {
		s.notifyParticipants(ctx, event, domain.NotificationEventCancelled)
	}
	return event, nil
}

// Delete removes the event together with its applications; notifications
// referencing the event are kept (their loss or orphaning is tolerable).
func (s *eventService) Delete(ctx context.Context, id int32) error {
	return s.eventRepo.Delete(ctx, id)
}

func (s *eventService) Stats(ctx context.Context) (*domain.EventStats, error) {
	return s.eventRepo.Stats(ctx, time.Now())
}

// notifyParticipants fans one ledger entry out to every pending or approved
// applicant. Best-effort: each failure is logged and isolated.
func (s *eventService) notifyParticipants(ctx context.Context, event *domain.Event, kind domain.NotificationType) {
	participants, _, err := s.partRepo.ListByEvent(ctx, event.ID, repository.ParticipantFilter{PageSize: 1000})
	if err != nil {
		logger.SideEffectFailed("notification", err, "eventID", event.ID)
		return
	}
	for _, p := range participants {
		if p.Status == domain.ParticipantStatusRejected {
			continue
		}
		var note *domain.Notification
		switch kind {
		case domain.NotificationEventCancelled:
			note = domain.NewEventCancelledNotification(p.UserID, event.ID, event.Title)
		case domain.NotificationEventUpdated:
			note = domain.NewEventUpdatedNotification(p.UserID, event.ID, event.Title)
		default:
			continue
		}
		if err := s.noteRepo.Create(ctx, note); err != nil {
			logger.SideEffectFailed("notification", err, "eventID", event.ID, "userID", p.UserID)
		}
	}
}
