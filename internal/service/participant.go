package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/logger"
	"eventhub-backend/internal/repository"
)

type participantService struct {
	partRepo  repository.ParticipantRepository
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	noteRepo  repository.NotificationRepository
	emailSvc  EmailService
}

func NewParticipantService(
	partRepo repository.ParticipantRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) ParticipantService {
	return &participantService{
		partRepo:  partRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		noteRepo:  noteRepo,
		emailSvc:  emailSvc,
	}
}

// Join checks the admission preconditions in a fixed order so every failure
// mode surfaces as its own error. The capacity check here is advisory only;
// pending applications are a queue, not a reservation, and the binding
// capacity check happens again at approval time.
func (s *participantService) Join(ctx context.Context, eventID, userID int32, details domain.AttendeeDetails) (*domain.Participant, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventStatusActive {
		return nil, domain.ErrEventNotActive
	}

	existing, err := s.partRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil && !errors.Is(err, domain.ErrApplicationNotFound) {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case domain.ParticipantStatusApproved:
			return nil, domain.ErrAlreadyApproved
		case domain.ParticipantStatusRejected:
			return nil, domain.ErrPermanentlyBarred
		default:
			return nil, domain.ErrAlreadyApplied
		}
	}

	now := time.Now()
	if event.IsRegistrationClosed(now) {
		return nil, domain.ErrRegistrationClosed
	}
	if event.IsFull() {
		return nil, domain.ErrEventFull
	}

	p := &domain.Participant{
		EventID:         eventID,
		UserID:          userID,
		Status:          domain.ParticipantStatusPending,
		AppliedAt:       now,
		AttendeeDetails: details,
	}
	// the unique (event_id, user_id) constraint backstops the lookup above
	if err := s.partRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	logger.Info("Participant application created", "eventID", eventID, "userID", userID, "participantID", p.ID)
	return p, nil
}

func (s *participantService) Leave(ctx context.Context, eventID, userID int32) error {
	return s.partRepo.DeleteOwn(ctx, eventID, userID)
}

func (s *participantService) Approve(ctx context.Context, applicationID, reviewerID int32, notes string) (*domain.Participant, error) {
	p, err := s.partRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.ParticipantStatusPending {
		return nil, domain.ErrNotPending
	}

	approved, err := s.partRepo.Approve(ctx, applicationID, reviewerID, notes, time.Now())
	if err != nil {
		return nil, err
	}
	logger.Info("Participant approved", "participantID", approved.ID, "eventID", approved.EventID, "reviewerID", reviewerID)

	s.notifyDecision(ctx, approved)
	return approved, nil
}

func (s *participantService) Reject(ctx context.Context, applicationID, reviewerID int32, reason, notes string) (*domain.Participant, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrReasonRequired
	}

	p, err := s.partRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.ParticipantStatusPending {
		return nil, domain.ErrNotPending
	}

	rejected, err := s.partRepo.Reject(ctx, applicationID, reviewerID, reason, notes, time.Now())
	if err != nil {
		return nil, err
	}
	logger.Info("Participant rejected", "participantID", rejected.ID, "eventID", rejected.EventID, "reviewerID", reviewerID)

	s.notifyDecision(ctx, rejected)
	return rejected, nil
}

func (s *participantService) BulkApprove(ctx context.Context, applicationIDs []int32, reviewerID int32) (int32, error) {
	if len(applicationIDs) == 0 {
		return 0, domain.ErrNoPendingInBatch
	}

	approved, err := s.partRepo.BulkApprove(ctx, applicationIDs, reviewerID, time.Now())
	if err != nil {
		return 0, err
	}
	logger.Info("Bulk approval committed", "count", len(approved), "reviewerID", reviewerID)

	// one notification per approval; a failure on one never blocks the rest
	for i := range approved {
		s.notifyDecision(ctx, &approved[i])
	}
	return int32(len(approved)), nil
}

func (s *participantService) Delete(ctx context.Context, applicationID int32) error {
	return s.partRepo.Delete(ctx, applicationID)
}

func (s *participantService) Get(ctx context.Context, applicationID int32) (*domain.Participant, error) {
	return s.partRepo.GetByID(ctx, applicationID)
}

func (s *participantService) ListForEvent(ctx context.Context, eventID int32, f repository.ParticipantFilter) ([]domain.Participant, int32, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, 0, err
	}
	return s.partRepo.ListByEvent(ctx, eventID, f)
}

func (s *participantService) ListForUser(ctx context.Context, userID int32, f repository.ParticipantFilter) ([]domain.Participant, int32, error) {
	return s.partRepo.ListByUser(ctx, userID, f)
}

func (s *participantService) ListPending(ctx context.Context, f repository.ParticipantFilter) ([]domain.Participant, int32, error) {
	return s.partRepo.ListPending(ctx, f)
}

func (s *participantService) Stats(ctx context.Context) (*domain.ParticipantStats, error) {
	return s.partRepo.Stats(ctx)
}

// notifyDecision records the decision in the notification ledger and mails
// the applicant. Both channels are best-effort: the admission transition has
// already committed and is never rolled back here.
func (s *participantService) notifyDecision(ctx context.Context, p *domain.Participant) {
	event, err := s.eventRepo.GetByID(ctx, p.EventID)
	if err != nil {
		logger.SideEffectFailed("notification", err, "participantID", p.ID)
		return
	}

	var note *domain.Notification
	switch p.Status {
	case domain.ParticipantStatusApproved:
		note = domain.NewApprovalNotification(p.UserID, event.ID, p.ID, event.Title)
	case domain.ParticipantStatusRejected:
		note = domain.NewRejectionNotification(p.UserID, event.ID, p.ID, event.Title, p.RejectionReason)
	default:
		return
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.SideEffectFailed("notification", err, "participantID", p.ID, "type", note.Type)
	}

	if s.emailSvc == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		logger.SideEffectFailed("email", err, "participantID", p.ID)
		return
	}
	switch p.Status {
	case domain.ParticipantStatusApproved:
		err = s.emailSvc.SendApprovalNotice(ctx, user.Email, user.FullName(), event.Title)
	case domain.ParticipantStatusRejected:
		err = s.emailSvc.SendRejectionNotice(ctx, user.Email, user.FullName(), event.Title, p.RejectionReason)
	}
	if err != nil {
		logger.SideEffectFailed("email", err, "participantID", p.ID)
	}
}
