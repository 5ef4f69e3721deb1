package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func activeEvent(id, current, max int32) *domain.Event {
	return &domain.Event{
		ID:                  id,
		Title:               "Test Event",
		EventDate:           time.Now().Add(48 * time.Hour),
		Status:              domain.EventStatusActive,
		MaxParticipants:     max,
		CurrentParticipants: current,
	}
}

func TestParticipantService_Join(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesPendingApplication", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		eventRepo := new(MockEventRepo)
		svc := NewParticipantService(partRepo, eventRepo, nil, nil, nil)

		eventRepo.On("GetByID", ctx, int32(1)).Return(activeEvent(1, 2, 10), nil).Once()
		partRepo.On("GetByEventAndUser", ctx, int32(1), int32(7)).Return(nil, domain.ErrApplicationNotFound).Once()
		partRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Participant) bool {
			return p.EventID == 1 && p.UserID == 7 && p.Status == domain.ParticipantStatusPending
		})).Return(nil).Once()

		p, err := svc.Join(ctx, 1, 7, domain.AttendeeDetails{})
		assert.NoError(t, err)
		assert.Equal(t, domain.ParticipantStatusPending, p.Status)
		partRepo.AssertExpectations(t)
	})

	t.Run("RejectedApplicantIsPermanentlyBarred", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		eventRepo := new(MockEventRepo)
		svc := NewParticipantService(partRepo, eventRepo, nil, nil, nil)

		eventRepo.On("GetByID", ctx, int32(1)).Return(activeEvent(1, 2, 10), nil).Once()
		partRepo.On("GetByEventAndUser", ctx, int32(1), int32(7)).
			Return(&domain.Participant{ID: 5, EventID: 1, UserID: 7, Status: domain.ParticipantStatusRejected}, nil).Once()

		_, err := svc.Join(ctx, 1, 7, domain.AttendeeDetails{})
		assert.ErrorIs(t, err, domain.ErrPermanentlyBarred)
		partRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ExistingPendingApplication", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		eventRepo := new(MockEventRepo)
		svc := NewParticipantService(partRepo, eventRepo, nil, nil, nil)

		eventRepo.On("GetByID", ctx, int32(1)).Return(activeEvent(1, 2, 10), nil).Once()
		partRepo.On("GetByEventAndUser", ctx, int32(1), int32(7)).
			Return(&domain.Participant{Status: domain.ParticipantStatusPending}, nil).Once()

		_, err := svc.Join(ctx, 1, 7, domain.AttendeeDetails{})
		assert.ErrorIs(t, err, domain.ErrAlreadyApplied)
	})

	t.Run("AlreadyApproved", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		eventRepo := new(MockEventRepo)
		svc := NewParticipantService(partRepo, eventRepo, nil, nil, nil)

		eventRepo.On("GetByID", ctx, int32(1)).Return(activeEvent(1, 2, 10), nil).Once()
		partRepo.On("GetByEventAndUser", ctx, int32(1), int32(7)).
			Return(&domain.Participant{Status: domain.ParticipantStatusApproved}, nil).Once()

		_, err := svc.Join(ctx, 1, 7, domain.AttendeeDetails{})
		assert.ErrorIs(t, err, domain.ErrAlreadyApproved)
	})

	t.Run("FullEvent", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		eventRepo := new(MockEventRepo)
		svc := NewParticipantService(partRepo, eventRepo, nil, nil, nil)

		eventRepo.On("GetByID", ctx, int32(1)).Return(activeEvent(1, 10, 10), nil).Once()
		partRepo.On("GetByEventAndUser", ctx, int32(1), int32(7)).Return(nil, domain.ErrApplicationNotFound).Once()

		_, err := svc.Join(ctx, 1, 7, domain.AttendeeDetails{})
		assert.ErrorIs(t, err, domain.ErrEventFull)
	})

	t.Run("RegistrationClosed", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		eventRepo := new(MockEventRepo)
		svc := NewParticipantService(partRepo, eventRepo, nil, nil, nil)

		event := activeEvent(1, 2, 10)
		deadline := time.Now().Add(-time.Hour)
		event.RegistrationDeadline = &deadline
		eventRepo.On("GetByID", ctx, int32(1)).Return(event, nil).Once()
		partRepo.On("GetByEventAndUser", ctx, int32(1), int32(7)).Return(nil, domain.ErrApplicationNotFound).Once()

		_, err := svc.Join(ctx, 1, 7, domain.AttendeeDetails{})
		assert.ErrorIs(t, err, domain.ErrRegistrationClosed)
	})

	t.Run("InactiveEvent", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		eventRepo := new(MockEventRepo)
		svc := NewParticipantService(partRepo, eventRepo, nil, nil, nil)

		event := activeEvent(1, 2, 10)
		event.Status = domain.EventStatusCancelled
		eventRepo.On("GetByID", ctx, int32(1)).Return(event, nil).Once()

		_, err := svc.Join(ctx, 1, 7, domain.AttendeeDetails{})
		assert.ErrorIs(t, err, domain.ErrEventNotActive)
	})
}

func TestParticipantService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		eventRepo := new(MockEventRepo)
		userRepo := new(MockUserRepo)
		noteRepo := new(MockNotificationRepo)
		emailSvc := new(MockEmailService)
		svc := NewParticipantService(partRepo, eventRepo, userRepo, noteRepo, emailSvc)

		pending := &domain.Participant{ID: 5, EventID: 1, UserID: 7, Status: domain.ParticipantStatusPending}
		approved := &domain.Participant{ID: 5, EventID: 1, UserID: 7, Status: domain.ParticipantStatusApproved}
		partRepo.On("GetByID", ctx, int32(5)).Return(pending, nil).Once()
		partRepo.On("Approve", ctx, int32(5), int32(99), "", mock.AnythingOfType("time.Time")).Return(approved, nil).Once()

		eventRepo.On("GetByID", ctx, int32(1)).Return(activeEvent(1, 3, 10), nil).Once()
		noteRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == 7 && n.Type == domain.NotificationParticipantApproved
		})).Return(nil).Once()
		userRepo.On("GetByID", ctx, int32(7)).Return(&domain.User{ID: 7, Email: "a@test.com", FirstName: "A"}, nil).Once()
		emailSvc.On("SendApprovalNotice", ctx, "a@test.com", mock.Anything, "Test Event").Return(nil).Once()

		got, err := svc.Approve(ctx, 5, 99, "")
		assert.NoError(t, err)
		assert.Equal(t, domain.ParticipantStatusApproved, got.Status)
		partRepo.AssertExpectations(t)
		noteRepo.AssertExpectations(t)
		emailSvc.AssertExpectations(t)
	})

	t.Run("NotPending", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		svc := NewParticipantService(partRepo, nil, nil, nil, nil)

		partRepo.On("GetByID", ctx, int32(5)).
			Return(&domain.Participant{ID: 5, Status: domain.ParticipantStatusApproved}, nil).Once()

		_, err := svc.Approve(ctx, 5, 99, "")
		assert.ErrorIs(t, err, domain.ErrNotPending)
		partRepo.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CapacityGuardRefuses", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		svc := NewParticipantService(partRepo, nil, nil, nil, nil)

		pending := &domain.Participant{ID: 5, EventID: 1, Status: domain.ParticipantStatusPending}
		partRepo.On("GetByID", ctx, int32(5)).Return(pending, nil).Once()
		partRepo.On("Approve", ctx, int32(5), int32(99), "", mock.AnythingOfType("time.Time")).
			Return(nil, domain.ErrEventFull).Once()

		_, err := svc.Approve(ctx, 5, 99, "")
		assert.ErrorIs(t, err, domain.ErrEventFull)
	})

	t.Run("NotificationFailureDoesNotFailApproval", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		eventRepo := new(MockEventRepo)
		userRepo := new(MockUserRepo)
		noteRepo := new(MockNotificationRepo)
		svc := NewParticipantService(partRepo, eventRepo, userRepo, noteRepo, nil)

		pending := &domain.Participant{ID: 5, EventID: 1, UserID: 7, Status: domain.ParticipantStatusPending}
		approved := &domain.Participant{ID: 5, EventID: 1, UserID: 7, Status: domain.ParticipantStatusApproved}
		partRepo.On("GetByID", ctx, int32(5)).Return(pending, nil).Once()
		partRepo.On("Approve", ctx, int32(5), int32(99), "", mock.AnythingOfType("time.Time")).Return(approved, nil).Once()
		eventRepo.On("GetByID", ctx, int32(1)).Return(activeEvent(1, 3, 10), nil).Once()
		noteRepo.On("Create", ctx, mock.Anything).Return(errors.New("ledger unavailable")).Once()

		got, err := svc.Approve(ctx, 5, 99, "")
		assert.NoError(t, err)
		assert.Equal(t, domain.ParticipantStatusApproved, got.Status)
	})
}

func TestParticipantService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("ReasonRequired", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		svc := NewParticipantService(partRepo, nil, nil, nil, nil)

		_, err := svc.Reject(ctx, 5, 99, "   ", "")
		assert.ErrorIs(t, err, domain.ErrReasonRequired)
		partRepo.AssertNotCalled(t, "Reject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		eventRepo := new(MockEventRepo)
		userRepo := new(MockUserRepo)
		noteRepo := new(MockNotificationRepo)
		svc := NewParticipantService(partRepo, eventRepo, userRepo, noteRepo, nil)

		pending := &domain.Participant{ID: 5, EventID: 1, UserID: 7, Status: domain.ParticipantStatusPending}
		rejected := &domain.Participant{ID: 5, EventID: 1, UserID: 7, Status: domain.ParticipantStatusRejected, RejectionReason: "no capacity for minors"}
		partRepo.On("GetByID", ctx, int32(5)).Return(pending, nil).Once()
		partRepo.On("Reject", ctx, int32(5), int32(99), "no capacity for minors", "", mock.AnythingOfType("time.Time")).Return(rejected, nil).Once()
		eventRepo.On("GetByID", ctx, int32(1)).Return(activeEvent(1, 3, 10), nil).Once()
		noteRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Type == domain.NotificationParticipantRejected
		})).Return(nil).Once()

		got, err := svc.Reject(ctx, 5, 99, "no capacity for minors", "")
		assert.NoError(t, err)
		assert.Equal(t, domain.ParticipantStatusRejected, got.Status)
		noteRepo.AssertExpectations(t)
	})
}

func TestParticipantService_BulkApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyBatch", func(t *testing.T) {
		svc := NewParticipantService(new(MockParticipantRepo), nil, nil, nil, nil)
		_, err := svc.BulkApprove(ctx, nil, 99)
		assert.ErrorIs(t, err, domain.ErrNoPendingInBatch)
	})

	t.Run("CapacityFailureIsAllOrNothing", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		svc := NewParticipantService(partRepo, nil, nil, nil, nil)

		batchErr := &domain.BatchCapacityError{EventIDs: []int32{3}}
		partRepo.On("BulkApprove", ctx, []int32{5, 6}, int32(99), mock.AnythingOfType("time.Time")).
			Return(nil, batchErr).Once()

		count, err := svc.BulkApprove(ctx, []int32{5, 6}, 99)
		assert.Zero(t, count)
		var got *domain.BatchCapacityError
		assert.ErrorAs(t, err, &got)
		assert.Equal(t, []int32{3}, got.EventIDs)
	})

	t.Run("NotifiesEachApproval", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		eventRepo := new(MockEventRepo)
		noteRepo := new(MockNotificationRepo)
		svc := NewParticipantService(partRepo, eventRepo, nil, noteRepo, nil)

		approved := []domain.Participant{
			{ID: 5, EventID: 1, UserID: 7, Status: domain.ParticipantStatusApproved},
			{ID: 6, EventID: 1, UserID: 8, Status: domain.ParticipantStatusApproved},
		}
		partRepo.On("BulkApprove", ctx, []int32{5, 6}, int32(99), mock.AnythingOfType("time.Time")).
			Return(approved, nil).Once()
		eventRepo.On("GetByID", ctx, int32(1)).Return(activeEvent(1, 5, 10), nil).Twice()
		noteRepo.On("Create", ctx, mock.Anything).Return(nil).Twice()

		count, err := svc.BulkApprove(ctx, []int32{5, 6}, 99)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), count)
		noteRepo.AssertExpectations(t)
	})
}

func TestParticipantService_Leave(t *testing.T) {
	ctx := context.Background()

	t.Run("ApprovedCannotLeave", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		svc := NewParticipantService(partRepo, nil, nil, nil, nil)

		partRepo.On("DeleteOwn", ctx, int32(1), int32(7)).Return(domain.ErrCannotLeaveApproved).Once()

		err := svc.Leave(ctx, 1, 7)
		assert.ErrorIs(t, err, domain.ErrCannotLeaveApproved)
	})

	t.Run("PendingWithdraws", func(t *testing.T) {
		partRepo := new(MockParticipantRepo)
		svc := NewParticipantService(partRepo, nil, nil, nil, nil)

		partRepo.On("DeleteOwn", ctx, int32(1), int32(7)).Return(nil).Once()

		assert.NoError(t, svc.Leave(ctx, 1, 7))
	})
}

func TestParticipantService_ListForEvent(t *testing.T) {
	ctx := context.Background()
	partRepo := new(MockParticipantRepo)
	eventRepo := new(MockEventRepo)
	svc := NewParticipantService(partRepo, eventRepo, nil, nil, nil)

	eventRepo.On("GetByID", ctx, int32(1)).Return(activeEvent(1, 2, 10), nil).Once()
	f := repository.ParticipantFilter{Status: domain.ParticipantStatusPending}
	partRepo.On("ListByEvent", ctx, int32(1), f).
		Return([]domain.Participant{{ID: 5}}, int32(1), nil).Once()

	list, total, err := svc.ListForEvent(ctx, 1, f)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), total)
	assert.Len(t, list, 1)
}
