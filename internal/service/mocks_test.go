package service

import (
	"context"
	"time"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/repository"
	"eventhub-backend/internal/security"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) SetBlocked(ctx context.Context, id int32, blocked bool) error {
	args := m.Called(ctx, id, blocked)
	return args.Error(0)
}
func (m *MockUserRepo) TouchLogin(ctx context.Context, id int32, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}

// MockEventRepo
type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockEventRepo) GetByID(ctx context.Context, id int32) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *MockEventRepo) List(ctx context.Context, f repository.EventFilter) ([]domain.Event, int32, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Event), args.Get(1).(int32), args.Error(2)
}
func (m *MockEventRepo) Update(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockEventRepo) UpdateStatus(ctx context.Context, id int32, status domain.EventStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockEventRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockEventRepo) ParticipationStatuses(ctx context.Context, eventIDs []int32, userID int32) (map[int32]domain.ParticipantStatus, error) {
	args := m.Called(ctx, eventIDs, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int32]domain.ParticipantStatus), args.Error(1)
}
func (m *MockEventRepo) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockEventRepo) ReconcileParticipantCounts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockEventRepo) Stats(ctx context.Context, now time.Time) (*domain.EventStats, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventStats), args.Error(1)
}

// MockParticipantRepo
type MockParticipantRepo struct {
	mock.Mock
}

func (m *MockParticipantRepo) Create(ctx context.Context, p *domain.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockParticipantRepo) GetByID(ctx context.Context, id int32) (*domain.Participant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}
func (m *MockParticipantRepo) GetByEventAndUser(ctx context.Context, eventID, userID int32) (*domain.Participant, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}
func (m *MockParticipantRepo) Approve(ctx context.Context, id, reviewerID int32, notes string, at time.Time) (*domain.Participant, error) {
	args := m.Called(ctx, id, reviewerID, notes, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}
func (m *MockParticipantRepo) Reject(ctx context.Context, id, reviewerID int32, reason, notes string, at time.Time) (*domain.Participant, error) {
	args := m.Called(ctx, id, reviewerID, reason, notes, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}
func (m *MockParticipantRepo) BulkApprove(ctx context.Context, ids []int32, reviewerID int32, at time.Time) ([]domain.Participant, error) {
	args := m.Called(ctx, ids, reviewerID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Participant), args.Error(1)
}
func (m *MockParticipantRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockParticipantRepo) DeleteOwn(ctx context.Context, eventID, userID int32) error {
	args := m.Called(ctx, eventID, userID)
	return args.Error(0)
}
func (m *MockParticipantRepo) ListByEvent(ctx context.Context, eventID int32, f repository.ParticipantFilter) ([]domain.Participant, int32, error) {
	args := m.Called(ctx, eventID, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Participant), args.Get(1).(int32), args.Error(2)
}
func (m *MockParticipantRepo) ListByUser(ctx context.Context, userID int32, f repository.ParticipantFilter) ([]domain.Participant, int32, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Participant), args.Get(1).(int32), args.Error(2)
}
func (m *MockParticipantRepo) ListPending(ctx context.Context, f repository.ParticipantFilter) ([]domain.Participant, int32, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Participant), args.Get(1).(int32), args.Error(2)
}
func (m *MockParticipantRepo) Stats(ctx context.Context) (*domain.ParticipantStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParticipantStats), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) ListByUser(ctx context.Context, userID int32, f repository.NotificationFilter) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) UnreadCount(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockNotificationRepo) MarkRead(ctx context.Context, id, userID int32, at time.Time) error {
	args := m.Called(ctx, id, userID, at)
	return args.Error(0)
}
func (m *MockNotificationRepo) MarkAllRead(ctx context.Context, userID int32, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, at)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationRepo) Delete(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockSessionRepo
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Replace(ctx context.Context, s *domain.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}
func (m *MockSessionRepo) Rotate(ctx context.Context, userID int32, oldToken, newToken string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, oldToken, newToken, expiresAt)
	return args.Error(0)
}
func (m *MockSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
func (m *MockSessionRepo) DeleteByUser(ctx context.Context, userID int32) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendApprovalNotice(ctx context.Context, email, name, eventTitle string) error {
	args := m.Called(ctx, email, name, eventTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendRejectionNotice(ctx context.Context, email, name, eventTitle, reason string) error {
	args := m.Called(ctx, email, name, eventTitle, reason)
	return args.Error(0)
}

// MockTokenManager
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(user *domain.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}
func (m *MockTokenManager) GenerateRefreshToken(user *domain.User) (string, time.Time, error) {
	args := m.Called(user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
func (m *MockTokenManager) ValidateToken(tokenString string) (*security.UserClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.UserClaims), args.Error(1)
}
