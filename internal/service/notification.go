package service

import (
	"context"
	"time"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) List(ctx context.Context, userID int32, f repository.NotificationFilter) ([]domain.Notification, int32, error) {
	return s.noteRepo.ListByUser(ctx, userID, f)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID int32) (int32, error) {
	return s.noteRepo.UnreadCount(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID int32) error {
	return s.noteRepo.MarkRead(ctx, notificationID, userID, time.Now())
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID int32) (int64, error) {
	return s.noteRepo.MarkAllRead(ctx, userID, time.Now())
}

func (s *notificationService) Delete(ctx context.Context, userID, notificationID int32) error {
	return s.noteRepo.Delete(ctx, notificationID, userID)
}
