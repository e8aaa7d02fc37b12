package service

import (
	"context"

	"artfolio/internal/models"
	"artfolio/internal/repository"
)

type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NotificationList is the polled payload: one page of rows plus the
// total unread count for the badge.
type NotificationList struct {
	Notifications []*models.Notification `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) (*NotificationList, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &NotificationList{Notifications: notifications, UnreadCount: unread}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return models.NewUnauthorizedError("This notification belongs to another user")
	}
	return s.notificationRepo.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, id, userID uint) error {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return models.NewUnauthorizedError("This notification belongs to another user")
	}
	return s.notificationRepo.Delete(ctx, id)
}
