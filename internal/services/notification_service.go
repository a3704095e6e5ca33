package services

import (
	"errors"
	"fmt"

	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService exposes a user's in-app notification feed
type NotificationService struct {
	notificationRepo repositories.NotificationRepositoryInterface
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo repositories.NotificationRepositoryInterface) NotificationServiceInterface {
	return &NotificationService{
		notificationRepo: notificationRepo,
	}
}

// ListNotifications returns a page of the user's feed plus total and unread counts
func (s *NotificationService) ListNotifications(userID uuid.UUID, page, limit int) ([]models.Notification, int64, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, total, err := s.notificationRepo.GetByUserID(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return notifications, total, unread, nil
}

// MarkRead marks a single notification as read
func (s *NotificationService) MarkRead(userID, notificationID uuid.UUID) error {
	if err := s.notificationRepo.MarkRead(notificationID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks every unread notification for the user as read
func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	if err := s.notificationRepo.MarkAllRead(userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
