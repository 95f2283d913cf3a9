package service

import (
	"context"
	"errors"
	"time"

	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Service Interface ---
type NotificationService interface {
	CreateNotification(ctx context.Context, userID primitive.ObjectID, nType domain.NotificationType, title, message, relatedEntityType, relatedEntityID string) (*domain.Notification, error)
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID, unreadOnly bool) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID, requesterID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
}

// --- Service Implementation ---

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new instance of notificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

// CreateNotification constructs and persists an unread notification.
func (s *notificationService) CreateNotification(ctx context.Context, userID primitive.ObjectID, nType domain.NotificationType, title, message, relatedEntityType, relatedEntityID string) (*domain.Notification, error) {
	notification := &domain.Notification{
		UserID:            userID,
		Type:              nType,
		Title:             title,
		Message:           message,
		RelatedEntityType: relatedEntityType,
		RelatedEntityID:   relatedEntityID,
		IsRead:            false,
		CreatedAt:         time.Now().UTC(),
	}

	id, err := s.notificationRepo.Create(ctx, notification)
	if err != nil {
		return nil, err
	}
	notification.ID = id
	return notification, nil
}

// GetUserNotifications returns a user's notifications, newest first.
func (s *notificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID, unreadOnly bool) ([]domain.Notification, error) {
	return s.notificationRepo.GetByUserID(ctx, userID, unreadOnly)
}

// MarkAsRead flips a notification to read. It is deliberately a silent no-op
// when the notification does not exist or belongs to a different user, so the
// endpoint never leaks whether someone else's notification ID is valid.
func (s *notificationService) MarkAsRead(ctx context.Context, notificationID, requesterID primitive.ObjectID) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if notification.UserID != requesterID {
		return nil
	}
	return s.notificationRepo.MarkAsRead(ctx, notificationID)
}

// MarkAllRead flips every unread notification for the user.
func (s *notificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
