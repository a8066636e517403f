package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lpdp/backend/internal/domain/notification"
)

// NotificationService handles notification-center operations
type NotificationService struct {
	notificationRepo notification.NotificationRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo notification.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Create stores a notification for a tenant
func (s *NotificationService) Create(ctx context.Context, tenantID uuid.UUID, kind notification.Kind, title, message string) (*NotificationResponse, error) {
	n, err := notification.NewNotification(tenantID, kind, title, message)
	if err != nil {
		return nil, err
	}

	if err := s.notificationRepo.Save(ctx, n); err != nil {
		return nil, err
	}

	return toNotificationResponse(n), nil
}

// List returns notifications for a tenant, optionally unread only
func (s *NotificationService) List(ctx context.Context, tenantID uuid.UUID, unreadOnly bool) ([]NotificationResponse, error) {
	items, err := s.notificationRepo.FindAllForTenant(ctx, tenantID, unreadOnly)
	if err != nil {
		return nil, err
	}
	return toNotificationListResponse(items), nil
}

// CountUnread returns the notification-center badge count
func (s *NotificationService) CountUnread(ctx context.Context, tenantID uuid.UUID) (*UnreadCountResponse, error) {
	count, err := s.notificationRepo.CountUnread(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Unread: count}, nil
}

// MarkRead marks one notification as read
func (s *NotificationService) MarkRead(ctx context.Context, tenantID, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.notificationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	n.MarkRead()

	if err := s.notificationRepo.Update(ctx, n); err != nil {
		return nil, err
	}

	return toNotificationResponse(n), nil
}

// MarkAllRead marks every unread notification for the tenant as read
func (s *NotificationService) MarkAllRead(ctx context.Context, tenantID uuid.UUID) error {
	items, err := s.notificationRepo.FindAllForTenant(ctx, tenantID, true)
	if err != nil {
		return err
	}

	for i := range items {
		n := &items[i]
		n.MarkRead()
		if err := s.notificationRepo.Update(ctx, n); err != nil {
			s.logger.Warn("failed to mark notification read",
				zap.String("notification_id", n.ID.String()),
				zap.Error(err))
		}
	}
	return nil
}
