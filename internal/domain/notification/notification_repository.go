package notification

import (
	"context"

	"github.com/google/uuid"
)

// NotificationRepository defines persistence operations for notifications
type NotificationRepository interface {
	Save(ctx context.Context, n *Notification) error
	Update(ctx context.Context, n *Notification) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Notification, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, unreadOnly bool) ([]Notification, error)
	CountUnread(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
