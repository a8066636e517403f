package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/lpdp/backend/internal/domain/notification"
)

// NotificationResponse is the API representation of a notification
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// UnreadCountResponse carries the notification-center badge count
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

func toNotificationResponse(n *notification.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func toNotificationListResponse(items []notification.Notification) []NotificationResponse {
	resp := make([]NotificationResponse, 0, len(items))
	for i := range items {
		resp = append(resp, *toNotificationResponse(&items[i]))
	}
	return resp
}
