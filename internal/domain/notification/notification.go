package notification

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lpdp/backend/internal/domain/shared"
)

// Kind classifies notification-center entries
type Kind string

const (
	KindActivityCertified  Kind = "activity_certified"
	KindEvaluationApproved Kind = "evaluation_approved"
	KindTaskAssigned       Kind = "task_assigned"
	KindAgreementSigned    Kind = "agreement_signed"
	KindSystem             Kind = "system"
)

// Notification is a notification-center entry for a tenant
type Notification struct {
	shared.TenantAggregateRoot
	Kind    Kind   `gorm:"type:varchar(40);not null;index"`
	Title   string `gorm:"type:varchar(255);not null"`
	Message string `gorm:"type:text"`
	Read    bool   `gorm:"not null;default:false;index"`
	ReadAt  *time.Time
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates an unread notification
func NewNotification(tenantID uuid.UUID, kind Kind, title, message string) (*Notification, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}

	return &Notification{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Kind:                kind,
		Title:               title,
		Message:             message,
	}, nil
}

// MarkRead marks the notification as read
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	n.UpdatedAt = now
	n.IncrementVersion()
}
