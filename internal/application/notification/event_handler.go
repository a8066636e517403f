package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/lpdp/backend/internal/domain/agreement"
	"github.com/lpdp/backend/internal/domain/evaluation"
	"github.com/lpdp/backend/internal/domain/notification"
	"github.com/lpdp/backend/internal/domain/registry"
	"github.com/lpdp/backend/internal/domain/shared"
	"github.com/lpdp/backend/internal/domain/task"
)

// DomainEventHandler turns compliance milestones into notification-center
// entries.
type DomainEventHandler struct {
	service *NotificationService
	logger  *zap.Logger
}

// NewDomainEventHandler creates a new DomainEventHandler
func NewDomainEventHandler(service *NotificationService, logger *zap.Logger) *DomainEventHandler {
	return &DomainEventHandler{
		service: service,
		logger:  logger,
	}
}

// Handle creates a notification for the tenant that produced the event
func (h *DomainEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var (
		kind  notification.Kind
		title string
	)

	switch event.EventType() {
	case registry.EventTypeActivityCertified:
		kind = notification.KindActivityCertified
		title = "Processing activity certified"
	case evaluation.EventTypeEvaluationApproved:
		kind = notification.KindEvaluationApproved
		title = "Impact evaluation approved"
	case task.EventTypeTaskCreated:
		kind = notification.KindTaskAssigned
		title = "New compliance task assigned"
	case agreement.EventTypeAgreementSigned:
		kind = notification.KindAgreementSigned
		title = "Processing agreement signed"
	default:
		return nil
	}

	_, err := h.service.Create(ctx, event.TenantID(), kind, title, event.AggregateID().String())
	if err != nil {
		h.logger.Warn("failed to create notification for event",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}
	return err
}

// EventTypes returns the milestone events that produce notifications
func (h *DomainEventHandler) EventTypes() []string {
	return []string{
		registry.EventTypeActivityCertified,
		evaluation.EventTypeEvaluationApproved,
		task.EventTypeTaskCreated,
		agreement.EventTypeAgreementSigned,
	}
}

// Ensure DomainEventHandler implements shared.EventHandler
var _ shared.EventHandler = (*DomainEventHandler)(nil)
