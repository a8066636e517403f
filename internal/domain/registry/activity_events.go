package registry

import (
	"github.com/lpdp/backend/internal/domain/shared"
)

// Event types for processing activities
const (
	EventTypeActivityCreated   = "registry.activity.created"
	EventTypeActivityUpdated   = "registry.activity.updated"
	EventTypeActivityCertified = "registry.activity.certified"
	EventTypeActivityArchived  = "registry.activity.archived"
)

const aggregateTypeActivity = "ProcessingActivity"

// ActivityCreatedEvent is emitted when a new activity enters the registry
type ActivityCreatedEvent struct {
	shared.BaseDomainEvent
	Name      string    `json:"name"`
	RiskLevel RiskLevel `json:"risk_level"`
}

// NewActivityCreatedEvent creates a new ActivityCreatedEvent
func NewActivityCreatedEvent(a *Activity) *ActivityCreatedEvent {
	return &ActivityCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeActivityCreated, aggregateTypeActivity, a.ID, a.TenantID),
		Name:            a.Name,
		RiskLevel:       a.RiskLevel,
	}
}

// ActivityUpdatedEvent is emitted on any mutation of an existing activity
type ActivityUpdatedEvent struct {
	shared.BaseDomainEvent
	Status    ActivityStatus `json:"status"`
	RiskLevel RiskLevel      `json:"risk_level"`
}

// NewActivityUpdatedEvent creates a new ActivityUpdatedEvent
func NewActivityUpdatedEvent(a *Activity) *ActivityUpdatedEvent {
	return &ActivityUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeActivityUpdated, aggregateTypeActivity, a.ID, a.TenantID),
		Status:          a.Status,
		RiskLevel:       a.RiskLevel,
	}
}

// ActivityCertifiedEvent is emitted when an activity is certified
type ActivityCertifiedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewActivityCertifiedEvent creates a new ActivityCertifiedEvent
func NewActivityCertifiedEvent(a *Activity) *ActivityCertifiedEvent {
	return &ActivityCertifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeActivityCertified, aggregateTypeActivity, a.ID, a.TenantID),
		Name:            a.Name,
	}
}

// ActivityArchivedEvent is emitted when an activity is archived
type ActivityArchivedEvent struct {
	shared.BaseDomainEvent
}

// NewActivityArchivedEvent creates a new ActivityArchivedEvent
func NewActivityArchivedEvent(a *Activity) *ActivityArchivedEvent {
	return &ActivityArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeActivityArchived, aggregateTypeActivity, a.ID, a.TenantID),
	}
}
