package registry

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lpdp/backend/internal/domain/shared"
)

// ActivityStatus represents the lifecycle state of a processing activity (RAT)
type ActivityStatus string

const (
	ActivityStatusDraft     ActivityStatus = "draft"
	ActivityStatusActive    ActivityStatus = "active"
	ActivityStatusCertified ActivityStatus = "certified"
	ActivityStatusArchived  ActivityStatus = "archived"
)

// RiskLevel classifies a processing activity for impact-evaluation purposes.
// High-risk activities require an approved impact evaluation (EIPD).
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// Activity is a processing-activity record in the tenant's RAT
// (registro de actividades de tratamiento, Law 21.719).
type Activity struct {
	shared.TenantAggregateRoot
	Name             string         `gorm:"type:varchar(255);not null"`
	ResponsibleParty string         `gorm:"type:varchar(255);not null"`
	LegalBasis       string         `gorm:"type:varchar(100);not null"`
	Purpose          string         `gorm:"type:text"`
	DataCategories   string         `gorm:"type:text"` // comma-separated category codes
	Status           ActivityStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	RiskLevel        RiskLevel      `gorm:"type:varchar(20);not null;default:'low';index"`
	CertifiedAt      *time.Time
}

// TableName returns the table name for GORM
func (Activity) TableName() string {
	return "processing_activities"
}

// NewActivity creates a new draft processing activity
func NewActivity(tenantID uuid.UUID, name, responsible, legalBasis string) (*Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Activity name cannot be empty")
	}
	if strings.TrimSpace(responsible) == "" {
		return nil, shared.NewDomainError("INVALID_RESPONSIBLE", "Responsible party cannot be empty")
	}
	if strings.TrimSpace(legalBasis) == "" {
		return nil, shared.NewDomainError("INVALID_LEGAL_BASIS", "Legal basis cannot be empty")
	}

	activity := &Activity{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		ResponsibleParty:    responsible,
		LegalBasis:          legalBasis,
		Status:              ActivityStatusDraft,
		RiskLevel:           RiskLevelLow,
	}

	activity.AddDomainEvent(NewActivityCreatedEvent(activity))

	return activity, nil
}

// Update updates the activity's descriptive fields
func (a *Activity) Update(name, purpose, dataCategories string) error {
	if a.Status == ActivityStatusArchived {
		return shared.ErrInvalidState
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Activity name cannot be empty")
	}

	a.Name = name
	a.Purpose = purpose
	a.DataCategories = dataCategories
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewActivityUpdatedEvent(a))

	return nil
}

// SetRiskLevel reclassifies the activity's risk level
func (a *Activity) SetRiskLevel(level RiskLevel) error {
	switch level {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
	default:
		return shared.NewDomainError("INVALID_RISK_LEVEL", "Unknown risk level")
	}

	a.RiskLevel = level
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewActivityUpdatedEvent(a))

	return nil
}

// Activate moves a draft activity into the active registry
func (a *Activity) Activate() error {
	if a.Status != ActivityStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft activities can be activated")
	}

	a.Status = ActivityStatusActive
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewActivityUpdatedEvent(a))

	return nil
}

// Certify marks an active activity as compliance-certified
func (a *Activity) Certify() error {
	if a.Status != ActivityStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active activities can be certified")
	}

	now := time.Now()
	a.Status = ActivityStatusCertified
	a.CertifiedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewActivityCertifiedEvent(a))

	return nil
}

// Archive retires the activity from the registry
func (a *Activity) Archive() error {
	if a.Status == ActivityStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Activity is already archived")
	}

	a.Status = ActivityStatusArchived
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewActivityArchivedEvent(a))

	return nil
}

// IsCertified returns true if the activity has been certified
func (a *Activity) IsCertified() bool {
	return a.Status == ActivityStatusCertified
}

// IsHighRisk returns true if the activity requires an impact evaluation
func (a *Activity) IsHighRisk() bool {
	return a.RiskLevel == RiskLevelHigh
}

// CountsTowardCompliance reports whether the activity participates in the
// tenant's compliance percentage. Archived records are excluded.
func (a *Activity) CountsTowardCompliance() bool {
	return a.Status != ActivityStatusArchived
}
