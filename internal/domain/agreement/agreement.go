package agreement

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lpdp/backend/internal/domain/shared"
)

// Status represents the contractual state of a data-processing agreement (DPA)
type Status string

const (
	StatusDraft   Status = "draft"
	StatusSigned  Status = "signed"
	StatusExpired Status = "expired"
)

// Agreement is a data-processing agreement between the tenant (controller)
// and an external processor.
type Agreement struct {
	shared.TenantAggregateRoot
	ProcessorName string `gorm:"type:varchar(255);not null"`
	ContactEmail  string `gorm:"type:varchar(255)"`
	Scope         string `gorm:"type:text"`
	Status        Status `gorm:"type:varchar(20);not null;default:'draft';index"`
	SignedAt      *time.Time
	ValidUntil    *time.Time
}

// TableName returns the table name for GORM
func (Agreement) TableName() string {
	return "processing_agreements"
}

// NewAgreement creates a draft DPA with a processor
func NewAgreement(tenantID uuid.UUID, processorName, scope string) (*Agreement, error) {
	processorName = strings.TrimSpace(processorName)
	if processorName == "" {
		return nil, shared.NewDomainError("INVALID_PROCESSOR", "Processor name cannot be empty")
	}

	ag := &Agreement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProcessorName:       processorName,
		Scope:               scope,
		Status:              StatusDraft,
	}

	ag.AddDomainEvent(NewAgreementCreatedEvent(ag))

	return ag, nil
}

// Sign marks the agreement as executed, optionally with a validity window
func (a *Agreement) Sign(validUntil *time.Time) error {
	if a.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft agreements can be signed")
	}

	now := time.Now()
	if validUntil != nil && validUntil.Before(now) {
		return shared.NewDomainError("INVALID_VALIDITY", "Validity window ends in the past")
	}

	a.Status = StatusSigned
	a.SignedAt = &now
	a.ValidUntil = validUntil
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewAgreementSignedEvent(a))

	return nil
}

// MarkExpired transitions a signed agreement past its validity window
func (a *Agreement) MarkExpired() error {
	if a.Status != StatusSigned {
		return shared.NewDomainError("INVALID_STATE", "Only signed agreements can expire")
	}

	a.Status = StatusExpired
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// IsActive returns true while the agreement is signed and within validity
func (a *Agreement) IsActive(now time.Time) bool {
	if a.Status != StatusSigned {
		return false
	}
	return a.ValidUntil == nil || now.Before(*a.ValidUntil)
}
