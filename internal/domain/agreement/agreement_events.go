package agreement

import (
	"github.com/lpdp/backend/internal/domain/shared"
)

// Event types for processing agreements
const (
	EventTypeAgreementCreated = "agreement.created"
	EventTypeAgreementSigned  = "agreement.signed"
)

const aggregateTypeAgreement = "ProcessingAgreement"

// AgreementCreatedEvent is emitted when a draft DPA is created
type AgreementCreatedEvent struct {
	shared.BaseDomainEvent
	ProcessorName string `json:"processor_name"`
}

// NewAgreementCreatedEvent creates a new AgreementCreatedEvent
func NewAgreementCreatedEvent(a *Agreement) *AgreementCreatedEvent {
	return &AgreementCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAgreementCreated, aggregateTypeAgreement, a.ID, a.TenantID),
		ProcessorName:   a.ProcessorName,
	}
}

// AgreementSignedEvent is emitted when a DPA is signed
type AgreementSignedEvent struct {
	shared.BaseDomainEvent
	ProcessorName string `json:"processor_name"`
}

// NewAgreementSignedEvent creates a new AgreementSignedEvent
func NewAgreementSignedEvent(a *Agreement) *AgreementSignedEvent {
	return &AgreementSignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAgreementSigned, aggregateTypeAgreement, a.ID, a.TenantID),
		ProcessorName:   a.ProcessorName,
	}
}
