package evaluation

import (
	"github.com/google/uuid"
	"github.com/lpdp/backend/internal/domain/shared"
)

// Event types for impact evaluations
const (
	EventTypeEvaluationGenerated = "evaluation.generated"
	EventTypeEvaluationApproved  = "evaluation.approved"
	EventTypeEvaluationRejected  = "evaluation.rejected"
)

const aggregateTypeEvaluation = "ImpactEvaluation"

// EvaluationGeneratedEvent is emitted when a new evaluation is created
type EvaluationGeneratedEvent struct {
	shared.BaseDomainEvent
	ActivityID uuid.UUID `json:"activity_id"`
	Title      string    `json:"title"`
}

// NewEvaluationGeneratedEvent creates a new EvaluationGeneratedEvent
func NewEvaluationGeneratedEvent(e *Evaluation) *EvaluationGeneratedEvent {
	return &EvaluationGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEvaluationGenerated, aggregateTypeEvaluation, e.ID, e.TenantID),
		ActivityID:      e.ActivityID,
		Title:           e.Title,
	}
}

// EvaluationApprovedEvent is emitted when an evaluation is approved
type EvaluationApprovedEvent struct {
	shared.BaseDomainEvent
	ActivityID uuid.UUID `json:"activity_id"`
}

// NewEvaluationApprovedEvent creates a new EvaluationApprovedEvent
func NewEvaluationApprovedEvent(e *Evaluation) *EvaluationApprovedEvent {
	return &EvaluationApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEvaluationApproved, aggregateTypeEvaluation, e.ID, e.TenantID),
		ActivityID:      e.ActivityID,
	}
}

// EvaluationRejectedEvent is emitted when an evaluation is rejected
type EvaluationRejectedEvent struct {
	shared.BaseDomainEvent
	ActivityID uuid.UUID `json:"activity_id"`
}

// NewEvaluationRejectedEvent creates a new EvaluationRejectedEvent
func NewEvaluationRejectedEvent(e *Evaluation) *EvaluationRejectedEvent {
	return &EvaluationRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEvaluationRejected, aggregateTypeEvaluation, e.ID, e.TenantID),
		ActivityID:      e.ActivityID,
	}
}
