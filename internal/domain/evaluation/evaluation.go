package evaluation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lpdp/backend/internal/domain/shared"
)

// Status represents the review state of an impact evaluation (EIPD/DPIA)
type Status string

const (
	StatusPending  Status = "pending"
	StatusInReview Status = "in_review"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Evaluation is an impact evaluation attached to a high-risk processing activity
type Evaluation struct {
	shared.TenantAggregateRoot
	ActivityID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(255);not null"`
	RiskSummary string    `gorm:"type:text"`
	Status      Status    `gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewedAt  *time.Time
	ReviewNotes string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Evaluation) TableName() string {
	return "impact_evaluations"
}

// NewEvaluation creates a pending evaluation for a processing activity
func NewEvaluation(tenantID, activityID uuid.UUID, title string) (*Evaluation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Evaluation title cannot be empty")
	}
	if activityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTIVITY", "Evaluation must reference an activity")
	}

	ev := &Evaluation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ActivityID:          activityID,
		Title:               title,
		Status:              StatusPending,
	}

	ev.AddDomainEvent(NewEvaluationGeneratedEvent(ev))

	return ev, nil
}

// StartReview moves a pending evaluation into review
func (e *Evaluation) StartReview() error {
	if e.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending evaluations can enter review")
	}

	e.Status = StatusInReview
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// Approve marks the evaluation as approved.
// Approved evaluations count toward the tenant's high-risk coverage ratio.
func (e *Evaluation) Approve(notes string) error {
	if e.Status != StatusPending && e.Status != StatusInReview {
		return shared.NewDomainError("INVALID_STATE", "Evaluation is already resolved")
	}

	now := time.Now()
	e.Status = StatusApproved
	e.ReviewedAt = &now
	e.ReviewNotes = notes
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewEvaluationApprovedEvent(e))

	return nil
}

// Reject marks the evaluation as rejected
func (e *Evaluation) Reject(notes string) error {
	if e.Status != StatusPending && e.Status != StatusInReview {
		return shared.NewDomainError("INVALID_STATE", "Evaluation is already resolved")
	}

	now := time.Now()
	e.Status = StatusRejected
	e.ReviewedAt = &now
	e.ReviewNotes = notes
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewEvaluationRejectedEvent(e))

	return nil
}

// IsApproved returns true if the evaluation has been approved
func (e *Evaluation) IsApproved() bool {
	return e.Status == StatusApproved
}

// IsPending returns true if the evaluation awaits resolution
func (e *Evaluation) IsPending() bool {
	return e.Status == StatusPending || e.Status == StatusInReview
}
