package evaluation

import (
	"time"

	"github.com/google/uuid"

	"github.com/lpdp/backend/internal/domain/evaluation"
)

// CreateEvaluationRequest is the payload for generating an impact evaluation
type CreateEvaluationRequest struct {
	ActivityID  uuid.UUID `json:"activity_id" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	RiskSummary string    `json:"risk_summary"`
}

// ReviewEvaluationRequest resolves an evaluation review
type ReviewEvaluationRequest struct {
	Notes string `json:"notes"`
}

// EvaluationResponse is the API representation of an impact evaluation
type EvaluationResponse struct {
	ID          uuid.UUID  `json:"id"`
	ActivityID  uuid.UUID  `json:"activity_id"`
	Title       string     `json:"title"`
	RiskSummary string     `json:"risk_summary"`
	Status      string     `json:"status"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes string     `json:"review_notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toEvaluationResponse(e *evaluation.Evaluation) *EvaluationResponse {
	return &EvaluationResponse{
		ID:          e.ID,
		ActivityID:  e.ActivityID,
		Title:       e.Title,
		RiskSummary: e.RiskSummary,
		Status:      string(e.Status),
		ReviewedAt:  e.ReviewedAt,
		ReviewNotes: e.ReviewNotes,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toEvaluationListResponse(items []evaluation.Evaluation) []EvaluationResponse {
	resp := make([]EvaluationResponse, 0, len(items))
	for i := range items {
		resp = append(resp, *toEvaluationResponse(&items[i]))
	}
	return resp
}
