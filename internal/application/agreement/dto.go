package agreement

import (
	"time"

	"github.com/google/uuid"

	"github.com/lpdp/backend/internal/domain/agreement"
)

// CreateAgreementRequest is the payload for drafting a DPA
type CreateAgreementRequest struct {
	ProcessorName string `json:"processor_name" binding:"required"`
	ContactEmail  string `json:"contact_email"`
	Scope         string `json:"scope"`
}

// SignAgreementRequest executes a draft DPA
type SignAgreementRequest struct {
	ValidUntil *time.Time `json:"valid_until"`
}

// AgreementResponse is the API representation of a DPA
type AgreementResponse struct {
	ID            uuid.UUID  `json:"id"`
	ProcessorName string     `json:"processor_name"`
	ContactEmail  string     `json:"contact_email"`
	Scope         string     `json:"scope"`
	Status        string     `json:"status"`
	SignedAt      *time.Time `json:"signed_at,omitempty"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toAgreementResponse(a *agreement.Agreement) *AgreementResponse {
	return &AgreementResponse{
		ID:            a.ID,
		ProcessorName: a.ProcessorName,
		ContactEmail:  a.ContactEmail,
		Scope:         a.Scope,
		Status:        string(a.Status),
		SignedAt:      a.SignedAt,
		ValidUntil:    a.ValidUntil,
		Active:        a.IsActive(time.Now()),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func toAgreementListResponse(items []agreement.Agreement) []AgreementResponse {
	resp := make([]AgreementResponse, 0, len(items))
	for i := range items {
		resp = append(resp, *toAgreementResponse(&items[i]))
	}
	return resp
}
