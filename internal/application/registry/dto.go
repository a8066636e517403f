package registry

import (
	"time"

	"github.com/google/uuid"

	"github.com/lpdp/backend/internal/domain/registry"
)

// CreateActivityRequest is the payload for creating a processing activity
type CreateActivityRequest struct {
	Name             string `json:"name" binding:"required"`
	ResponsibleParty string `json:"responsible_party" binding:"required"`
	LegalBasis       string `json:"legal_basis" binding:"required"`
	Purpose          string `json:"purpose"`
	DataCategories   string `json:"data_categories"`
	RiskLevel        string `json:"risk_level"`
}

// UpdateActivityRequest is the payload for updating a processing activity
type UpdateActivityRequest struct {
	Name           string `json:"name" binding:"required"`
	Purpose        string `json:"purpose"`
	DataCategories string `json:"data_categories"`
	RiskLevel      string `json:"risk_level"`
}

// ListActivitiesRequest narrows the activity listing
type ListActivitiesRequest struct {
	Status    string `form:"status"`
	RiskLevel string `form:"risk_level"`
	Search    string `form:"search"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// ActivityResponse is the API representation of a processing activity
type ActivityResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	ResponsibleParty string     `json:"responsible_party"`
	LegalBasis       string     `json:"legal_basis"`
	Purpose          string     `json:"purpose"`
	DataCategories   string     `json:"data_categories"`
	Status           string     `json:"status"`
	RiskLevel        string     `json:"risk_level"`
	CertifiedAt      *time.Time `json:"certified_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ActivityListResponse is a paginated activity listing
type ActivityListResponse struct {
	Items []ActivityResponse `json:"items"`
	Total int64              `json:"total"`
}

func toActivityResponse(a *registry.Activity) *ActivityResponse {
	return &ActivityResponse{
		ID:               a.ID,
		Name:             a.Name,
		ResponsibleParty: a.ResponsibleParty,
		LegalBasis:       a.LegalBasis,
		Purpose:          a.Purpose,
		DataCategories:   a.DataCategories,
		Status:           string(a.Status),
		RiskLevel:        string(a.RiskLevel),
		CertifiedAt:      a.CertifiedAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func toActivityListResponse(items []registry.Activity, total int64) *ActivityListResponse {
	resp := &ActivityListResponse{
		Items: make([]ActivityResponse, 0, len(items)),
		Total: total,
	}
	for i := range items {
		resp.Items = append(resp.Items, *toActivityResponse(&items[i]))
	}
	return resp
}
