package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	evaluationapp "github.com/lpdp/backend/internal/application/evaluation"
)

// EvaluationHandler handles impact-evaluation (EIPD) API endpoints
type EvaluationHandler struct {
	BaseHandler
	evaluationService *evaluationapp.EvaluationService
}

// NewEvaluationHandler creates a new EvaluationHandler
func NewEvaluationHandler(evaluationService *evaluationapp.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationService: evaluationService,
	}
}

// RegisterRoutes registers evaluation routes
func (h *EvaluationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	evaluations := rg.Group("/evaluations")
	{
		evaluations.POST("", h.Create)
		evaluations.GET("", h.List)
		evaluations.GET("/:id", h.GetByID)
		evaluations.POST("/:id/review", h.StartReview)
		evaluations.POST("/:id/approve", h.Approve)
		evaluations.POST("/:id/reject", h.Reject)
	}
}

// Create generates an impact evaluation for a processing activity
func (h *EvaluationHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req evaluationapp.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	eval, err := h.evaluationService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, eval)
}

// GetByID retrieves an evaluation by its ID
func (h *EvaluationHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	evaluationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid evaluation ID format")
		return
	}

	eval, err := h.evaluationService.Get(c.Request.Context(), tenantID, evaluationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, eval)
}

// List retrieves evaluations, optionally scoped to one activity
func (h *EvaluationHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	if raw := c.Query("activity_id"); raw != "" {
		activityID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid activity ID format")
			return
		}
		items, err := h.evaluationService.ListByActivity(c.Request.Context(), tenantID, activityID)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, items)
		return
	}

	items, err := h.evaluationService.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, items)
}

// StartReview transitions a pending evaluation into review
func (h *EvaluationHandler) StartReview(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	evaluationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid evaluation ID format")
		return
	}

	eval, err := h.evaluationService.StartReview(c.Request.Context(), tenantID, evaluationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, eval)
}

// Approve resolves an evaluation review positively
func (h *EvaluationHandler) Approve(c *gin.Context) {
	h.review(c, h.evaluationService.Approve)
}

// Reject resolves an evaluation review negatively
func (h *EvaluationHandler) Reject(c *gin.Context) {
	h.review(c, h.evaluationService.Reject)
}

func (h *EvaluationHandler) review(c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID, req evaluationapp.ReviewEvaluationRequest) (*evaluationapp.EvaluationResponse, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	evaluationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid evaluation ID format")
		return
	}

	var req evaluationapp.ReviewEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	eval, err := fn(c.Request.Context(), tenantID, evaluationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, eval)
}
