package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	agreementapp "github.com/lpdp/backend/internal/application/agreement"
)

// AgreementHandler handles data-processing-agreement API endpoints
type AgreementHandler struct {
	BaseHandler
	agreementService *agreementapp.AgreementService
}

// NewAgreementHandler creates a new AgreementHandler
func NewAgreementHandler(agreementService *agreementapp.AgreementService) *AgreementHandler {
	return &AgreementHandler{
		agreementService: agreementService,
	}
}

// RegisterRoutes registers agreement routes
func (h *AgreementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	agreements := rg.Group("/agreements")
	{
		agreements.POST("", h.Create)
		agreements.GET("", h.List)
		agreements.GET("/:id", h.GetByID)
		agreements.POST("/:id/sign", h.Sign)
		agreements.POST("/:id/expire", h.MarkExpired)
	}
}

// Create drafts an agreement with a data processor
func (h *AgreementHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req agreementapp.CreateAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ag, err := h.agreementService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, ag)
}

// GetByID retrieves an agreement by its ID
func (h *AgreementHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	agreementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid agreement ID format")
		return
	}

	ag, err := h.agreementService.Get(c.Request.Context(), tenantID, agreementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ag)
}

// List retrieves all agreements for the tenant
func (h *AgreementHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	items, err := h.agreementService.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, items)
}

// Sign executes a drafted agreement
func (h *AgreementHandler) Sign(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	agreementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid agreement ID format")
		return
	}

	var req agreementapp.SignAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	ag, err := h.agreementService.Sign(c.Request.Context(), tenantID, agreementID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ag)
}

// MarkExpired transitions a signed agreement past its validity window
func (h *AgreementHandler) MarkExpired(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	agreementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid agreement ID format")
		return
	}

	ag, err := h.agreementService.MarkExpired(c.Request.Context(), tenantID, agreementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ag)
}
