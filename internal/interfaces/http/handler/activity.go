package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	registryapp "github.com/lpdp/backend/internal/application/registry"
)

// ActivityHandler handles processing-activity (RAT) API endpoints
type ActivityHandler struct {
	BaseHandler
	activityService *registryapp.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *registryapp.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// RegisterRoutes registers activity routes
func (h *ActivityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	activities := rg.Group("/registry/activities")
	{
		activities.POST("", h.Create)
		activities.GET("", h.List)
		activities.GET("/:id", h.GetByID)
		activities.PUT("/:id", h.Update)
		activities.DELETE("/:id", h.Delete)
		activities.POST("/:id/activate", h.Activate)
		activities.POST("/:id/certify", h.Certify)
		activities.POST("/:id/archive", h.Archive)
	}
}

// Create registers a new processing activity
func (h *ActivityHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req registryapp.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	activity, err := h.activityService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, activity)
}

// GetByID retrieves an activity by its ID
func (h *ActivityHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid activity ID format")
		return
	}

	activity, err := h.activityService.Get(c.Request.Context(), tenantID, activityID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, activity)
}

// List retrieves activities with optional status, risk and search filtering
func (h *ActivityHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req registryapp.ListActivitiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	list, err := h.activityService.List(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, list.Items, list.Total, req.Page, req.PageSize)
}

// Update modifies an existing activity
func (h *ActivityHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid activity ID format")
		return
	}

	var req registryapp.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	activity, err := h.activityService.Update(c.Request.Context(), tenantID, activityID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, activity)
}

// Activate transitions a draft activity to active
func (h *ActivityHandler) Activate(c *gin.Context) {
	h.transition(c, h.activityService.Activate)
}

// Certify marks an active activity as certified
func (h *ActivityHandler) Certify(c *gin.Context) {
	h.transition(c, h.activityService.Certify)
}

// Archive removes an activity from compliance accounting
func (h *ActivityHandler) Archive(c *gin.Context) {
	h.transition(c, h.activityService.Archive)
}

// Delete removes an activity
func (h *ActivityHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid activity ID format")
		return
	}

	if err := h.activityService.Delete(c.Request.Context(), tenantID, activityID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *ActivityHandler) transition(c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) (*registryapp.ActivityResponse, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid activity ID format")
		return
	}

	activity, err := fn(c.Request.Context(), tenantID, activityID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, activity)
}
