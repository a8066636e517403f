package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	taskapp "github.com/lpdp/backend/internal/application/task"
)

// TaskHandler handles DPO task API endpoints
type TaskHandler struct {
	BaseHandler
	taskService *taskapp.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *taskapp.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// RegisterRoutes registers task routes
func (h *TaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	{
		tasks.POST("", h.Create)
		tasks.GET("", h.List)
		tasks.GET("/:id", h.GetByID)
		tasks.POST("/:id/start", h.Start)
		tasks.POST("/:id/complete", h.Complete)
	}
}

// Create creates a compliance task
func (h *TaskHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req taskapp.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	t, err := h.taskService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, t)
}

// GetByID retrieves a task by its ID
func (h *TaskHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	t, err := h.taskService.Get(c.Request.Context(), tenantID, taskID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, t)
}

// List retrieves tasks; pending=true narrows to unfinished tasks
func (h *TaskHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var (
		items []taskapp.TaskResponse
	)
	if c.Query("pending") == "true" {
		items, err = h.taskService.ListPending(c.Request.Context(), tenantID)
	} else {
		items, err = h.taskService.List(c.Request.Context(), tenantID)
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, items)
}

// Start transitions a task into progress
func (h *TaskHandler) Start(c *gin.Context) {
	h.transition(c, h.taskService.Start)
}

// Complete finishes a task
func (h *TaskHandler) Complete(c *gin.Context) {
	h.transition(c, h.taskService.Complete)
}

func (h *TaskHandler) transition(c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) (*taskapp.TaskResponse, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	t, err := fn(c.Request.Context(), tenantID, taskID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, t)
}
