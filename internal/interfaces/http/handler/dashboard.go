package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	syncapp "github.com/lpdp/backend/internal/application/sync"
)

// DashboardHandler exposes the synchronized compliance aggregate to
// front-end modules.
type DashboardHandler struct {
	BaseHandler
	syncService      *syncapp.Service
	autoSyncInterval time.Duration
}

// DashboardOption is a functional option for DashboardHandler configuration
type DashboardOption func(*DashboardHandler)

// WithAutoSyncInterval sets the interval used when a client enables auto-sync
func WithAutoSyncInterval(d time.Duration) DashboardOption {
	return func(h *DashboardHandler) {
		h.autoSyncInterval = d
	}
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(syncService *syncapp.Service, opts ...DashboardOption) *DashboardHandler {
	h := &DashboardHandler{
		syncService:      syncService,
		autoSyncInterval: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/aggregate", h.GetAggregate)
		dashboard.GET("/modules/:module", h.GetModuleData)
		dashboard.POST("/refresh", h.Refresh)
		dashboard.POST("/auto-sync", h.StartAutoSync)
		dashboard.DELETE("/auto-sync", h.StopAutoSync)
		dashboard.GET("/stats", h.GetStats)
	}
}

var knownModules = map[syncapp.Module]bool{
	syncapp.ModuleDashboardDPO:       true,
	syncapp.ModuleActivityList:       true,
	syncapp.ModuleCalendar:           true,
	syncapp.ModuleNotificationCenter: true,
}

// GetAggregate returns the full tenant aggregate, served from cache
// when fresh
func (h *DashboardHandler) GetAggregate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	agg, err := h.syncService.Snapshot(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, agg)
}

// GetModuleData returns the aggregate projected for one front-end module
func (h *DashboardHandler) GetModuleData(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	module := syncapp.Module(c.Param("module"))
	if !knownModules[module] {
		h.NotFound(c, "Unknown module")
		return
	}

	data, err := h.syncService.DataForModule(c.Request.Context(), module, tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, data)
}

// Refresh bypasses the cache and recomputes the aggregate
func (h *DashboardHandler) Refresh(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	agg, err := h.syncService.ForceRefresh(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, agg)
}

// StartAutoSync enables the periodic background refresh for the
// caller's tenant
func (h *DashboardHandler) StartAutoSync(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	h.syncService.StartAutoSync(tenantID, h.autoSyncInterval)
	h.NoContent(c)
}

// StopAutoSync disables the periodic background refresh
func (h *DashboardHandler) StopAutoSync(c *gin.Context) {
	h.syncService.StopAutoSync()
	h.NoContent(c)
}

// SyncStatsResponse carries cache effectiveness counters
type SyncStatsResponse struct {
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
}

// GetStats returns cache hit/miss counters for the sync layer
func (h *DashboardHandler) GetStats(c *gin.Context) {
	hits, misses := h.syncService.CacheStats()
	h.Success(c, SyncStatsResponse{
		CacheHits:   hits,
		CacheMisses: misses,
	})
}
