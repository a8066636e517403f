package sync

import (
	"sync"
	"time"

	"github.com/lpdp/backend/internal/domain/registry"
	"github.com/lpdp/backend/internal/domain/task"
)

// Module identifies a consumer of the sync layer
type Module string

// Known consumer modules. The Spanish field names in the views match
// what each frontend screen expects.
const (
	ModuleDashboardDPO       Module = "DashboardDPO"
	ModuleActivityList       Module = "ListadoRATs"
	ModuleCalendar           Module = "Calendario"
	ModuleNotificationCenter Module = "CentroNotificaciones"
)

// ProjectionFunc maps the generic aggregate into one consumer's view
// model. Projections must be pure: no I/O, no mutation of the aggregate.
type ProjectionFunc func(agg *TenantAggregate) any

// DashboardDPOView is the DPO dashboard widget payload
type DashboardDPOView struct {
	RatsActivos      int `json:"ratsActivos"`
	EipdsPendientes  int `json:"eipdsPendientes"`
	Cumplimiento     int `json:"cumplimiento"`
	Cobertura        int `json:"cobertura"`
	TareasPendientes int `json:"tareasPendientes"`
}

// ActivityListView is the RAT list screen payload
type ActivityListView struct {
	Rats         []registry.Activity `json:"rats"`
	Total        int                 `json:"total"`
	Certificados int                 `json:"certificados"`
	Borradores   int                 `json:"borradores"`
}

// CalendarView is the compliance calendar payload
type CalendarView struct {
	Tareas     []task.Task `json:"tareas"`
	Pendientes int         `json:"pendientes"`
	Vencidas   int         `json:"vencidas"`
	Urgentes   int         `json:"urgentes"`
}

// NotificationCenterView is the notification center badge payload
type NotificationCenterView struct {
	NoLeidas     int       `json:"noLeidas"`
	Actualizado  time.Time `json:"actualizado"`
	Cumplimiento int       `json:"cumplimiento"`
}

// AdapterRegistry maps module identifiers to typed projection functions.
// Unknown modules fall back to returning the raw aggregate unchanged.
type AdapterRegistry struct {
	mu          sync.RWMutex
	projections map[Module]ProjectionFunc
}

// NewAdapterRegistry creates a registry pre-populated with the built-in
// module projections.
func NewAdapterRegistry() *AdapterRegistry {
	r := &AdapterRegistry{
		projections: make(map[Module]ProjectionFunc),
	}
	r.Register(ModuleDashboardDPO, projectDashboardDPO)
	r.Register(ModuleActivityList, projectActivityList)
	r.Register(ModuleCalendar, projectCalendar)
	r.Register(ModuleNotificationCenter, projectNotificationCenter)
	return r
}

// Register adds or replaces the projection for a module
func (r *AdapterRegistry) Register(module Module, fn ProjectionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projections[module] = fn
}

// Adapt projects the aggregate for a module. Unknown modules return the
// aggregate itself.
func (r *AdapterRegistry) Adapt(module Module, agg *TenantAggregate) any {
	if agg == nil {
		return nil
	}

	r.mu.RLock()
	fn, ok := r.projections[module]
	r.mu.RUnlock()

	if !ok {
		return agg
	}
	return fn(agg)
}

func projectDashboardDPO(agg *TenantAggregate) any {
	return DashboardDPOView{
		RatsActivos:      agg.TotalActivities,
		EipdsPendientes:  agg.PendingEvaluations,
		Cumplimiento:     agg.CompliancePercentage,
		Cobertura:        agg.CoverageRatio,
		TareasPendientes: agg.PendingTasks,
	}
}

func projectActivityList(agg *TenantAggregate) any {
	return ActivityListView{
		Rats:         agg.Activities,
		Total:        agg.TotalActivities,
		Certificados: agg.CertifiedActivities,
		Borradores:   agg.DraftActivities,
	}
}

func projectCalendar(agg *TenantAggregate) any {
	return CalendarView{
		Tareas:     agg.Tasks,
		Pendientes: agg.PendingTasks,
		Vencidas:   agg.OverdueTasks,
		Urgentes:   agg.UrgentTasks,
	}
}

func projectNotificationCenter(agg *TenantAggregate) any {
	return NotificationCenterView{
		NoLeidas:     agg.UnreadNotifications,
		Actualizado:  agg.CapturedAt,
		Cumplimiento: agg.CompliancePercentage,
	}
}
