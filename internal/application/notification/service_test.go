package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lpdp/backend/internal/domain/notification"
	"github.com/lpdp/backend/internal/domain/registry"
	"github.com/lpdp/backend/internal/domain/shared"
	"github.com/lpdp/backend/internal/domain/task"
)

type memoryNotificationRepository struct {
	items map[uuid.UUID]*notification.Notification
}

func newMemoryNotificationRepository() *memoryNotificationRepository {
	return &memoryNotificationRepository{items: make(map[uuid.UUID]*notification.Notification)}
}

func (r *memoryNotificationRepository) Save(_ context.Context, n *notification.Notification) error {
	stored := *n
	r.items[n.ID] = &stored
	return nil
}

func (r *memoryNotificationRepository) Update(_ context.Context, n *notification.Notification) error {
	if _, ok := r.items[n.ID]; !ok {
		return shared.ErrNotFound
	}
	stored := *n
	r.items[n.ID] = &stored
	return nil
}

func (r *memoryNotificationRepository) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*notification.Notification, error) {
	n, ok := r.items[id]
	if !ok || n.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *memoryNotificationRepository) FindAllForTenant(_ context.Context, tenantID uuid.UUID, unreadOnly bool) ([]notification.Notification, error) {
	var items []notification.Notification
	for _, n := range r.items {
		if n.TenantID != tenantID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		items = append(items, *n)
	}
	return items, nil
}

func (r *memoryNotificationRepository) CountUnread(_ context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range r.items {
		if n.TenantID == tenantID && !n.Read {
			count++
		}
	}
	return count, nil
}

func newTestNotificationService() (*NotificationService, *memoryNotificationRepository) {
	repo := newMemoryNotificationRepository()
	return NewNotificationService(repo, zap.NewNop()), repo
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc, _ := newTestNotificationService()
	tenantID := uuid.New()

	created, err := svc.Create(context.Background(), tenantID, notification.KindSystem, "Welcome", "")
	require.NoError(t, err)
	assert.False(t, created.Read)

	count, err := svc.CountUnread(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Unread)

	read, err := svc.MarkRead(context.Background(), tenantID, created.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)
	assert.NotNil(t, read.ReadAt)

	count, err = svc.CountUnread(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count.Unread)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	svc, _ := newTestNotificationService()
	tenantID := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), tenantID, notification.KindSystem, "Reminder", "")
		require.NoError(t, err)
	}

	require.NoError(t, svc.MarkAllRead(context.Background(), tenantID))

	count, err := svc.CountUnread(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count.Unread)
}

func TestNotificationService_List_TenantIsolation(t *testing.T) {
	svc, _ := newTestNotificationService()
	tenantA := uuid.New()
	tenantB := uuid.New()

	_, err := svc.Create(context.Background(), tenantA, notification.KindSystem, "For A", "")
	require.NoError(t, err)

	items, err := svc.List(context.Background(), tenantB, false)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDomainEventHandler_ActivityCertified(t *testing.T) {
	svc, _ := newTestNotificationService()
	handler := NewDomainEventHandler(svc, zap.NewNop())
	tenantID := uuid.New()

	act, err := registry.NewActivity(tenantID, "Payroll", "HR", "contract")
	require.NoError(t, err)
	require.NoError(t, act.Activate())
	require.NoError(t, act.Certify())

	var certified shared.DomainEvent
	for _, e := range act.GetDomainEvents() {
		if e.EventType() == registry.EventTypeActivityCertified {
			certified = e
		}
	}
	require.NotNil(t, certified)

	require.NoError(t, handler.Handle(context.Background(), certified))

	items, err := svc.List(context.Background(), tenantID, true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, string(notification.KindActivityCertified), items[0].Kind)
}

func TestDomainEventHandler_IgnoresUnrelatedEvents(t *testing.T) {
	svc, _ := newTestNotificationService()
	handler := NewDomainEventHandler(svc, zap.NewNop())
	tenantID := uuid.New()

	tk, err := task.NewTask(tenantID, "Review DPA", task.PriorityMedium, nil)
	require.NoError(t, err)
	require.NoError(t, tk.Complete())

	// task.completed is not a milestone the notification center surfaces
	var completed shared.DomainEvent
	for _, e := range tk.GetDomainEvents() {
		if e.EventType() == task.EventTypeTaskCompleted {
			completed = e
		}
	}
	require.NotNil(t, completed)

	require.NoError(t, handler.Handle(context.Background(), completed))

	count, err := svc.CountUnread(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count.Unread)
}
