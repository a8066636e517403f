package registry

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/lpdp/backend/internal/domain/shared"
)

func TestNewActivity(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates draft activity with created event", func(t *testing.T) {
		activity, err := NewActivity(tenantID, "Video surveillance", "DPO", "legitimate_interest")
		require.NoError(t, err)

		assert.Equal(t, ActivityStatusDraft, activity.Status)
		assert.Equal(t, RiskLevelLow, activity.RiskLevel)
		assert.Equal(t, tenantID, activity.TenantID)

		events := activity.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeActivityCreated, events[0].EventType())
		assert.Equal(t, tenantID, events[0].TenantID())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewActivity(tenantID, "  ", "DPO", "consent")
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
	})

	t.Run("rejects empty legal basis", func(t *testing.T) {
		_, err := NewActivity(tenantID, "Payroll", "DPO", "")
		assert.Error(t, err)
	})
}

func TestActivityLifecycle(t *testing.T) {
	newActive := func(t *testing.T) *Activity {
		activity, err := NewActivity(uuid.New(), "CRM profiling", "DPO", "consent")
		require.NoError(t, err)
		require.NoError(t, activity.Activate())
		activity.ClearDomainEvents()
		return activity
	}

	t.Run("activate then certify", func(t *testing.T) {
		activity := newActive(t)

		require.NoError(t, activity.Certify())
		assert.Equal(t, ActivityStatusCertified, activity.Status)
		assert.True(t, activity.IsCertified())
		require.NotNil(t, activity.CertifiedAt)

		events := activity.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeActivityCertified, events[0].EventType())
	})

	t.Run("cannot certify a draft", func(t *testing.T) {
		activity, err := NewActivity(uuid.New(), "Payroll", "HR", "contract")
		require.NoError(t, err)
		assert.Error(t, activity.Certify())
	})

	t.Run("cannot activate twice", func(t *testing.T) {
		activity := newActive(t)
		assert.Error(t, activity.Activate())
	})

	t.Run("archive excludes from compliance", func(t *testing.T) {
		activity := newActive(t)
		require.NoError(t, activity.Archive())
		assert.False(t, activity.CountsTowardCompliance())
		assert.Error(t, activity.Archive())
	})

	t.Run("update rejected after archive", func(t *testing.T) {
		activity := newActive(t)
		require.NoError(t, activity.Archive())
		assert.Error(t, activity.Update("New name", "", ""))
	})
}

func TestActivityRiskLevel(t *testing.T) {
	activity, err := NewActivity(uuid.New(), "Biometric access control", "Security", "legal_obligation")
	require.NoError(t, err)

	require.NoError(t, activity.SetRiskLevel(RiskLevelHigh))
	assert.True(t, activity.IsHighRisk())

	assert.Error(t, activity.SetRiskLevel("extreme"))
}
