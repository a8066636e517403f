package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lpdp/backend/internal/domain/registry"
	"github.com/lpdp/backend/internal/domain/shared"
)

// newMockActivityRepository creates a GormActivityRepository with a mocked SQL connection
func newMockActivityRepository(t *testing.T) (*GormActivityRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormActivityRepository(gormDB), mock, mockDB
}

func TestNewGormActivityRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockActivityRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormActivityRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds activity within tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockActivityRepository(t)
		defer mockDB.Close()

		activityID := uuid.New()
		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "name", "responsible_party", "legal_basis", "status", "risk_level"}).
			AddRow(activityID, tenantID, "Video surveillance", "Security Office", "legitimate_interest", "active", "high")

		mock.ExpectQuery(`SELECT \* FROM "processing_activities" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, activityID, 1).
			WillReturnRows(rows)

		activity, err := repo.FindByIDForTenant(context.Background(), tenantID, activityID)

		assert.NoError(t, err)
		assert.NotNil(t, activity)
		assert.Equal(t, tenantID, activity.TenantID)
		assert.Equal(t, registry.ActivityStatusActive, activity.Status)
		assert.True(t, activity.IsHighRisk())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing activity", func(t *testing.T) {
		repo, mock, mockDB := newMockActivityRepository(t)
		defer mockDB.Close()

		activityID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "processing_activities" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, activityID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		activity, err := repo.FindByIDForTenant(context.Background(), tenantID, activityID)

		assert.Error(t, err)
		assert.Nil(t, activity)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("does not return another tenant's activity", func(t *testing.T) {
		repo, mock, mockDB := newMockActivityRepository(t)
		defer mockDB.Close()

		activityID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "processing_activities" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, activityID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		activity, err := repo.FindByIDForTenant(context.Background(), tenantID, activityID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.Nil(t, activity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormActivityRepository_CountByStatus(t *testing.T) {
	t.Run("counts certified activities", func(t *testing.T) {
		repo, mock, mockDB := newMockActivityRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"count"}).AddRow(3)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "processing_activities" WHERE tenant_id = \$1 AND status = \$2`).
			WithArgs(tenantID, string(registry.ActivityStatusCertified)).
			WillReturnRows(rows)

		count, err := repo.CountByStatus(context.Background(), tenantID, registry.ActivityStatusCertified)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormActivityRepository_Delete(t *testing.T) {
	t.Run("returns ErrNotFound when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockActivityRepository(t)
		defer mockDB.Close()

		activityID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectExec(`DELETE FROM "processing_activities" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, activityID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), tenantID, activityID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
