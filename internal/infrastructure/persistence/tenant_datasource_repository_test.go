package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurehub/backend/internal/domain/federation"
	"github.com/procurehub/backend/internal/domain/shared"
)

func TestGormTenantDataSourceRepository_GetByTenant(t *testing.T) {
	t.Run("loads configuration with overrides", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantDataSourceRepository(gormDB)

		rows := sqlmock.NewRows([]string{
			"id", "tenant_id", "external_enabled", "host", "port", "database_name",
			"username", "password_encrypted", "table_overrides", "mapping_overrides", "cache_ttl_seconds",
		}).AddRow(
			uuid.New(), "42", true, "legacy.example.com", 3306, "erp_legacy",
			"reader", "c2VhbGVk", []byte(`{"vendor":"account_master"}`), []byte(`{}`), 600,
		)

		mock.ExpectQuery(`SELECT \* FROM "tenant_data_source_configs" WHERE tenant_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("42", 1).
			WillReturnRows(rows)

		cfg, err := repo.GetByTenant(context.Background(), "42")

		require.NoError(t, err)
		assert.True(t, cfg.ExternalEnabled)
		assert.Equal(t, "legacy.example.com", cfg.Host)
		assert.Equal(t, "account_master", cfg.TableFor(federation.EntityVendor))
		assert.Equal(t, 600, cfg.CacheTTLSeconds)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unconfigured tenant", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantDataSourceRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "tenant_data_source_configs" WHERE tenant_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("7", 1).
			WillReturnError(assert.AnError)

		_, err := repo.GetByTenant(context.Background(), "7")
		assert.Error(t, err)
	})
}

func TestGormTenantDataSourceRepository_Update(t *testing.T) {
	t.Run("bumps version on successful update", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantDataSourceRepository(gormDB)

		cfg := federation.NewTenantDataSourceConfig("42")
		cfg.Version = 3

		mock.ExpectExec(`UPDATE "tenant_data_source_configs" SET .* WHERE tenant_id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), cfg)

		assert.NoError(t, err)
		assert.Equal(t, 4, cfg.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports concurrency conflict and restores version", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantDataSourceRepository(gormDB)

		cfg := federation.NewTenantDataSourceConfig("42")
		cfg.Version = 3

		mock.ExpectExec(`UPDATE "tenant_data_source_configs" SET .* WHERE tenant_id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), cfg)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.Equal(t, 3, cfg.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTenantDataSourceRepository_ListEnabled(t *testing.T) {
	t.Run("returns only enabled tenants", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantDataSourceRepository(gormDB)

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "external_enabled", "host", "port", "database_name", "username", "password_encrypted"}).
			AddRow(uuid.New(), "42", true, "a.example.com", 3306, "db_a", "u", "x").
			AddRow(uuid.New(), "77", true, "b.example.com", 3307, "db_b", "u", "x")

		mock.ExpectQuery(`SELECT \* FROM "tenant_data_source_configs" WHERE external_enabled = \$1`).
			WithArgs(true).
			WillReturnRows(rows)

		configs, err := repo.ListEnabled(context.Background())

		require.NoError(t, err)
		assert.Len(t, configs, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
