package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/procurehub/backend/internal/domain/federation"
	"github.com/procurehub/backend/internal/domain/shared"
)

// GormTenantDataSourceRepository implements federation.ConfigProvider backed by
// the platform database. Each tenant has at most one data source configuration.
type GormTenantDataSourceRepository struct {
	db *gorm.DB
}

// NewGormTenantDataSourceRepository creates a new GormTenantDataSourceRepository
func NewGormTenantDataSourceRepository(db *gorm.DB) *GormTenantDataSourceRepository {
	return &GormTenantDataSourceRepository{db: db}
}

// GetByTenant returns the data source configuration for a tenant.
// Returns shared.ErrNotFound when the tenant has never been configured,
// which the federation layer treats as internal-only.
func (r *GormTenantDataSourceRepository) GetByTenant(ctx context.Context, tenantID string) (*federation.TenantDataSourceConfig, error) {
	var cfg federation.TenantDataSourceConfig
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// Create inserts a new tenant data source configuration
func (r *GormTenantDataSourceRepository) Create(ctx context.Context, cfg *federation.TenantDataSourceConfig) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

// Update persists changes to an existing configuration with optimistic locking
// on the version column. Returns shared.ErrConcurrencyConflict when another
// writer got there first.
func (r *GormTenantDataSourceRepository) Update(ctx context.Context, cfg *federation.TenantDataSourceConfig) error {
	currentVersion := cfg.Version
	cfg.IncrementVersion()
	result := r.db.WithContext(ctx).
		Model(&federation.TenantDataSourceConfig{}).
		Where("tenant_id = ? AND version = ?", cfg.TenantID, currentVersion).
		Updates(cfg)
	if result.Error != nil {
		cfg.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		cfg.Version = currentVersion
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// ListEnabled returns all configurations with external reads switched on.
// Used at startup to pre-warm connection pools for active tenants.
func (r *GormTenantDataSourceRepository) ListEnabled(ctx context.Context) ([]federation.TenantDataSourceConfig, error) {
	var configs []federation.TenantDataSourceConfig
	if err := r.db.WithContext(ctx).
		Where("external_enabled = ?", true).
		Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// Delete removes a tenant's data source configuration
func (r *GormTenantDataSourceRepository) Delete(ctx context.Context, tenantID string) error {
	result := r.db.WithContext(ctx).
		Delete(&federation.TenantDataSourceConfig{}, "tenant_id = ?", tenantID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure the repository satisfies the federation contract
var _ federation.ConfigProvider = (*GormTenantDataSourceRepository)(nil)
