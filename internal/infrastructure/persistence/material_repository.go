package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/procurehub/backend/internal/domain/catalog"
	"github.com/procurehub/backend/internal/domain/shared"
)

// GormMaterialRepository implements material persistence using GORM
type GormMaterialRepository struct {
	db *gorm.DB
}

// NewGormMaterialRepository creates a new GormMaterialRepository
func NewGormMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{db: db}
}

var materialSearchColumns = []string{"name", "code", "category"}

// FindByID finds a material by ID within a tenant
func (r *GormMaterialRepository) FindByID(ctx context.Context, tenantID, id string) (*catalog.Material, error) {
	var material catalog.Material
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindByCode finds a material by its code within a tenant
func (r *GormMaterialRepository) FindByCode(ctx context.Context, tenantID, code string) (*catalog.Material, error) {
	var material catalog.Material
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindAll finds all materials for a tenant matching the filter
func (r *GormMaterialRepository) FindAll(ctx context.Context, tenantID string, filter shared.Filter) ([]catalog.Material, error) {
	var materials []catalog.Material
	query := applySearchAndStatus(
		r.db.WithContext(ctx).Model(&catalog.Material{}).Where("tenant_id = ?", tenantID),
		filter, materialSearchColumns,
	)
	query = applyOrderAndPage(query, filter, MaterialSortFields, "created_at")
	if err := query.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// FindByIDs finds multiple materials by their IDs within a tenant
func (r *GormMaterialRepository) FindByIDs(ctx context.Context, tenantID string, ids []string) ([]catalog.Material, error) {
	if len(ids) == 0 {
		return []catalog.Material{}, nil
	}
	var materials []catalog.Material
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// Save creates or updates a material
func (r *GormMaterialRepository) Save(ctx context.Context, material *catalog.Material) error {
	return r.db.WithContext(ctx).Save(material).Error
}

// Delete deletes a material within a tenant
func (r *GormMaterialRepository) Delete(ctx context.Context, tenantID, id string) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Material{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts materials for a tenant matching the filter
func (r *GormMaterialRepository) Count(ctx context.Context, tenantID string, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearchAndStatus(
		r.db.WithContext(ctx).Model(&catalog.Material{}).Where("tenant_id = ?", tenantID),
		filter, materialSearchColumns,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormMaterialRepository implements MaterialRepository
var _ catalog.MaterialRepository = (*GormMaterialRepository)(nil)
