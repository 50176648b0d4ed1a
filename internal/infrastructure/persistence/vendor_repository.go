package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/procurehub/backend/internal/domain/partner"
	"github.com/procurehub/backend/internal/domain/shared"
)

// GormVendorRepository implements vendor persistence using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindByID finds a vendor by ID within a tenant
func (r *GormVendorRepository) FindByID(ctx context.Context, tenantID, id string) (*partner.Vendor, error) {
	var vendor partner.Vendor
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindByCode finds a vendor by its code within a tenant
func (r *GormVendorRepository) FindByCode(ctx context.Context, tenantID, code string) (*partner.Vendor, error) {
	var vendor partner.Vendor
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindAll finds all vendors for a tenant matching the filter
func (r *GormVendorRepository) FindAll(ctx context.Context, tenantID string, filter shared.Filter) ([]partner.Vendor, error) {
	var vendors []partner.Vendor
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&partner.Vendor{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// FindByIDs finds multiple vendors by their IDs within a tenant
func (r *GormVendorRepository) FindByIDs(ctx context.Context, tenantID string, ids []string) ([]partner.Vendor, error) {
	if len(ids) == 0 {
		return []partner.Vendor{}, nil
	}
	var vendors []partner.Vendor
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// Save creates or updates a vendor
func (r *GormVendorRepository) Save(ctx context.Context, vendor *partner.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

// Delete deletes a vendor within a tenant
func (r *GormVendorRepository) Delete(ctx context.Context, tenantID, id string) error {
	result := r.db.WithContext(ctx).Delete(&partner.Vendor{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts vendors for a tenant matching the filter
func (r *GormVendorRepository) Count(ctx context.Context, tenantID string, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearchAndStatus(
		r.db.WithContext(ctx).Model(&partner.Vendor{}).Where("tenant_id = ?", tenantID),
		filter, vendorSearchColumns,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var vendorSearchColumns = []string{"company_name", "code", "contact_name", "email", "phone"}

func (r *GormVendorRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearchAndStatus(query, filter, vendorSearchColumns)
	return applyOrderAndPage(query, filter, VendorSortFields, "created_at")
}

// applySearchAndStatus applies the search and status parts of a filter
func applySearchAndStatus(query *gorm.DB, filter shared.Filter, searchColumns []string) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		clauses := make([]string, len(searchColumns))
		args := make([]interface{}, len(searchColumns))
		for i, col := range searchColumns {
			clauses[i] = col + " ILIKE ?"
			args[i] = pattern
		}
		query = query.Where(strings.Join(clauses, " OR "), args...)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

// applyOrderAndPage applies validated ordering and pagination to a query
func applyOrderAndPage(query *gorm.DB, filter shared.Filter, sortFields map[string]bool, defaultField string) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, sortFields, defaultField)
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	return query
}

// Ensure GormVendorRepository implements VendorRepository
var _ partner.VendorRepository = (*GormVendorRepository)(nil)
