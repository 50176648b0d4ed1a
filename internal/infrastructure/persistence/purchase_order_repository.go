package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/procurehub/backend/internal/domain/shared"
	"github.com/procurehub/backend/internal/domain/trade"
)

// GormPurchaseOrderRepository implements purchase order persistence using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

var purchaseOrderSearchColumns = []string{"order_number", "notes"}

// FindByID finds a purchase order by ID within a tenant
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, tenantID, id string) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds all purchase orders for a tenant matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, tenantID string, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	var orders []trade.PurchaseOrder
	query := applySearchAndStatus(
		r.db.WithContext(ctx).Model(&trade.PurchaseOrder{}).Where("tenant_id = ?", tenantID),
		filter, purchaseOrderSearchColumns,
	)
	query = applyOrderAndPage(query, filter, PurchaseOrderSortFields, "created_at")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByIDs finds multiple purchase orders by their IDs within a tenant
func (r *GormPurchaseOrderRepository) FindByIDs(ctx context.Context, tenantID string, ids []string) ([]trade.PurchaseOrder, error) {
	if len(ids) == 0 {
		return []trade.PurchaseOrder{}, nil
	}
	var orders []trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByVendorID finds purchase orders raised against a vendor
func (r *GormPurchaseOrderRepository) FindByVendorID(ctx context.Context, tenantID, vendorID string, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	var orders []trade.PurchaseOrder
	query := applySearchAndStatus(
		r.db.WithContext(ctx).Model(&trade.PurchaseOrder{}).
			Where("tenant_id = ? AND vendor_id = ?", tenantID, vendorID),
		filter, purchaseOrderSearchColumns,
	)
	query = applyOrderAndPage(query, filter, PurchaseOrderSortFields, "created_at")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a purchase order
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// Delete deletes a purchase order within a tenant
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, tenantID, id string) error {
	result := r.db.WithContext(ctx).Delete(&trade.PurchaseOrder{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
