package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/procurehub/backend/internal/domain/shared"
	"github.com/procurehub/backend/internal/domain/trade"
)

// GormDeliveryOrderRepository implements delivery order persistence using GORM.
// Reads preload the item lines so callers always see the full document.
type GormDeliveryOrderRepository struct {
	db *gorm.DB
}

// NewGormDeliveryOrderRepository creates a new GormDeliveryOrderRepository
func NewGormDeliveryOrderRepository(db *gorm.DB) *GormDeliveryOrderRepository {
	return &GormDeliveryOrderRepository{db: db}
}

var deliveryOrderSearchColumns = []string{"delivery_number", "vehicle_number"}

// FindByID finds a delivery order with its items by ID within a tenant
func (r *GormDeliveryOrderRepository) FindByID(ctx context.Context, tenantID, id string) (*trade.DeliveryOrder, error) {
	var order trade.DeliveryOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds all delivery orders with items for a tenant matching the filter
func (r *GormDeliveryOrderRepository) FindAll(ctx context.Context, tenantID string, filter shared.Filter) ([]trade.DeliveryOrder, error) {
	var orders []trade.DeliveryOrder
	query := applySearchAndStatus(
		r.db.WithContext(ctx).Model(&trade.DeliveryOrder{}).Where("tenant_id = ?", tenantID),
		filter, deliveryOrderSearchColumns,
	)
	query = applyOrderAndPage(query, filter, DeliveryOrderSortFields, "created_at")
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByIDs finds multiple delivery orders with items by their IDs within a tenant
func (r *GormDeliveryOrderRepository) FindByIDs(ctx context.Context, tenantID string, ids []string) ([]trade.DeliveryOrder, error) {
	if len(ids) == 0 {
		return []trade.DeliveryOrder{}, nil
	}
	var orders []trade.DeliveryOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByVendorID finds delivery orders executed for a vendor
func (r *GormDeliveryOrderRepository) FindByVendorID(ctx context.Context, tenantID, vendorID string, filter shared.Filter) ([]trade.DeliveryOrder, error) {
	var orders []trade.DeliveryOrder
	query := applySearchAndStatus(
		r.db.WithContext(ctx).Model(&trade.DeliveryOrder{}).
			Where("tenant_id = ? AND vendor_id = ?", tenantID, vendorID),
		filter, deliveryOrderSearchColumns,
	)
	query = applyOrderAndPage(query, filter, DeliveryOrderSortFields, "created_at")
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a delivery order together with its items
func (r *GormDeliveryOrderRepository) Save(ctx context.Context, order *trade.DeliveryOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// Delete deletes a delivery order and its items within a tenant
func (r *GormDeliveryOrderRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&trade.DeliveryOrder{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Delete(&trade.DeliveryOrderItem{}, "delivery_order_id = ?", id).Error
	})
}

// Ensure GormDeliveryOrderRepository implements DeliveryOrderRepository
var _ trade.DeliveryOrderRepository = (*GormDeliveryOrderRepository)(nil)
