package trade

import (
	"context"

	"github.com/procurehub/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the persistence contract for purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*PurchaseOrder, error)
	FindAll(ctx context.Context, tenantID string, filter shared.Filter) ([]PurchaseOrder, error)
	FindByIDs(ctx context.Context, tenantID string, ids []string) ([]PurchaseOrder, error)
	FindByVendorID(ctx context.Context, tenantID, vendorID string, filter shared.Filter) ([]PurchaseOrder, error)
	Save(ctx context.Context, order *PurchaseOrder) error
	Delete(ctx context.Context, tenantID, id string) error
}

// DeliveryOrderRepository defines the persistence contract for delivery orders
type DeliveryOrderRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*DeliveryOrder, error)
	FindAll(ctx context.Context, tenantID string, filter shared.Filter) ([]DeliveryOrder, error)
	FindByIDs(ctx context.Context, tenantID string, ids []string) ([]DeliveryOrder, error)
	FindByVendorID(ctx context.Context, tenantID, vendorID string, filter shared.Filter) ([]DeliveryOrder, error)
	Save(ctx context.Context, order *DeliveryOrder) error
	Delete(ctx context.Context, tenantID, id string) error
}
