package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/procurehub/backend/internal/domain/shared"
)

// DeliveryOrderStatus represents the status of a delivery order
type DeliveryOrderStatus string

const (
	DeliveryOrderStatusPending   DeliveryOrderStatus = "pending"
	DeliveryOrderStatusInTransit DeliveryOrderStatus = "in_transit"
	DeliveryOrderStatusDelivered DeliveryOrderStatus = "delivered"
	DeliveryOrderStatusCancelled DeliveryOrderStatus = "cancelled"
)

// DeliveryOrder represents a shipment executed against a purchase order
type DeliveryOrder struct {
	shared.TenantEntity
	DeliveryNumber  string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_do_tenant_number,priority:2"`
	PurchaseOrderID string              `gorm:"type:varchar(64);not null;index"`
	VendorID        string              `gorm:"type:varchar(64);not null;index"`
	TransporterID   string              `gorm:"type:varchar(64);index"`
	DeliveryDate    *time.Time          `gorm:"type:date"`
	VehicleNumber   string              `gorm:"type:varchar(50)"`
	Status          DeliveryOrderStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Items           []DeliveryOrderItem `gorm:"foreignKey:DeliveryOrderID"`
}

// TableName returns the table name for GORM
func (DeliveryOrder) TableName() string {
	return "delivery_orders"
}

// DeliveryOrderItem represents one material line on a delivery order
type DeliveryOrderItem struct {
	shared.BaseEntity
	DeliveryOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID      string          `gorm:"type:varchar(64);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	Unit            string          `gorm:"type:varchar(20)"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (DeliveryOrderItem) TableName() string {
	return "delivery_order_items"
}

// NewDeliveryOrder creates a new delivery order in pending status
func NewDeliveryOrder(tenantID, deliveryNumber, purchaseOrderID, vendorID string) (*DeliveryOrder, error) {
	if deliveryNumber == "" {
		return nil, shared.NewDomainError("INVALID_DELIVERY_NUMBER", "Delivery number cannot be empty")
	}
	if purchaseOrderID == "" {
		return nil, shared.NewDomainError("INVALID_ORDER", "Purchase order is required")
	}
	if vendorID == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor is required")
	}
	return &DeliveryOrder{
		TenantEntity:    shared.NewTenantEntity(tenantID),
		DeliveryNumber:  deliveryNumber,
		PurchaseOrderID: purchaseOrderID,
		VendorID:        vendorID,
		Status:          DeliveryOrderStatusPending,
	}, nil
}

// AddItem appends a material line to the delivery order
func (do *DeliveryOrder) AddItem(materialID string, quantity decimal.Decimal, unit string, unitPrice decimal.Decimal) error {
	if materialID == "" {
		return shared.NewDomainError("INVALID_MATERIAL", "Material is required")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	do.Items = append(do.Items, DeliveryOrderItem{
		BaseEntity:      shared.NewBaseEntity(),
		DeliveryOrderID: do.ID,
		MaterialID:      materialID,
		Quantity:        quantity,
		Unit:            unit,
		UnitPrice:       unitPrice,
	})
	return nil
}

// MarkDelivered transitions an in-flight delivery to delivered
func (do *DeliveryOrder) MarkDelivered(at time.Time) error {
	if do.Status == DeliveryOrderStatusDelivered || do.Status == DeliveryOrderStatusCancelled {
		return shared.ErrInvalidState
	}
	do.Status = DeliveryOrderStatusDelivered
	do.DeliveryDate = &at
	return nil
}
