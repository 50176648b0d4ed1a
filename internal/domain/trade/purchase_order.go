// Package trade holds the transactional documents of the local store:
// purchase orders raised against vendors and delivery orders that fulfil them.
package trade

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/procurehub/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusApproved  PurchaseOrderStatus = "approved"
	PurchaseOrderStatusPartial   PurchaseOrderStatus = "partial" // Partially delivered
	PurchaseOrderStatusCompleted PurchaseOrderStatus = "completed"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// PurchaseOrder represents a purchase order in the platform's own store
type PurchaseOrder struct {
	shared.TenantEntity
	OrderNumber  string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_po_tenant_number,priority:2"`
	VendorID     string              `gorm:"type:varchar(64);not null;index"`
	OrderDate    *time.Time          `gorm:"type:date"`
	ExpectedDate *time.Time          `gorm:"type:date"`
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(15,2);not null;default:0"`
	Currency     string              `gorm:"type:varchar(3);not null;default:'USD'"`
	Status       PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Notes        string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in draft status
func NewPurchaseOrder(tenantID, orderNumber, vendorID string) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if vendorID == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor is required")
	}
	now := time.Now()
	return &PurchaseOrder{
		TenantEntity: shared.NewTenantEntity(tenantID),
		OrderNumber:  orderNumber,
		VendorID:     vendorID,
		OrderDate:    &now,
		TotalAmount:  decimal.Zero,
		Currency:     "USD",
		Status:       PurchaseOrderStatusDraft,
	}, nil
}

// Approve transitions a draft order to approved
func (po *PurchaseOrder) Approve() error {
	if po.Status != PurchaseOrderStatusDraft {
		return shared.ErrInvalidState
	}
	po.Status = PurchaseOrderStatusApproved
	return nil
}

// Cancel cancels an order that has not completed yet
func (po *PurchaseOrder) Cancel() error {
	if po.Status == PurchaseOrderStatusCompleted || po.Status == PurchaseOrderStatusCancelled {
		return shared.ErrInvalidState
	}
	po.Status = PurchaseOrderStatusCancelled
	return nil
}

// IsOpen returns true while deliveries can still be booked against the order
func (po *PurchaseOrder) IsOpen() bool {
	return po.Status == PurchaseOrderStatusApproved || po.Status == PurchaseOrderStatusPartial
}
