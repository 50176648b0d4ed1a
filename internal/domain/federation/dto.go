package federation

import (
	"time"

	"github.com/shopspring/decimal"
)

// The canonical DTOs are the only shapes crossing the federation layer's
// public boundary. IsExternal marks which store a record came from; callers
// must not branch on it for anything except diagnostics and display.

// VendorDTO is the canonical vendor shape
type VendorDTO struct {
	ID          string `json:"id"`
	Code        string `json:"code,omitempty"`
	CompanyName string `json:"companyName"`
	ContactName string `json:"contactName,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	TaxID       string `json:"taxId,omitempty"`
	IsActive    bool   `json:"isActive"`
	IsExternal  bool   `json:"isExternal"`
}

// MaterialDTO is the canonical material shape
type MaterialDTO struct {
	ID          string `json:"id"`
	Code        string `json:"code,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Category    string `json:"category,omitempty"`
	HSNCode     string `json:"hsnCode,omitempty"`
	IsActive    bool   `json:"isActive"`
	IsExternal  bool   `json:"isExternal"`
}

// PurchaseOrderDTO is the canonical purchase order shape
type PurchaseOrderDTO struct {
	ID           string          `json:"id"`
	OrderNumber  string          `json:"orderNumber"`
	VendorID     string          `json:"vendorId,omitempty"`
	VendorName   string          `json:"vendorName,omitempty"`
	OrderDate    *time.Time      `json:"orderDate,omitempty"`
	ExpectedDate *time.Time      `json:"expectedDate,omitempty"`
	Status       string          `json:"status,omitempty"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	IsExternal   bool            `json:"isExternal"`
}

// DeliveryOrderDTO is the canonical delivery order shape including its line
// items. Items may be empty when the child fetch degraded; that is a lossy
// success, not an error.
type DeliveryOrderDTO struct {
	ID              string                 `json:"id"`
	OrderNumber     string                 `json:"orderNumber"`
	PurchaseOrderID string                 `json:"purchaseOrderId,omitempty"`
	VendorID        string                 `json:"vendorId,omitempty"`
	VendorName      string                 `json:"vendorName,omitempty"`
	TransporterID   string                 `json:"transporterId,omitempty"`
	TransporterName string                 `json:"transporterName,omitempty"`
	VehicleNumber   string                 `json:"vehicleNumber,omitempty"`
	DeliveryDate    *time.Time             `json:"deliveryDate,omitempty"`
	Status          string                 `json:"status,omitempty"`
	Items           []DeliveryOrderItemDTO `json:"items"`
	IsExternal      bool                   `json:"isExternal"`
}

// DeliveryOrderItemDTO is one line item of a delivery order
type DeliveryOrderItemDTO struct {
	ID              string          `json:"id"`
	DeliveryOrderID string          `json:"deliveryOrderId,omitempty"`
	MaterialID      string          `json:"materialId,omitempty"`
	MaterialName    string          `json:"materialName,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit,omitempty"`
}

// TransporterDTO is the canonical transporter shape
type TransporterDTO struct {
	ID          string `json:"id"`
	Code        string `json:"code,omitempty"`
	Name        string `json:"name"`
	ContactName string `json:"contactName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	IsActive    bool   `json:"isActive"`
	IsExternal  bool   `json:"isExternal"`
}

// VendorFromRecord builds a VendorDTO from an applied-mappings record
func VendorFromRecord(rec map[string]any) VendorDTO {
	return VendorDTO{
		ID:          recString(rec, "id"),
		Code:        recString(rec, "code"),
		CompanyName: recString(rec, "companyName"),
		ContactName: recString(rec, "contactName"),
		Email:       recString(rec, "email"),
		Phone:       recString(rec, "phone"),
		Address:     recString(rec, "address"),
		City:        recString(rec, "city"),
		TaxID:       recString(rec, "taxId"),
		IsActive:    recBool(rec, "isActive", true),
		IsExternal:  true,
	}
}

// MaterialFromRecord builds a MaterialDTO from an applied-mappings record
func MaterialFromRecord(rec map[string]any) MaterialDTO {
	return MaterialDTO{
		ID:          recString(rec, "id"),
		Code:        recString(rec, "code"),
		Name:        recString(rec, "name"),
		Description: recString(rec, "description"),
		Unit:        recString(rec, "unit"),
		Category:    recString(rec, "category"),
		HSNCode:     recString(rec, "hsnCode"),
		IsActive:    recBool(rec, "isActive", true),
		IsExternal:  true,
	}
}

// PurchaseOrderFromRecord builds a PurchaseOrderDTO from an applied-mappings record
func PurchaseOrderFromRecord(rec map[string]any) PurchaseOrderDTO {
	return PurchaseOrderDTO{
		ID:           recString(rec, "id"),
		OrderNumber:  recString(rec, "orderNumber"),
		VendorID:     recString(rec, "vendorId"),
		VendorName:   recString(rec, "vendorName"),
		OrderDate:    recTime(rec, "orderDate"),
		ExpectedDate: recTime(rec, "expectedDate"),
		Status:       recString(rec, "status"),
		TotalAmount:  recDecimal(rec, "totalAmount"),
		IsExternal:   true,
	}
}

// DeliveryOrderFromRecord builds a DeliveryOrderDTO from an applied-mappings
// record. Items are attached separately by the adapter.
func DeliveryOrderFromRecord(rec map[string]any) DeliveryOrderDTO {
	return DeliveryOrderDTO{
		ID:              recString(rec, "id"),
		OrderNumber:     recString(rec, "orderNumber"),
		PurchaseOrderID: recString(rec, "purchaseOrderId"),
		VendorID:        recString(rec, "vendorId"),
		VendorName:      recString(rec, "vendorName"),
		TransporterID:   recString(rec, "transporterId"),
		TransporterName: recString(rec, "transporterName"),
		VehicleNumber:   recString(rec, "vehicleNumber"),
		DeliveryDate:    recTime(rec, "deliveryDate"),
		Status:          recString(rec, "status"),
		Items:           []DeliveryOrderItemDTO{},
		IsExternal:      true,
	}
}

// DeliveryOrderItemFromRecord builds a DeliveryOrderItemDTO from an
// applied-mappings record
func DeliveryOrderItemFromRecord(rec map[string]any) DeliveryOrderItemDTO {
	return DeliveryOrderItemDTO{
		ID:              recString(rec, "id"),
		DeliveryOrderID: recString(rec, "deliveryOrderId"),
		MaterialID:      recString(rec, "materialId"),
		MaterialName:    recString(rec, "materialName"),
		Quantity:        recDecimal(rec, "quantity"),
		Unit:            recString(rec, "unit"),
	}
}

// TransporterFromRecord builds a TransporterDTO from an applied-mappings record
func TransporterFromRecord(rec map[string]any) TransporterDTO {
	return TransporterDTO{
		ID:          recString(rec, "id"),
		Code:        recString(rec, "code"),
		Name:        recString(rec, "name"),
		ContactName: recString(rec, "contactName"),
		Phone:       recString(rec, "phone"),
		Email:       recString(rec, "email"),
		IsActive:    recBool(rec, "isActive", true),
		IsExternal:  true,
	}
}

func recString(rec map[string]any, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := toString(v).(string); ok {
		return s
	}
	return ""
}

func recBool(rec map[string]any, key string, fallback bool) bool {
	v, ok := rec[key]
	if !ok || v == nil {
		return fallback
	}
	if b, ok := v.(bool); ok {
		return b
	}
	if b, ok := toBoolean(v).(bool); ok {
		return b
	}
	return fallback
}

func recTime(rec map[string]any, key string) *time.Time {
	v, ok := rec[key]
	if !ok || v == nil {
		return nil
	}
	if t, ok := v.(time.Time); ok {
		return &t
	}
	if t, ok := toDate(v).(time.Time); ok {
		return &t
	}
	return nil
}

func recDecimal(rec map[string]any, key string) decimal.Decimal {
	v, ok := rec[key]
	if !ok || v == nil {
		return decimal.Zero
	}
	switch n := v.(type) {
	case decimal.Decimal:
		return n
	case float64:
		return decimal.NewFromFloat(n)
	case int64:
		return decimal.NewFromInt(n)
	case string:
		if d, err := decimal.NewFromString(n); err == nil {
			return d
		}
	}
	if f, ok := toNumber(v).(float64); ok {
		return decimal.NewFromFloat(f)
	}
	return decimal.Zero
}
