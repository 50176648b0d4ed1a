package federation

// EntityType identifies one federated entity family. The values double as
// cache key namespaces and as keys in the per-tenant table/mapping overrides.
type EntityType string

const (
	EntityVendor            EntityType = "vendor"
	EntityMaterial          EntityType = "material"
	EntityPurchaseOrder     EntityType = "purchaseOrder"
	EntityDeliveryOrder     EntityType = "deliveryOrder"
	EntityDeliveryOrderItem EntityType = "deliveryOrderItem"
	EntityTransporter       EntityType = "transporter"
)

// AllEntityTypes lists every federated entity family, used for cache
// invalidation across all namespaces of a tenant.
func AllEntityTypes() []EntityType {
	return []EntityType{
		EntityVendor,
		EntityMaterial,
		EntityPurchaseOrder,
		EntityDeliveryOrder,
		EntityDeliveryOrderItem,
		EntityTransporter,
	}
}

// IsValid reports whether t is a known entity type
func (t EntityType) IsValid() bool {
	switch t {
	case EntityVendor, EntityMaterial, EntityPurchaseOrder,
		EntityDeliveryOrder, EntityDeliveryOrderItem, EntityTransporter:
		return true
	default:
		return false
	}
}

// defaultTables maps each entity type to the table name assumed on the
// tenant's external database when no override is configured.
var defaultTables = map[EntityType]string{
	EntityVendor:            "vendors",
	EntityMaterial:          "materials",
	EntityPurchaseOrder:     "purchase_orders",
	EntityDeliveryOrder:     "delivery_orders",
	EntityDeliveryOrderItem: "delivery_order_items",
	EntityTransporter:       "transporters",
}

// DefaultTable returns the default external table name for an entity type
func (t EntityType) DefaultTable() string {
	return defaultTables[t]
}
