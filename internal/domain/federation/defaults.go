package federation

// defaultMappings is the built-in canonical schema per entity type. Tenants
// whose external databases already use these column names need no mapping
// overrides at all.
var defaultMappings = map[EntityType][]FieldMapping{
	EntityVendor: {
		{InternalField: "id", ExternalField: "id", Transform: TransformString},
		{InternalField: "code", ExternalField: "code", Transform: TransformString},
		{InternalField: "companyName", ExternalField: "company_name", Transform: TransformString},
		{InternalField: "contactName", ExternalField: "contact_name", Transform: TransformString},
		{InternalField: "email", ExternalField: "email", Transform: TransformString},
		{InternalField: "phone", ExternalField: "phone", Transform: TransformString},
		{InternalField: "address", ExternalField: "address", Transform: TransformString},
		{InternalField: "city", ExternalField: "city", Transform: TransformString},
		{InternalField: "taxId", ExternalField: "tax_id", Transform: TransformString},
		{InternalField: "isActive", ExternalField: "is_active", Transform: TransformBoolean},
	},
	EntityMaterial: {
		{InternalField: "id", ExternalField: "id", Transform: TransformString},
		{InternalField: "code", ExternalField: "code", Transform: TransformString},
		{InternalField: "name", ExternalField: "name", Transform: TransformString},
		{InternalField: "description", ExternalField: "description", Transform: TransformString},
		{InternalField: "unit", ExternalField: "unit", Transform: TransformString},
		{InternalField: "category", ExternalField: "category", Transform: TransformString},
		{InternalField: "hsnCode", ExternalField: "hsn_code", Transform: TransformString},
		{InternalField: "isActive", ExternalField: "is_active", Transform: TransformBoolean},
	},
	EntityPurchaseOrder: {
		{InternalField: "id", ExternalField: "id", Transform: TransformString},
		{InternalField: "orderNumber", ExternalField: "order_number", Transform: TransformString},
		{InternalField: "vendorId", ExternalField: "vendor_id", Transform: TransformString},
		{InternalField: "vendorName", ExternalField: "vendor_name", Transform: TransformString},
		{InternalField: "orderDate", ExternalField: "order_date", Transform: TransformDate},
		{InternalField: "expectedDate", ExternalField: "expected_date", Transform: TransformDate},
		{InternalField: "status", ExternalField: "status", Transform: TransformString},
		{InternalField: "totalAmount", ExternalField: "total_amount", Transform: TransformNumber},
	},
	EntityDeliveryOrder: {
		{InternalField: "id", ExternalField: "id", Transform: TransformString},
		{InternalField: "orderNumber", ExternalField: "order_number", Transform: TransformString},
		{InternalField: "purchaseOrderId", ExternalField: "purchase_order_id", Transform: TransformString},
		{InternalField: "vendorId", ExternalField: "vendor_id", Transform: TransformString},
		{InternalField: "vendorName", ExternalField: "vendor_name", Transform: TransformString},
		{InternalField: "transporterId", ExternalField: "transporter_id", Transform: TransformString},
		{InternalField: "transporterName", ExternalField: "transporter_name", Transform: TransformString},
		{InternalField: "vehicleNumber", ExternalField: "vehicle_number", Transform: TransformString},
		{InternalField: "deliveryDate", ExternalField: "delivery_date", Transform: TransformDate},
		{InternalField: "status", ExternalField: "status", Transform: TransformString},
	},
	EntityDeliveryOrderItem: {
		{InternalField: "id", ExternalField: "id", Transform: TransformString},
		{InternalField: "deliveryOrderId", ExternalField: "delivery_order_id", Transform: TransformString},
		{InternalField: "materialId", ExternalField: "material_id", Transform: TransformString},
		{InternalField: "materialName", ExternalField: "material_name", Transform: TransformString},
		{InternalField: "quantity", ExternalField: "quantity", Transform: TransformNumber},
		{InternalField: "unit", ExternalField: "unit", Transform: TransformString},
	},
	EntityTransporter: {
		{InternalField: "id", ExternalField: "id", Transform: TransformString},
		{InternalField: "code", ExternalField: "code", Transform: TransformString},
		{InternalField: "name", ExternalField: "name", Transform: TransformString},
		{InternalField: "contactName", ExternalField: "contact_name", Transform: TransformString},
		{InternalField: "phone", ExternalField: "phone", Transform: TransformString},
		{InternalField: "email", ExternalField: "email", Transform: TransformString},
		{InternalField: "isActive", ExternalField: "is_active", Transform: TransformBoolean},
	},
}

// DefaultMappings returns a fresh copy of the built-in mappings for an entity
// type so callers can merge overrides without mutating the canonical set.
func DefaultMappings(entityType EntityType) []FieldMapping {
	defaults, ok := defaultMappings[entityType]
	if !ok {
		return nil
	}
	out := make([]FieldMapping, len(defaults))
	copy(out, defaults)
	return out
}
