package federation

import (
	"context"

	"github.com/procurehub/backend/internal/domain/catalog"
	"github.com/procurehub/backend/internal/domain/federation"
	"github.com/procurehub/backend/internal/domain/partner"
	"github.com/procurehub/backend/internal/domain/shared"
	"github.com/procurehub/backend/internal/domain/trade"
)

// The internal adapters wrap the platform repositories behind the shared
// reader interfaces. They ignore the query config parameter, which only
// applies to external reads.

// InternalVendorAdapter serves vendor reads from the platform database
type InternalVendorAdapter struct {
	repo partner.VendorRepository
}

// NewInternalVendorAdapter creates a new InternalVendorAdapter
func NewInternalVendorAdapter(repo partner.VendorRepository) *InternalVendorAdapter {
	return &InternalVendorAdapter{repo: repo}
}

// FindAll lists vendors from the platform store
func (a *InternalVendorAdapter) FindAll(ctx context.Context, tenantID string, filter shared.Filter, _ *federation.EntityQueryConfig) ([]federation.VendorDTO, error) {
	vendors, err := a.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.VendorDTO, len(vendors))
	for i := range vendors {
		dtos[i] = vendorToDTO(&vendors[i])
	}
	return dtos, nil
}

// FindByID loads one vendor from the platform store
func (a *InternalVendorAdapter) FindByID(ctx context.Context, tenantID, id string, _ *federation.EntityQueryConfig) (*federation.VendorDTO, error) {
	vendor, err := a.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := vendorToDTO(vendor)
	return &dto, nil
}

// FindByIDs loads multiple vendors from the platform store
func (a *InternalVendorAdapter) FindByIDs(ctx context.Context, tenantID string, ids []string, _ *federation.EntityQueryConfig) ([]federation.VendorDTO, error) {
	vendors, err := a.repo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.VendorDTO, len(vendors))
	for i := range vendors {
		dtos[i] = vendorToDTO(&vendors[i])
	}
	return dtos, nil
}

func vendorToDTO(v *partner.Vendor) federation.VendorDTO {
	return federation.VendorDTO{
		ID:          v.ID.String(),
		Code:        v.Code,
		CompanyName: v.CompanyName,
		ContactName: v.ContactName,
		Email:       v.Email,
		Phone:       v.Phone,
		Address:     v.Address,
		City:        v.City,
		TaxID:       v.TaxID,
		IsActive:    v.IsActive(),
		IsExternal:  false,
	}
}

// InternalMaterialAdapter serves material reads from the platform database
type InternalMaterialAdapter struct {
	repo catalog.MaterialRepository
}

// NewInternalMaterialAdapter creates a new InternalMaterialAdapter
func NewInternalMaterialAdapter(repo catalog.MaterialRepository) *InternalMaterialAdapter {
	return &InternalMaterialAdapter{repo: repo}
}

// FindAll lists materials from the platform store
func (a *InternalMaterialAdapter) FindAll(ctx context.Context, tenantID string, filter shared.Filter, _ *federation.EntityQueryConfig) ([]federation.MaterialDTO, error) {
	materials, err := a.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.MaterialDTO, len(materials))
	for i := range materials {
		dtos[i] = materialToDTO(&materials[i])
	}
	return dtos, nil
}

// FindByID loads one material from the platform store
func (a *InternalMaterialAdapter) FindByID(ctx context.Context, tenantID, id string, _ *federation.EntityQueryConfig) (*federation.MaterialDTO, error) {
	material, err := a.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := materialToDTO(material)
	return &dto, nil
}

// FindByIDs loads multiple materials from the platform store
func (a *InternalMaterialAdapter) FindByIDs(ctx context.Context, tenantID string, ids []string, _ *federation.EntityQueryConfig) ([]federation.MaterialDTO, error) {
	materials, err := a.repo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.MaterialDTO, len(materials))
	for i := range materials {
		dtos[i] = materialToDTO(&materials[i])
	}
	return dtos, nil
}

func materialToDTO(m *catalog.Material) federation.MaterialDTO {
	return federation.MaterialDTO{
		ID:          m.ID.String(),
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		Unit:        m.Unit,
		Category:    m.Category,
		HSNCode:     m.HSNCode,
		IsActive:    m.IsActive(),
		IsExternal:  false,
	}
}

// InternalPurchaseOrderAdapter serves purchase order reads from the platform
// database
type InternalPurchaseOrderAdapter struct {
	repo trade.PurchaseOrderRepository
}

// NewInternalPurchaseOrderAdapter creates a new InternalPurchaseOrderAdapter
func NewInternalPurchaseOrderAdapter(repo trade.PurchaseOrderRepository) *InternalPurchaseOrderAdapter {
	return &InternalPurchaseOrderAdapter{repo: repo}
}

// FindAll lists purchase orders from the platform store
func (a *InternalPurchaseOrderAdapter) FindAll(ctx context.Context, tenantID string, filter shared.Filter, _ *federation.EntityQueryConfig) ([]federation.PurchaseOrderDTO, error) {
	orders, err := a.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return purchaseOrdersToDTOs(orders), nil
}

// FindByID loads one purchase order from the platform store
func (a *InternalPurchaseOrderAdapter) FindByID(ctx context.Context, tenantID, id string, _ *federation.EntityQueryConfig) (*federation.PurchaseOrderDTO, error) {
	order, err := a.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := purchaseOrderToDTO(order)
	return &dto, nil
}

// FindByIDs loads multiple purchase orders from the platform store
func (a *InternalPurchaseOrderAdapter) FindByIDs(ctx context.Context, tenantID string, ids []string, _ *federation.EntityQueryConfig) ([]federation.PurchaseOrderDTO, error) {
	orders, err := a.repo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	return purchaseOrdersToDTOs(orders), nil
}

// FindByVendorID lists purchase orders for one vendor from the platform store
func (a *InternalPurchaseOrderAdapter) FindByVendorID(ctx context.Context, tenantID, vendorID string, _ *federation.EntityQueryConfig) ([]federation.PurchaseOrderDTO, error) {
	orders, err := a.repo.FindByVendorID(ctx, tenantID, vendorID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return purchaseOrdersToDTOs(orders), nil
}

func purchaseOrdersToDTOs(orders []trade.PurchaseOrder) []federation.PurchaseOrderDTO {
	dtos := make([]federation.PurchaseOrderDTO, len(orders))
	for i := range orders {
		dtos[i] = purchaseOrderToDTO(&orders[i])
	}
	return dtos
}

func purchaseOrderToDTO(po *trade.PurchaseOrder) federation.PurchaseOrderDTO {
	return federation.PurchaseOrderDTO{
		ID:           po.ID.String(),
		OrderNumber:  po.OrderNumber,
		VendorID:     po.VendorID,
		OrderDate:    po.OrderDate,
		ExpectedDate: po.ExpectedDate,
		Status:       string(po.Status),
		TotalAmount:  po.TotalAmount,
		IsExternal:   false,
	}
}

// InternalDeliveryOrderAdapter serves delivery order reads from the platform
// database
type InternalDeliveryOrderAdapter struct {
	repo trade.DeliveryOrderRepository
}

// NewInternalDeliveryOrderAdapter creates a new InternalDeliveryOrderAdapter
func NewInternalDeliveryOrderAdapter(repo trade.DeliveryOrderRepository) *InternalDeliveryOrderAdapter {
	return &InternalDeliveryOrderAdapter{repo: repo}
}

// FindAll lists delivery orders from the platform store
func (a *InternalDeliveryOrderAdapter) FindAll(ctx context.Context, tenantID string, filter shared.Filter, _ *federation.EntityQueryConfig) ([]federation.DeliveryOrderDTO, error) {
	orders, err := a.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return deliveryOrdersToDTOs(orders), nil
}

// FindByID loads one delivery order from the platform store
func (a *InternalDeliveryOrderAdapter) FindByID(ctx context.Context, tenantID, id string, _ *federation.EntityQueryConfig) (*federation.DeliveryOrderDTO, error) {
	order, err := a.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := deliveryOrderToDTO(order)
	return &dto, nil
}

// FindByIDs loads multiple delivery orders from the platform store
func (a *InternalDeliveryOrderAdapter) FindByIDs(ctx context.Context, tenantID string, ids []string, _ *federation.EntityQueryConfig) ([]federation.DeliveryOrderDTO, error) {
	orders, err := a.repo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	return deliveryOrdersToDTOs(orders), nil
}

// FindByVendorID lists delivery orders for one vendor from the platform store
func (a *InternalDeliveryOrderAdapter) FindByVendorID(ctx context.Context, tenantID, vendorID string, _ *federation.EntityQueryConfig) ([]federation.DeliveryOrderDTO, error) {
	orders, err := a.repo.FindByVendorID(ctx, tenantID, vendorID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return deliveryOrdersToDTOs(orders), nil
}

func deliveryOrdersToDTOs(orders []trade.DeliveryOrder) []federation.DeliveryOrderDTO {
	dtos := make([]federation.DeliveryOrderDTO, len(orders))
	for i := range orders {
		dtos[i] = deliveryOrderToDTO(&orders[i])
	}
	return dtos
}

func deliveryOrderToDTO(do *trade.DeliveryOrder) federation.DeliveryOrderDTO {
	items := make([]federation.DeliveryOrderItemDTO, len(do.Items))
	for i, item := range do.Items {
		items[i] = federation.DeliveryOrderItemDTO{
			ID:              item.ID.String(),
			DeliveryOrderID: item.DeliveryOrderID.String(),
			MaterialID:      item.MaterialID,
			Quantity:        item.Quantity,
			Unit:            item.Unit,
		}
	}
	return federation.DeliveryOrderDTO{
		ID:              do.ID.String(),
		OrderNumber:     do.DeliveryNumber,
		PurchaseOrderID: do.PurchaseOrderID,
		VendorID:        do.VendorID,
		TransporterID:   do.TransporterID,
		VehicleNumber:   do.VehicleNumber,
		DeliveryDate:    do.DeliveryDate,
		Status:          string(do.Status),
		Items:           items,
		IsExternal:      false,
	}
}

// InternalTransporterAdapter serves transporter reads from the platform
// database
type InternalTransporterAdapter struct {
	repo partner.TransporterRepository
}

// NewInternalTransporterAdapter creates a new InternalTransporterAdapter
func NewInternalTransporterAdapter(repo partner.TransporterRepository) *InternalTransporterAdapter {
	return &InternalTransporterAdapter{repo: repo}
}

// FindAll lists transporters from the platform store
func (a *InternalTransporterAdapter) FindAll(ctx context.Context, tenantID string, filter shared.Filter, _ *federation.EntityQueryConfig) ([]federation.TransporterDTO, error) {
	transporters, err := a.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.TransporterDTO, len(transporters))
	for i := range transporters {
		dtos[i] = transporterToDTO(&transporters[i])
	}
	return dtos, nil
}

// FindByID loads one transporter from the platform store
func (a *InternalTransporterAdapter) FindByID(ctx context.Context, tenantID, id string, _ *federation.EntityQueryConfig) (*federation.TransporterDTO, error) {
	transporter, err := a.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := transporterToDTO(transporter)
	return &dto, nil
}

// FindByIDs loads multiple transporters from the platform store
func (a *InternalTransporterAdapter) FindByIDs(ctx context.Context, tenantID string, ids []string, _ *federation.EntityQueryConfig) ([]federation.TransporterDTO, error) {
	transporters, err := a.repo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.TransporterDTO, len(transporters))
	for i := range transporters {
		dtos[i] = transporterToDTO(&transporters[i])
	}
	return dtos, nil
}

func transporterToDTO(t *partner.Transporter) federation.TransporterDTO {
	return federation.TransporterDTO{
		ID:          t.ID.String(),
		Code:        t.Code,
		Name:        t.Name,
		ContactName: t.ContactName,
		Phone:       t.Phone,
		Email:       t.Email,
		IsActive:    t.IsActive(),
		IsExternal:  false,
	}
}

// Compile-time checks that both adapter families satisfy the reader contracts
var (
	_ federation.VendorReader        = (*InternalVendorAdapter)(nil)
	_ federation.VendorReader        = (*ExternalVendorAdapter)(nil)
	_ federation.MaterialReader      = (*InternalMaterialAdapter)(nil)
	_ federation.MaterialReader      = (*ExternalMaterialAdapter)(nil)
	_ federation.PurchaseOrderReader = (*InternalPurchaseOrderAdapter)(nil)
	_ federation.PurchaseOrderReader = (*ExternalPurchaseOrderAdapter)(nil)
	_ federation.DeliveryOrderReader = (*InternalDeliveryOrderAdapter)(nil)
	_ federation.DeliveryOrderReader = (*ExternalDeliveryOrderAdapter)(nil)
	_ federation.TransporterReader   = (*InternalTransporterAdapter)(nil)
	_ federation.TransporterReader   = (*ExternalTransporterAdapter)(nil)
)
