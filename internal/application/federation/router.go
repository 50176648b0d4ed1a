package federation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/procurehub/backend/internal/domain/federation"
	"github.com/procurehub/backend/internal/domain/shared"
)

// configCacheTTL bounds how long a routing decision can lag behind a
// configuration change on this instance. Cross-instance changes arrive through
// the invalidation channel.
const configCacheTTL = 60 * time.Second

// TenantCache is the cache seam the router shares with the external adapters,
// widened with invalidation. Implemented by the in-memory TTL cache.
type TenantCache interface {
	RecordCache
	Delete(key string)
	InvalidateTenant(tenantID string) int
}

// PoolCloser releases a tenant's external connection pool. Implemented by the
// extdb pool manager.
type PoolCloser interface {
	Close(tenantID string)
}

// DataSourceRouter decides, per tenant and per call, whether an entity read is
// served from the platform database or the tenant's external database. It
// assembles the per-entity query bundle for external reads and never falls
// back to internal data when an external read fails.
type DataSourceRouter struct {
	configs   federation.ConfigProvider
	decrypter federation.SecretDecrypter
	cache     TenantCache
	pools     PoolCloser
	logger    *zap.Logger

	internalVendors        federation.VendorReader
	externalVendors        federation.VendorReader
	internalMaterials      federation.MaterialReader
	externalMaterials      federation.MaterialReader
	internalPurchaseOrders federation.PurchaseOrderReader
	externalPurchaseOrders federation.PurchaseOrderReader
	internalDeliveryOrders federation.DeliveryOrderReader
	externalDeliveryOrders federation.DeliveryOrderReader
	internalTransporters   federation.TransporterReader
	externalTransporters   federation.TransporterReader
}

// RouterDeps bundles the collaborators of the DataSourceRouter
type RouterDeps struct {
	Configs   federation.ConfigProvider
	Decrypter federation.SecretDecrypter
	Cache     TenantCache
	Pools     PoolCloser
	Logger    *zap.Logger

	InternalVendors        federation.VendorReader
	ExternalVendors        federation.VendorReader
	InternalMaterials      federation.MaterialReader
	ExternalMaterials      federation.MaterialReader
	InternalPurchaseOrders federation.PurchaseOrderReader
	ExternalPurchaseOrders federation.PurchaseOrderReader
	InternalDeliveryOrders federation.DeliveryOrderReader
	ExternalDeliveryOrders federation.DeliveryOrderReader
	InternalTransporters   federation.TransporterReader
	ExternalTransporters   federation.TransporterReader
}

// NewDataSourceRouter creates a new DataSourceRouter
func NewDataSourceRouter(deps RouterDeps) *DataSourceRouter {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataSourceRouter{
		configs:                deps.Configs,
		decrypter:              deps.Decrypter,
		cache:                  deps.Cache,
		pools:                  deps.Pools,
		logger:                 logger,
		internalVendors:        deps.InternalVendors,
		externalVendors:        deps.ExternalVendors,
		internalMaterials:      deps.InternalMaterials,
		externalMaterials:      deps.ExternalMaterials,
		internalPurchaseOrders: deps.InternalPurchaseOrders,
		externalPurchaseOrders: deps.ExternalPurchaseOrders,
		internalDeliveryOrders: deps.InternalDeliveryOrders,
		externalDeliveryOrders: deps.ExternalDeliveryOrders,
		internalTransporters:   deps.InternalTransporters,
		externalTransporters:   deps.ExternalTransporters,
	}
}

func configCacheKey(tenantID string) string {
	return "config:" + tenantID + ":current"
}

// loadConfig returns the tenant's data source configuration, nil when the
// tenant has none. The result is cached briefly to keep routing decisions off
// the platform database's hot path.
func (r *DataSourceRouter) loadConfig(ctx context.Context, tenantID string) (*federation.TenantDataSourceConfig, error) {
	key := configCacheKey(tenantID)
	if v, ok := r.cache.Get(key); ok {
		if cfg, ok := v.(*federation.TenantDataSourceConfig); ok {
			return cfg, nil
		}
		return nil, nil
	}
	cfg, err := r.configs.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			r.cache.Set(key, (*federation.TenantDataSourceConfig)(nil), configCacheTTL)
			return nil, nil
		}
		return nil, err
	}
	r.cache.Set(key, cfg, configCacheTTL)
	return cfg, nil
}

// route resolves the tenant's routing decision. It returns a nil query config
// for internal reads, or a fully assembled bundle for external reads. An
// enabled but broken configuration is an error, never a silent fallback.
func (r *DataSourceRouter) route(ctx context.Context, tenantID string, entity federation.EntityType) (*federation.EntityQueryConfig, error) {
	cfg, err := r.loadConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if cfg == nil || !cfg.ExternalEnabled {
		return nil, nil
	}
	if !cfg.IsComplete() {
		return nil, &federation.ConfigurationError{
			TenantID: tenantID,
			Reason:   "missing connection fields: " + strings.Join(cfg.MissingFields(), ", "),
		}
	}
	password, err := r.decrypter.Decrypt(cfg.PasswordEncrypted)
	if err != nil {
		return nil, &federation.ConfigurationError{
			TenantID: tenantID,
			Reason:   "stored password cannot be decrypted",
		}
	}
	conn := federation.ConnParams{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Database: cfg.Database,
		Username: cfg.Username,
		Password: password,
	}
	return r.buildQueryConfig(cfg, entity, conn), nil
}

// buildQueryConfig assembles the per-entity bundle: resolved table, merged
// mappings, display-name joins, and for delivery orders the child item fetch.
func (r *DataSourceRouter) buildQueryConfig(cfg *federation.TenantDataSourceConfig, entity federation.EntityType, conn federation.ConnParams) *federation.EntityQueryConfig {
	qc := &federation.EntityQueryConfig{
		Entity:   entity,
		Table:    cfg.TableFor(entity),
		Mappings: cfg.MappingsFor(entity),
		CacheTTL: cfg.EffectiveCacheTTL(),
		Conn:     conn,
	}

	vendorMappings := cfg.MappingsFor(federation.EntityVendor)
	switch entity {
	case federation.EntityPurchaseOrder:
		qc.Joins = []federation.JoinSpec{vendorNameJoin(cfg, qc.Mappings, vendorMappings)}
	case federation.EntityDeliveryOrder:
		transporterMappings := cfg.MappingsFor(federation.EntityTransporter)
		qc.Joins = []federation.JoinSpec{
			vendorNameJoin(cfg, qc.Mappings, vendorMappings),
			{
				Table:         cfg.TableFor(federation.EntityTransporter),
				LocalColumn:   federation.ExternalField(qc.Mappings, "transporterId"),
				ForeignColumn: federation.ExternalField(transporterMappings, "id"),
				Columns: map[string]string{
					"transporterName": federation.ExternalField(transporterMappings, "name"),
				},
			},
		}
		qc.Items = r.buildItemsConfig(cfg, conn)
	}
	return qc
}

func vendorNameJoin(cfg *federation.TenantDataSourceConfig, mappings, vendorMappings []federation.FieldMapping) federation.JoinSpec {
	return federation.JoinSpec{
		Table:         cfg.TableFor(federation.EntityVendor),
		LocalColumn:   federation.ExternalField(mappings, "vendorId"),
		ForeignColumn: federation.ExternalField(vendorMappings, "id"),
		Columns: map[string]string{
			"vendorName": federation.ExternalField(vendorMappings, "companyName"),
		},
	}
}

func (r *DataSourceRouter) buildItemsConfig(cfg *federation.TenantDataSourceConfig, conn federation.ConnParams) *federation.EntityQueryConfig {
	itemMappings := cfg.MappingsFor(federation.EntityDeliveryOrderItem)
	materialMappings := cfg.MappingsFor(federation.EntityMaterial)
	return &federation.EntityQueryConfig{
		Entity:   federation.EntityDeliveryOrderItem,
		Table:    cfg.TableFor(federation.EntityDeliveryOrderItem),
		Mappings: itemMappings,
		CacheTTL: cfg.EffectiveCacheTTL(),
		Conn:     conn,
		Joins: []federation.JoinSpec{
			{
				Table:         cfg.TableFor(federation.EntityMaterial),
				LocalColumn:   federation.ExternalField(itemMappings, "materialId"),
				ForeignColumn: federation.ExternalField(materialMappings, "id"),
				Columns: map[string]string{
					"materialName": federation.ExternalField(materialMappings, "name"),
				},
			},
		},
	}
}

// IsExternalDBEnabled reports whether the tenant routes reads externally
func (r *DataSourceRouter) IsExternalDBEnabled(ctx context.Context, tenantID string) (bool, error) {
	cfg, err := r.loadConfig(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return cfg.ShouldUseExternal(), nil
}

// InvalidateTenant drops every cached read and the cached configuration for
// the tenant on this instance, and releases its external connection pool.
func (r *DataSourceRouter) InvalidateTenant(tenantID string) {
	removed := r.cache.InvalidateTenant(tenantID)
	r.cache.Delete(configCacheKey(tenantID))
	if r.pools != nil {
		r.pools.Close(tenantID)
	}
	r.logger.Info("tenant data source invalidated",
		zap.String("tenant_id", tenantID),
		zap.Int("cache_entries_removed", removed))
}

// GetVendors lists vendors from the tenant's active data source
func (r *DataSourceRouter) GetVendors(ctx context.Context, tenantID string, filter shared.Filter) ([]federation.VendorDTO, error) {
	qc, err := r.route(ctx, tenantID, federation.EntityVendor)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return r.internalVendors.FindAll(ctx, tenantID, filter, nil)
	}
	return r.externalVendors.FindAll(ctx, tenantID, filter, qc)
}

// GetVendorByID loads one vendor from the tenant's active data source
func (r *DataSourceRouter) GetVendorByID(ctx context.Context, tenantID, id string) (*federation.VendorDTO, error) {
	qc, err := r.route(ctx, tenantID, federation.EntityVendor)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return r.internalVendors.FindByID(ctx, tenantID, id, nil)
	}
	return r.externalVendors.FindByID(ctx, tenantID, id, qc)
}

// GetVendorsByIDs loads multiple vendors from the tenant's active data source
func (r *DataSourceRouter) GetVendorsByIDs(ctx context.Context, tenantID string, ids []string) ([]federation.VendorDTO, error) {
	qc, err := r.route(ctx, tenantID, federation.EntityVendor)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return r.internalVendors.FindByIDs(ctx, tenantID, ids, nil)
	}
	return r.externalVendors.FindByIDs(ctx, tenantID, ids, qc)
}

// GetMaterials lists materials from the tenant's active data source
func (r *DataSourceRouter) GetMaterials(ctx context.Context, tenantID string, filter shared.Filter) ([]federation.MaterialDTO, error) {
	qc, err := r.route(ctx, tenantID, federation.EntityMaterial)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return r.internalMaterials.FindAll(ctx, tenantID, filter, nil)
	}
	return r.externalMaterials.FindAll(ctx, tenantID, filter, qc)
}

// GetMaterialByID loads one material from the tenant's active data source
func (r *DataSourceRouter) GetMaterialByID(ctx context.Context, tenantID, id string) (*federation.MaterialDTO, error) {
	qc, err := r.route(ctx, tenantID, federation.EntityMaterial)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return r.internalMaterials.FindByID(ctx, tenantID, id, nil)
	}
	return r.externalMaterials.FindByID(ctx, tenantID, id, qc)
}

// GetMaterialsByIDs loads multiple materials from the tenant's active data source
func (r *DataSourceRouter) GetMaterialsByIDs(ctx context.Context, tenantID string, ids []string) ([]federation.MaterialDTO, error) {
	qc, err := r.route(ctx, tenantID, federation.EntityMaterial)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return r.internalMaterials.FindByIDs(ctx, tenantID, ids, nil)
	}
	return r.externalMaterials.FindByIDs(ctx, tenantID, ids, qc)
}

// GetPurchaseOrders lists purchase orders from the tenant's active data source
func (r *DataSourceRouter) GetPurchaseOrders(ctx context.Context, tenantID string, filter shared.Filter) ([]federation.PurchaseOrderDTO, error) {
	qc, err := r.route(ctx, tenantID, federation.EntityPurchaseOrder)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return r.internalPurchaseOrders.FindAll(ctx, tenantID, filter, nil)
	}
	return r.externalPurchaseOrders.FindAll(ctx, tenantID, filter, qc)
}

// GetPurchaseOrderByID loads one purchase order from the tenant's active data source
func (r *DataSourceRouter) GetPurchaseOrderByID(ctx context.Context, tenantID, id string) (*federation.PurchaseOrderDTO, error) {
	qc, err := r.route(ctx, tenantID, federation.EntityPurchaseOrder)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return r.internalPurchaseOrders.FindByID(ctx, tenantID, id, nil)
	}
	return r.externalPurchaseOrders.FindByID(ctx, tenantID, id, qc)
}

// GetPurchaseOrdersByVendor lists purchase orders for one vendor
func (r *DataSourceRouter) GetPurchaseOrdersByVendor(ctx context.Context, tenantID, vendorID string) ([]federation.PurchaseOrderDTO, error) {
	qc, err := r.route(ctx, tenantID, federation.EntityPurchaseOrder)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return r.internalPurchaseOrders.FindByVendorID(ctx, tenantID, vendorID, nil)
	}
	return r.externalPurchaseOrders.FindByVendorID(ctx, tenantID, vendorID, qc)
}

// GetDeliveryOrders lists delivery orders from the tenant's active data source
func (r *DataSourceRouter) GetDeliveryOrders(ctx context.Context, tenantID string, filter shared.Filter) ([]federation.DeliveryOrderDTO, error) {
	qc, err := r.route(ctx, tenantID, federation.EntityDeliveryOrder)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return r.internalDeliveryOrders.FindAll(ctx, tenantID, filter, nil)
	}
	return r.externalDeliveryOrders.FindAll(ctx, tenantID, filter, qc)
}

// GetDeliveryOrderByID loads one delivery order from the tenant's active data source
func (r *DataSourceRouter) GetDeliveryOrderByID(ctx context.Context, tenantID, id string) (*federation.DeliveryOrderDTO, error) {
	qc, err := r.route(ctx, tenantID, federation.EntityDeliveryOrder)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return r.internalDeliveryOrders.FindByID(ctx, tenantID, id, nil)
	}
	return r.externalDeliveryOrders.FindByID(ctx, tenantID, id, qc)
}

// GetDeliveryOrdersByVendor lists delivery orders for one vendor
func (r *DataSourceRouter) GetDeliveryOrdersByVendor(ctx context.Context, tenantID, vendorID string) ([]federation.DeliveryOrderDTO, error) {
	qc, err := r.route(ctx, tenantID, federation.EntityDeliveryOrder)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return r.internalDeliveryOrders.FindByVendorID(ctx, tenantID, vendorID, nil)
	}
	return r.externalDeliveryOrders.FindByVendorID(ctx, tenantID, vendorID, qc)
}

// GetTransporters lists transporters from the tenant's active data source
func (r *DataSourceRouter) GetTransporters(ctx context.Context, tenantID string, filter shared.Filter) ([]federation.TransporterDTO, error) {
	qc, err := r.route(ctx, tenantID, federation.EntityTransporter)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return r.internalTransporters.FindAll(ctx, tenantID, filter, nil)
	}
	return r.externalTransporters.FindAll(ctx, tenantID, filter, qc)
}

// GetTransporterByID loads one transporter from the tenant's active data source
func (r *DataSourceRouter) GetTransporterByID(ctx context.Context, tenantID, id string) (*federation.TransporterDTO, error) {
	qc, err := r.route(ctx, tenantID, federation.EntityTransporter)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return r.internalTransporters.FindByID(ctx, tenantID, id, nil)
	}
	return r.externalTransporters.FindByID(ctx, tenantID, id, qc)
}

// GetTransportersByIDs loads multiple transporters from the tenant's active data source
func (r *DataSourceRouter) GetTransportersByIDs(ctx context.Context, tenantID string, ids []string) ([]federation.TransporterDTO, error) {
	qc, err := r.route(ctx, tenantID, federation.EntityTransporter)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return r.internalTransporters.FindByIDs(ctx, tenantID, ids, nil)
	}
	return r.externalTransporters.FindByIDs(ctx, tenantID, ids, qc)
}
