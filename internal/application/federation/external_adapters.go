package federation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/procurehub/backend/internal/domain/federation"
	"github.com/procurehub/backend/internal/domain/shared"
	"github.com/procurehub/backend/internal/infrastructure/cache"
)

// QueryExecutor runs parameterized queries against a tenant's external
// database. Implemented by the extdb pool manager.
type QueryExecutor interface {
	ExecuteQuery(ctx context.Context, tenantID string, params federation.ConnParams, query string, args ...any) ([]map[string]any, error)
}

// RecordCache is the read-through cache seam for external fetch results.
// Implemented by the in-memory TTL cache.
type RecordCache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

// externalReader is the shared machinery of all external adapters: build the
// SELECT from the query config, execute it through the pool manager, and map
// raw rows to canonical records.
type externalReader struct {
	exec   QueryExecutor
	cache  RecordCache
	logger *zap.Logger
}

func newExternalReader(exec QueryExecutor, c RecordCache, logger *zap.Logger) externalReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return externalReader{exec: exec, cache: c, logger: logger}
}

// queryRecords executes the configured SELECT and returns records keyed by
// internal field names.
func (r *externalReader) queryRecords(ctx context.Context, tenantID string, qc *federation.EntityQueryConfig, configure func(*selectBuilder) error) ([]map[string]any, error) {
	b, err := buildSelect(qc)
	if err != nil {
		return nil, err
	}
	if configure != nil {
		if err := configure(b); err != nil {
			return nil, err
		}
	}
	q := b.Build()
	rows, err := r.exec.ExecuteQuery(ctx, tenantID, qc.Conn, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	records := make([]map[string]any, len(rows))
	for i, row := range rows {
		records[i] = mapRecord(row, qc)
	}
	return records, nil
}

// mapRecord applies the field mappings and folds in join columns, which are
// already aliased to their internal field names in the SELECT.
func mapRecord(row map[string]any, qc *federation.EntityQueryConfig) map[string]any {
	rec := federation.ApplyMappings(row, qc.Mappings)
	for _, j := range qc.Joins {
		for internalField := range j.Columns {
			if v, ok := row[internalField]; ok && v != nil {
				rec[internalField] = v
			}
		}
	}
	return rec
}

func (r *externalReader) idColumn(qc *federation.EntityQueryConfig) string {
	return federation.ExternalField(qc.Mappings, "id")
}

func listQualifier(filter shared.Filter) string {
	return fmt.Sprintf("all:%d:%d", filter.Limit, filter.Offset)
}

func idsQualifier(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return "ids:" + strings.Join(sorted, ",")
}

// ExternalVendorAdapter reads vendors from the tenant's external database
type ExternalVendorAdapter struct {
	externalReader
}

// NewExternalVendorAdapter creates a new ExternalVendorAdapter
func NewExternalVendorAdapter(exec QueryExecutor, c RecordCache, logger *zap.Logger) *ExternalVendorAdapter {
	return &ExternalVendorAdapter{newExternalReader(exec, c, logger)}
}

// FindAll fetches a page of vendors, cache first
func (a *ExternalVendorAdapter) FindAll(ctx context.Context, tenantID string, filter shared.Filter, qc *federation.EntityQueryConfig) ([]federation.VendorDTO, error) {
	key := cache.Key(federation.EntityVendor, tenantID, listQualifier(filter))
	if v, ok := a.cache.Get(key); ok {
		return v.([]federation.VendorDTO), nil
	}
	records, err := a.queryRecords(ctx, tenantID, qc, func(b *selectBuilder) error {
		if err := b.OrderBy(a.idColumn(qc)); err != nil {
			return err
		}
		b.Paginate(filter.Limit, filter.Offset)
		return nil
	})
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.VendorDTO, len(records))
	for i, rec := range records {
		dtos[i] = federation.VendorFromRecord(rec)
	}
	a.cache.Set(key, dtos, qc.CacheTTL)
	return dtos, nil
}

// FindByID fetches one vendor by its external identifier
func (a *ExternalVendorAdapter) FindByID(ctx context.Context, tenantID, id string, qc *federation.EntityQueryConfig) (*federation.VendorDTO, error) {
	key := cache.Key(federation.EntityVendor, tenantID, "id:"+id)
	if v, ok := a.cache.Get(key); ok {
		dto := v.(federation.VendorDTO)
		return &dto, nil
	}
	records, err := a.queryRecords(ctx, tenantID, qc, func(b *selectBuilder) error {
		return b.WhereEq(a.idColumn(qc), id)
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, federation.ErrNotFound
	}
	dto := federation.VendorFromRecord(records[0])
	a.cache.Set(key, dto, qc.CacheTTL)
	return &dto, nil
}

// FindByIDs fetches multiple vendors with a single IN query
func (a *ExternalVendorAdapter) FindByIDs(ctx context.Context, tenantID string, ids []string, qc *federation.EntityQueryConfig) ([]federation.VendorDTO, error) {
	if len(ids) == 0 {
		return []federation.VendorDTO{}, nil
	}
	key := cache.Key(federation.EntityVendor, tenantID, idsQualifier(ids))
	if v, ok := a.cache.Get(key); ok {
		return v.([]federation.VendorDTO), nil
	}
	records, err := a.queryRecords(ctx, tenantID, qc, func(b *selectBuilder) error {
		return b.WhereIn(a.idColumn(qc), ids)
	})
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.VendorDTO, len(records))
	for i, rec := range records {
		dtos[i] = federation.VendorFromRecord(rec)
	}
	a.cache.Set(key, dtos, qc.CacheTTL)
	return dtos, nil
}

// ExternalMaterialAdapter reads materials from the tenant's external database
type ExternalMaterialAdapter struct {
	externalReader
}

// NewExternalMaterialAdapter creates a new ExternalMaterialAdapter
func NewExternalMaterialAdapter(exec QueryExecutor, c RecordCache, logger *zap.Logger) *ExternalMaterialAdapter {
	return &ExternalMaterialAdapter{newExternalReader(exec, c, logger)}
}

// FindAll fetches a page of materials, cache first
func (a *ExternalMaterialAdapter) FindAll(ctx context.Context, tenantID string, filter shared.Filter, qc *federation.EntityQueryConfig) ([]federation.MaterialDTO, error) {
	key := cache.Key(federation.EntityMaterial, tenantID, listQualifier(filter))
	if v, ok := a.cache.Get(key); ok {
		return v.([]federation.MaterialDTO), nil
	}
	records, err := a.queryRecords(ctx, tenantID, qc, func(b *selectBuilder) error {
		if err := b.OrderBy(a.idColumn(qc)); err != nil {
			return err
		}
		b.Paginate(filter.Limit, filter.Offset)
		return nil
	})
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.MaterialDTO, len(records))
	for i, rec := range records {
		dtos[i] = federation.MaterialFromRecord(rec)
	}
	a.cache.Set(key, dtos, qc.CacheTTL)
	return dtos, nil
}

// FindByID fetches one material by its external identifier
func (a *ExternalMaterialAdapter) FindByID(ctx context.Context, tenantID, id string, qc *federation.EntityQueryConfig) (*federation.MaterialDTO, error) {
	key := cache.Key(federation.EntityMaterial, tenantID, "id:"+id)
	if v, ok := a.cache.Get(key); ok {
		dto := v.(federation.MaterialDTO)
		return &dto, nil
	}
	records, err := a.queryRecords(ctx, tenantID, qc, func(b *selectBuilder) error {
		return b.WhereEq(a.idColumn(qc), id)
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, federation.ErrNotFound
	}
	dto := federation.MaterialFromRecord(records[0])
	a.cache.Set(key, dto, qc.CacheTTL)
	return &dto, nil
}

// FindByIDs fetches multiple materials with a single IN query
func (a *ExternalMaterialAdapter) FindByIDs(ctx context.Context, tenantID string, ids []string, qc *federation.EntityQueryConfig) ([]federation.MaterialDTO, error) {
	if len(ids) == 0 {
		return []federation.MaterialDTO{}, nil
	}
	key := cache.Key(federation.EntityMaterial, tenantID, idsQualifier(ids))
	if v, ok := a.cache.Get(key); ok {
		return v.([]federation.MaterialDTO), nil
	}
	records, err := a.queryRecords(ctx, tenantID, qc, func(b *selectBuilder) error {
		return b.WhereIn(a.idColumn(qc), ids)
	})
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.MaterialDTO, len(records))
	for i, rec := range records {
		dtos[i] = federation.MaterialFromRecord(rec)
	}
	a.cache.Set(key, dtos, qc.CacheTTL)
	return dtos, nil
}

// ExternalPurchaseOrderAdapter reads purchase orders from the tenant's
// external database
type ExternalPurchaseOrderAdapter struct {
	externalReader
}

// NewExternalPurchaseOrderAdapter creates a new ExternalPurchaseOrderAdapter
func NewExternalPurchaseOrderAdapter(exec QueryExecutor, c RecordCache, logger *zap.Logger) *ExternalPurchaseOrderAdapter {
	return &ExternalPurchaseOrderAdapter{newExternalReader(exec, c, logger)}
}

// FindAll fetches a page of purchase orders, cache first
func (a *ExternalPurchaseOrderAdapter) FindAll(ctx context.Context, tenantID string, filter shared.Filter, qc *federation.EntityQueryConfig) ([]federation.PurchaseOrderDTO, error) {
	key := cache.Key(federation.EntityPurchaseOrder, tenantID, listQualifier(filter))
	if v, ok := a.cache.Get(key); ok {
		return v.([]federation.PurchaseOrderDTO), nil
	}
	records, err := a.queryRecords(ctx, tenantID, qc, func(b *selectBuilder) error {
		if err := b.OrderBy(a.idColumn(qc)); err != nil {
			return err
		}
		b.Paginate(filter.Limit, filter.Offset)
		return nil
	})
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.PurchaseOrderDTO, len(records))
	for i, rec := range records {
		dtos[i] = federation.PurchaseOrderFromRecord(rec)
	}
	a.cache.Set(key, dtos, qc.CacheTTL)
	return dtos, nil
}

// FindByID fetches one purchase order by its external identifier
func (a *ExternalPurchaseOrderAdapter) FindByID(ctx context.Context, tenantID, id string, qc *federation.EntityQueryConfig) (*federation.PurchaseOrderDTO, error) {
	key := cache.Key(federation.EntityPurchaseOrder, tenantID, "id:"+id)
	if v, ok := a.cache.Get(key); ok {
		dto := v.(federation.PurchaseOrderDTO)
		return &dto, nil
	}
	records, err := a.queryRecords(ctx, tenantID, qc, func(b *selectBuilder) error {
		return b.WhereEq(a.idColumn(qc), id)
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, federation.ErrNotFound
	}
	dto := federation.PurchaseOrderFromRecord(records[0])
	a.cache.Set(key, dto, qc.CacheTTL)
	return &dto, nil
}

// FindByIDs fetches multiple purchase orders with a single IN query
func (a *ExternalPurchaseOrderAdapter) FindByIDs(ctx context.Context, tenantID string, ids []string, qc *federation.EntityQueryConfig) ([]federation.PurchaseOrderDTO, error) {
	if len(ids) == 0 {
		return []federation.PurchaseOrderDTO{}, nil
	}
	key := cache.Key(federation.EntityPurchaseOrder, tenantID, idsQualifier(ids))
	if v, ok := a.cache.Get(key); ok {
		return v.([]federation.PurchaseOrderDTO), nil
	}
	records, err := a.queryRecords(ctx, tenantID, qc, func(b *selectBuilder) error {
		return b.WhereIn(a.idColumn(qc), ids)
	})
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.PurchaseOrderDTO, len(records))
	for i, rec := range records {
		dtos[i] = federation.PurchaseOrderFromRecord(rec)
	}
	a.cache.Set(key, dtos, qc.CacheTTL)
	return dtos, nil
}

// FindByVendorID fetches purchase orders raised against one vendor
func (a *ExternalPurchaseOrderAdapter) FindByVendorID(ctx context.Context, tenantID, vendorID string, qc *federation.EntityQueryConfig) ([]federation.PurchaseOrderDTO, error) {
	key := cache.Key(federation.EntityPurchaseOrder, tenantID, "vendor:"+vendorID)
	if v, ok := a.cache.Get(key); ok {
		return v.([]federation.PurchaseOrderDTO), nil
	}
	records, err := a.queryRecords(ctx, tenantID, qc, func(b *selectBuilder) error {
		return b.WhereEq(federation.ExternalField(qc.Mappings, "vendorId"), vendorID)
	})
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.PurchaseOrderDTO, len(records))
	for i, rec := range records {
		dtos[i] = federation.PurchaseOrderFromRecord(rec)
	}
	a.cache.Set(key, dtos, qc.CacheTTL)
	return dtos, nil
}

// ExternalTransporterAdapter reads transporters from the tenant's external
// database
type ExternalTransporterAdapter struct {
	externalReader
}

// NewExternalTransporterAdapter creates a new ExternalTransporterAdapter
func NewExternalTransporterAdapter(exec QueryExecutor, c RecordCache, logger *zap.Logger) *ExternalTransporterAdapter {
	return &ExternalTransporterAdapter{newExternalReader(exec, c, logger)}
}

// FindAll fetches a page of transporters, cache first
func (a *ExternalTransporterAdapter) FindAll(ctx context.Context, tenantID string, filter shared.Filter, qc *federation.EntityQueryConfig) ([]federation.TransporterDTO, error) {
	key := cache.Key(federation.EntityTransporter, tenantID, listQualifier(filter))
	if v, ok := a.cache.Get(key); ok {
		return v.([]federation.TransporterDTO), nil
	}
	records, err := a.queryRecords(ctx, tenantID, qc, func(b *selectBuilder) error {
		if err := b.OrderBy(a.idColumn(qc)); err != nil {
			return err
		}
		b.Paginate(filter.Limit, filter.Offset)
		return nil
	})
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.TransporterDTO, len(records))
	for i, rec := range records {
		dtos[i] = federation.TransporterFromRecord(rec)
	}
	a.cache.Set(key, dtos, qc.CacheTTL)
	return dtos, nil
}

// FindByID fetches one transporter by its external identifier
func (a *ExternalTransporterAdapter) FindByID(ctx context.Context, tenantID, id string, qc *federation.EntityQueryConfig) (*federation.TransporterDTO, error) {
	key := cache.Key(federation.EntityTransporter, tenantID, "id:"+id)
	if v, ok := a.cache.Get(key); ok {
		dto := v.(federation.TransporterDTO)
		return &dto, nil
	}
	records, err := a.queryRecords(ctx, tenantID, qc, func(b *selectBuilder) error {
		return b.WhereEq(a.idColumn(qc), id)
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, federation.ErrNotFound
	}
	dto := federation.TransporterFromRecord(records[0])
	a.cache.Set(key, dto, qc.CacheTTL)
	return &dto, nil
}

// FindByIDs fetches multiple transporters with a single IN query
func (a *ExternalTransporterAdapter) FindByIDs(ctx context.Context, tenantID string, ids []string, qc *federation.EntityQueryConfig) ([]federation.TransporterDTO, error) {
	if len(ids) == 0 {
		return []federation.TransporterDTO{}, nil
	}
	key := cache.Key(federation.EntityTransporter, tenantID, idsQualifier(ids))
	if v, ok := a.cache.Get(key); ok {
		return v.([]federation.TransporterDTO), nil
	}
	records, err := a.queryRecords(ctx, tenantID, qc, func(b *selectBuilder) error {
		return b.WhereIn(a.idColumn(qc), ids)
	})
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.TransporterDTO, len(records))
	for i, rec := range records {
		dtos[i] = federation.TransporterFromRecord(rec)
	}
	a.cache.Set(key, dtos, qc.CacheTTL)
	return dtos, nil
}

// ExternalDeliveryOrderAdapter reads delivery orders and their line items from
// the tenant's external database. Item fetches degrade gracefully: when the
// child query fails, parents are returned with empty items and a warning is
// logged.
type ExternalDeliveryOrderAdapter struct {
	externalReader
}

// NewExternalDeliveryOrderAdapter creates a new ExternalDeliveryOrderAdapter
func NewExternalDeliveryOrderAdapter(exec QueryExecutor, c RecordCache, logger *zap.Logger) *ExternalDeliveryOrderAdapter {
	return &ExternalDeliveryOrderAdapter{newExternalReader(exec, c, logger)}
}

// FindAll fetches a page of delivery orders with their items, cache first
func (a *ExternalDeliveryOrderAdapter) FindAll(ctx context.Context, tenantID string, filter shared.Filter, qc *federation.EntityQueryConfig) ([]federation.DeliveryOrderDTO, error) {
	key := cache.Key(federation.EntityDeliveryOrder, tenantID, listQualifier(filter))
	if v, ok := a.cache.Get(key); ok {
		return v.([]federation.DeliveryOrderDTO), nil
	}
	dtos, err := a.fetchParents(ctx, tenantID, qc, func(b *selectBuilder) error {
		if err := b.OrderBy(a.idColumn(qc)); err != nil {
			return err
		}
		b.Paginate(filter.Limit, filter.Offset)
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.cache.Set(key, dtos, qc.CacheTTL)
	return dtos, nil
}

// FindByID fetches one delivery order with its items
func (a *ExternalDeliveryOrderAdapter) FindByID(ctx context.Context, tenantID, id string, qc *federation.EntityQueryConfig) (*federation.DeliveryOrderDTO, error) {
	key := cache.Key(federation.EntityDeliveryOrder, tenantID, "id:"+id)
	if v, ok := a.cache.Get(key); ok {
		dto := v.(federation.DeliveryOrderDTO)
		return &dto, nil
	}
	dtos, err := a.fetchParents(ctx, tenantID, qc, func(b *selectBuilder) error {
		return b.WhereEq(a.idColumn(qc), id)
	})
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, federation.ErrNotFound
	}
	a.cache.Set(key, dtos[0], qc.CacheTTL)
	return &dtos[0], nil
}

// FindByIDs fetches multiple delivery orders with their items
func (a *ExternalDeliveryOrderAdapter) FindByIDs(ctx context.Context, tenantID string, ids []string, qc *federation.EntityQueryConfig) ([]federation.DeliveryOrderDTO, error) {
	if len(ids) == 0 {
		return []federation.DeliveryOrderDTO{}, nil
	}
	key := cache.Key(federation.EntityDeliveryOrder, tenantID, idsQualifier(ids))
	if v, ok := a.cache.Get(key); ok {
		return v.([]federation.DeliveryOrderDTO), nil
	}
	dtos, err := a.fetchParents(ctx, tenantID, qc, func(b *selectBuilder) error {
		return b.WhereIn(a.idColumn(qc), ids)
	})
	if err != nil {
		return nil, err
	}
	a.cache.Set(key, dtos, qc.CacheTTL)
	return dtos, nil
}

// FindByVendorID fetches delivery orders executed for one vendor
func (a *ExternalDeliveryOrderAdapter) FindByVendorID(ctx context.Context, tenantID, vendorID string, qc *federation.EntityQueryConfig) ([]federation.DeliveryOrderDTO, error) {
	key := cache.Key(federation.EntityDeliveryOrder, tenantID, "vendor:"+vendorID)
	if v, ok := a.cache.Get(key); ok {
		return v.([]federation.DeliveryOrderDTO), nil
	}
	dtos, err := a.fetchParents(ctx, tenantID, qc, func(b *selectBuilder) error {
		return b.WhereEq(federation.ExternalField(qc.Mappings, "vendorId"), vendorID)
	})
	if err != nil {
		return nil, err
	}
	a.cache.Set(key, dtos, qc.CacheTTL)
	return dtos, nil
}

func (a *ExternalDeliveryOrderAdapter) fetchParents(ctx context.Context, tenantID string, qc *federation.EntityQueryConfig, configure func(*selectBuilder) error) ([]federation.DeliveryOrderDTO, error) {
	records, err := a.queryRecords(ctx, tenantID, qc, configure)
	if err != nil {
		return nil, err
	}
	dtos := make([]federation.DeliveryOrderDTO, len(records))
	parentIDs := make([]string, 0, len(records))
	for i, rec := range records {
		dtos[i] = federation.DeliveryOrderFromRecord(rec)
		if dtos[i].ID != "" {
			parentIDs = append(parentIDs, dtos[i].ID)
		}
	}
	a.attachItems(ctx, tenantID, qc, dtos, parentIDs)
	return dtos, nil
}

// attachItems loads line items for the fetched parents in one IN query and
// groups them by parent. Failures are logged and leave items empty.
func (a *ExternalDeliveryOrderAdapter) attachItems(ctx context.Context, tenantID string, qc *federation.EntityQueryConfig, parents []federation.DeliveryOrderDTO, parentIDs []string) {
	if qc.Items == nil || len(parentIDs) == 0 {
		return
	}
	itemRecords, err := a.queryRecords(ctx, tenantID, qc.Items, func(b *selectBuilder) error {
		return b.WhereIn(federation.ExternalField(qc.Items.Mappings, "deliveryOrderId"), parentIDs)
	})
	if err != nil {
		a.logger.Warn("delivery order item fetch failed, returning parents without items",
			zap.String("tenant_id", tenantID),
			zap.Error(err))
		return
	}
	byParent := make(map[string][]federation.DeliveryOrderItemDTO, len(parents))
	for _, rec := range itemRecords {
		item := federation.DeliveryOrderItemFromRecord(rec)
		byParent[item.DeliveryOrderID] = append(byParent[item.DeliveryOrderID], item)
	}
	for i := range parents {
		if items, ok := byParent[parents[i].ID]; ok {
			parents[i].Items = items
		}
	}
}
