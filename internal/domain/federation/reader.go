package federation

import (
	"context"

	"github.com/procurehub/backend/internal/domain/shared"
)

// The reader interfaces are the seam that keeps business services
// source-agnostic: the internal and external adapter for one entity implement
// the same interface, and the router picks one per call. Internal adapters
// ignore the query config; external adapters require it.

// VendorReader is the shared fetch contract for vendors
type VendorReader interface {
	FindAll(ctx context.Context, tenantID string, filter shared.Filter, qc *EntityQueryConfig) ([]VendorDTO, error)
	FindByID(ctx context.Context, tenantID, id string, qc *EntityQueryConfig) (*VendorDTO, error)
	FindByIDs(ctx context.Context, tenantID string, ids []string, qc *EntityQueryConfig) ([]VendorDTO, error)
}

// MaterialReader is the shared fetch contract for materials
type MaterialReader interface {
	FindAll(ctx context.Context, tenantID string, filter shared.Filter, qc *EntityQueryConfig) ([]MaterialDTO, error)
	FindByID(ctx context.Context, tenantID, id string, qc *EntityQueryConfig) (*MaterialDTO, error)
	FindByIDs(ctx context.Context, tenantID string, ids []string, qc *EntityQueryConfig) ([]MaterialDTO, error)
}

// PurchaseOrderReader is the shared fetch contract for purchase orders
type PurchaseOrderReader interface {
	FindAll(ctx context.Context, tenantID string, filter shared.Filter, qc *EntityQueryConfig) ([]PurchaseOrderDTO, error)
	FindByID(ctx context.Context, tenantID, id string, qc *EntityQueryConfig) (*PurchaseOrderDTO, error)
	FindByIDs(ctx context.Context, tenantID string, ids []string, qc *EntityQueryConfig) ([]PurchaseOrderDTO, error)
	FindByVendorID(ctx context.Context, tenantID, vendorID string, qc *EntityQueryConfig) ([]PurchaseOrderDTO, error)
}

// DeliveryOrderReader is the shared fetch contract for delivery orders
type DeliveryOrderReader interface {
	FindAll(ctx context.Context, tenantID string, filter shared.Filter, qc *EntityQueryConfig) ([]DeliveryOrderDTO, error)
	FindByID(ctx context.Context, tenantID, id string, qc *EntityQueryConfig) (*DeliveryOrderDTO, error)
	FindByIDs(ctx context.Context, tenantID string, ids []string, qc *EntityQueryConfig) ([]DeliveryOrderDTO, error)
	FindByVendorID(ctx context.Context, tenantID, vendorID string, qc *EntityQueryConfig) ([]DeliveryOrderDTO, error)
}

// TransporterReader is the shared fetch contract for transporters
type TransporterReader interface {
	FindAll(ctx context.Context, tenantID string, filter shared.Filter, qc *EntityQueryConfig) ([]TransporterDTO, error)
	FindByID(ctx context.Context, tenantID, id string, qc *EntityQueryConfig) (*TransporterDTO, error)
	FindByIDs(ctx context.Context, tenantID string, ids []string, qc *EntityQueryConfig) ([]TransporterDTO, error)
}

// ConfigProvider supplies the per-tenant data source configuration. It is a
// read-only dependency of the router; configuration writes happen in tenant
// administration, which is responsible for triggering invalidation.
type ConfigProvider interface {
	GetByTenant(ctx context.Context, tenantID string) (*TenantDataSourceConfig, error)
}

// SecretDecrypter recovers the plaintext database password. The federation
// layer decrypts just-in-time before building connection parameters and never
// stores or logs the result.
type SecretDecrypter interface {
	Decrypt(ciphertext string) (string, error)
}
