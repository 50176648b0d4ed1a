package partner

import (
	"context"

	"github.com/procurehub/backend/internal/domain/shared"
)

// VendorRepository defines the persistence contract for vendors
type VendorRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*Vendor, error)
	FindByCode(ctx context.Context, tenantID, code string) (*Vendor, error)
	FindAll(ctx context.Context, tenantID string, filter shared.Filter) ([]Vendor, error)
	FindByIDs(ctx context.Context, tenantID string, ids []string) ([]Vendor, error)
	Save(ctx context.Context, vendor *Vendor) error
	Delete(ctx context.Context, tenantID, id string) error
	Count(ctx context.Context, tenantID string, filter shared.Filter) (int64, error)
}

// TransporterRepository defines the persistence contract for transporters
type TransporterRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*Transporter, error)
	FindByCode(ctx context.Context, tenantID, code string) (*Transporter, error)
	FindAll(ctx context.Context, tenantID string, filter shared.Filter) ([]Transporter, error)
	FindByIDs(ctx context.Context, tenantID string, ids []string) ([]Transporter, error)
	Save(ctx context.Context, transporter *Transporter) error
	Delete(ctx context.Context, tenantID, id string) error
}
