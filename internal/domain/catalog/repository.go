package catalog

import (
	"context"

	"github.com/procurehub/backend/internal/domain/shared"
)

// MaterialRepository defines the persistence contract for materials
type MaterialRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*Material, error)
	FindByCode(ctx context.Context, tenantID, code string) (*Material, error)
	FindAll(ctx context.Context, tenantID string, filter shared.Filter) ([]Material, error)
	FindByIDs(ctx context.Context, tenantID string, ids []string) ([]Material, error)
	Save(ctx context.Context, material *Material) error
	Delete(ctx context.Context, tenantID, id string) error
	Count(ctx context.Context, tenantID string, filter shared.Filter) (int64, error)
}
