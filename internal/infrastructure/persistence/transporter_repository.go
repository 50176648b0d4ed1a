package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/procurehub/backend/internal/domain/partner"
	"github.com/procurehub/backend/internal/domain/shared"
)

// GormTransporterRepository implements transporter persistence using GORM
type GormTransporterRepository struct {
	db *gorm.DB
}

// NewGormTransporterRepository creates a new GormTransporterRepository
func NewGormTransporterRepository(db *gorm.DB) *GormTransporterRepository {
	return &GormTransporterRepository{db: db}
}

var transporterSearchColumns = []string{"name", "code", "contact_name", "phone"}

// FindByID finds a transporter by ID within a tenant
func (r *GormTransporterRepository) FindByID(ctx context.Context, tenantID, id string) (*partner.Transporter, error) {
	var transporter partner.Transporter
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&transporter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transporter, nil
}

// FindByCode finds a transporter by its code within a tenant
func (r *GormTransporterRepository) FindByCode(ctx context.Context, tenantID, code string) (*partner.Transporter, error) {
	var transporter partner.Transporter
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&transporter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transporter, nil
}

// FindAll finds all transporters for a tenant matching the filter
func (r *GormTransporterRepository) FindAll(ctx context.Context, tenantID string, filter shared.Filter) ([]partner.Transporter, error) {
	var transporters []partner.Transporter
	query := applySearchAndStatus(
		r.db.WithContext(ctx).Model(&partner.Transporter{}).Where("tenant_id = ?", tenantID),
		filter, transporterSearchColumns,
	)
	query = applyOrderAndPage(query, filter, TransporterSortFields, "created_at")
	if err := query.Find(&transporters).Error; err != nil {
		return nil, err
	}
	return transporters, nil
}

// FindByIDs finds multiple transporters by their IDs within a tenant
func (r *GormTransporterRepository) FindByIDs(ctx context.Context, tenantID string, ids []string) ([]partner.Transporter, error) {
	if len(ids) == 0 {
		return []partner.Transporter{}, nil
	}
	var transporters []partner.Transporter
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&transporters).Error; err != nil {
		return nil, err
	}
	return transporters, nil
}

// Save creates or updates a transporter
func (r *GormTransporterRepository) Save(ctx context.Context, transporter *partner.Transporter) error {
	return r.db.WithContext(ctx).Save(transporter).Error
}

// Delete deletes a transporter within a tenant
func (r *GormTransporterRepository) Delete(ctx context.Context, tenantID, id string) error {
	result := r.db.WithContext(ctx).Delete(&partner.Transporter{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTransporterRepository implements TransporterRepository
var _ partner.TransporterRepository = (*GormTransporterRepository)(nil)
