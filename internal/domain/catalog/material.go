// Package catalog holds the material master data of the local store.
package catalog

import (
	"strings"

	"github.com/procurehub/backend/internal/domain/shared"
)

// MaterialStatus represents the status of a material
type MaterialStatus string

const (
	MaterialStatusActive   MaterialStatus = "active"
	MaterialStatusInactive MaterialStatus = "inactive"
)

// Material represents one purchasable material in the platform's own store
type Material struct {
	shared.TenantEntity
	Code        string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_material_tenant_code,priority:2"`
	Name        string         `gorm:"type:varchar(200);not null"`
	Description string         `gorm:"type:text"`
	Unit        string         `gorm:"type:varchar(20)"` // Unit of measure (kg, pcs, m3)
	Category    string         `gorm:"type:varchar(100);index"`
	HSNCode     string         `gorm:"type:varchar(20)"` // Harmonized tariff classification
	Status      MaterialStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Material) TableName() string {
	return "materials"
}

// NewMaterial creates a new material with required fields
func NewMaterial(tenantID, code, name string) (*Material, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Material code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Material code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Material name cannot be empty")
	}
	return &Material{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Code:         strings.ToUpper(code),
		Name:         name,
		Status:       MaterialStatusActive,
	}, nil
}

// IsActive returns true if the material is active
func (m *Material) IsActive() bool {
	return m.Status == MaterialStatusActive
}
