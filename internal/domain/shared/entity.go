package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TenantEntity extends BaseEntity with multi-tenant scoping and a version
// counter for optimistic locking. Tenant identifiers are opaque strings so
// externally provisioned tenants are not forced into the platform's UUID space.
type TenantEntity struct {
	BaseEntity
	TenantID string `gorm:"type:varchar(64);not null;index"`
	Version  int    `gorm:"not null;default:1"`
}

// GetVersion returns the entity version for optimistic locking
func (t *TenantEntity) GetVersion() int {
	return t.Version
}

// IncrementVersion increments the version number
func (t *TenantEntity) IncrementVersion() {
	t.Version++
}

// NewTenantEntity creates a new tenant-scoped entity
func NewTenantEntity(tenantID string) TenantEntity {
	return TenantEntity{
		BaseEntity: NewBaseEntity(),
		TenantID:   tenantID,
		Version:    1,
	}
}
