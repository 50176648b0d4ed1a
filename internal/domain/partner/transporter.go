package partner

import (
	"strings"

	"github.com/procurehub/backend/internal/domain/shared"
)

// TransporterStatus represents the status of a transporter
type TransporterStatus string

const (
	TransporterStatusActive   TransporterStatus = "active"
	TransporterStatusInactive TransporterStatus = "inactive"
)

// Transporter represents a logistics provider that executes delivery orders
type Transporter struct {
	shared.TenantEntity
	Code        string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_transporter_tenant_code,priority:2"`
	Name        string            `gorm:"type:varchar(200);not null"`
	ContactName string            `gorm:"type:varchar(100)"`
	Phone       string            `gorm:"type:varchar(50)"`
	Email       string            `gorm:"type:varchar(200)"`
	Status      TransporterStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Transporter) TableName() string {
	return "transporters"
}

// NewTransporter creates a new transporter with required fields
func NewTransporter(tenantID, code, name string) (*Transporter, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Transporter name cannot be empty")
	}
	return &Transporter{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Code:         strings.ToUpper(code),
		Name:         name,
		Status:       TransporterStatusActive,
	}, nil
}

// IsActive returns true if the transporter is active
func (t *Transporter) IsActive() bool {
	return t.Status == TransporterStatusActive
}
