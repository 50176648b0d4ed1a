// Package partner holds the partner-facing aggregates of the local store:
// vendors the platform purchases from and transporters that move goods.
package partner

import (
	"strings"

	"github.com/procurehub/backend/internal/domain/shared"
)

// VendorStatus represents the status of a vendor
type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "active"
	VendorStatusInactive VendorStatus = "inactive"
	VendorStatusBlocked  VendorStatus = "blocked" // Blocked due to quality/payment issues
)

// Vendor represents a vendor in the platform's own store. Tenants that keep
// vendor data in their legacy database never have rows here; their reads are
// federated instead.
type Vendor struct {
	shared.TenantEntity
	Code        string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_vendor_tenant_code,priority:2"`
	CompanyName string       `gorm:"type:varchar(200);not null"`
	ContactName string       `gorm:"type:varchar(100)"`
	Email       string       `gorm:"type:varchar(200);index"`
	Phone       string       `gorm:"type:varchar(50);index"`
	Address     string       `gorm:"type:text"`
	City        string       `gorm:"type:varchar(100)"`
	TaxID       string       `gorm:"type:varchar(50)"`
	Status      VendorStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates a new vendor with required fields
func NewVendor(tenantID, code, companyName string) (*Vendor, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if companyName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if len(companyName) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 200 characters")
	}
	return &Vendor{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Code:         strings.ToUpper(code),
		CompanyName:  companyName,
		Status:       VendorStatusActive,
	}, nil
}

// IsActive returns true if the vendor is active
func (v *Vendor) IsActive() bool {
	return v.Status == VendorStatusActive
}

func validateCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}
