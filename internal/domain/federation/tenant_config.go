package federation

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/procurehub/backend/internal/domain/shared"
)

// DefaultCacheTTL applies when a tenant configures no explicit cache TTL
const DefaultCacheTTL = 300 * time.Second

// ConnParams are the decrypted connection parameters for one tenant's
// external database. The password here is plaintext: ConnParams must never be
// persisted or logged, only handed to the pool manager.
type ConnParams struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// TableOverrideMap maps entity types to tenant-specific table names,
// persisted as JSONB.
type TableOverrideMap map[EntityType]string

// Value implements driver.Valuer
func (m TableOverrideMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (m *TableOverrideMap) Scan(value any) error {
	return scanJSON(value, m)
}

// MappingOverrideMap maps entity types to tenant-specific field mappings,
// persisted as JSONB.
type MappingOverrideMap map[EntityType][]FieldMapping

// Value implements driver.Valuer
func (m MappingOverrideMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (m *MappingOverrideMap) Scan(value any) error {
	return scanJSON(value, m)
}

func scanJSON(value any, dest any) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported scan type %T", value)
	}
}

// TenantDataSourceConfig is the per-tenant data source configuration. It is
// owned by tenant administration; the federation layer reads it to decide
// internal-vs-external routing and to assemble per-entity query bundles.
type TenantDataSourceConfig struct {
	shared.TenantEntity
	ExternalEnabled   bool               `gorm:"not null;default:false"`
	Host              string             `gorm:"type:varchar(255)"`
	Port              int                `gorm:"not null;default:3306"`
	Database          string             `gorm:"type:varchar(128);column:database_name"`
	Username          string             `gorm:"type:varchar(128)"`
	PasswordEncrypted string             `gorm:"type:text"`
	TableOverrides    TableOverrideMap   `gorm:"type:jsonb;default:'{}'"`
	MappingOverrides  MappingOverrideMap `gorm:"type:jsonb;default:'{}'"`
	CacheTTLSeconds   int                `gorm:"not null;default:300"`
}

// TableName returns the table name for GORM
func (TenantDataSourceConfig) TableName() string {
	return "tenant_data_source_configs"
}

// NewTenantDataSourceConfig creates a disabled configuration for a tenant
func NewTenantDataSourceConfig(tenantID string) *TenantDataSourceConfig {
	return &TenantDataSourceConfig{
		TenantEntity:     shared.NewTenantEntity(tenantID),
		Port:             3306,
		TableOverrides:   TableOverrideMap{},
		MappingOverrides: MappingOverrideMap{},
		CacheTTLSeconds:  int(DefaultCacheTTL / time.Second),
	}
}

// IsComplete reports whether every field required to open a connection is
// present
func (c *TenantDataSourceConfig) IsComplete() bool {
	return c.Host != "" && c.Database != "" && c.Username != "" && c.PasswordEncrypted != ""
}

// ShouldUseExternal is the routing decision: external mode is used only when
// it is both enabled and fully configured.
func (c *TenantDataSourceConfig) ShouldUseExternal() bool {
	return c != nil && c.ExternalEnabled && c.IsComplete()
}

// MissingFields names the connection fields still unset, for ConfigurationError
// messages and admin diagnostics.
func (c *TenantDataSourceConfig) MissingFields() []string {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "host")
	}
	if c.Database == "" {
		missing = append(missing, "database")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.PasswordEncrypted == "" {
		missing = append(missing, "password")
	}
	return missing
}

// EffectiveCacheTTL returns the configured cache TTL, or the default when unset
func (c *TenantDataSourceConfig) EffectiveCacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return DefaultCacheTTL
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// TableFor returns the tenant's table name for an entity type, falling back
// to the entity default when no override is configured.
func (c *TenantDataSourceConfig) TableFor(entity EntityType) string {
	if c.TableOverrides != nil {
		if t, ok := c.TableOverrides[entity]; ok && t != "" {
			return t
		}
	}
	return entity.DefaultTable()
}

// MappingsFor returns the merged field mappings for an entity type: tenant
// overrides win by internal field, defaults fill the rest.
func (c *TenantDataSourceConfig) MappingsFor(entity EntityType) []FieldMapping {
	defaults := DefaultMappings(entity)
	if c.MappingOverrides == nil {
		return defaults
	}
	return MergeMappings(c.MappingOverrides[entity], defaults)
}

// SetConnection updates the connection fields. The password is stored
// encrypted; encryption happens at the admin boundary before this call.
func (c *TenantDataSourceConfig) SetConnection(host string, port int, database, username, passwordEncrypted string) {
	c.Host = host
	if port > 0 {
		c.Port = port
	}
	c.Database = database
	c.Username = username
	if passwordEncrypted != "" {
		c.PasswordEncrypted = passwordEncrypted
	}
	c.UpdatedAt = time.Now()
}

// Enable turns external routing on; it fails when the configuration is
// incomplete so a tenant can never be routed at a half-configured database.
func (c *TenantDataSourceConfig) Enable() error {
	if !c.IsComplete() {
		return shared.NewDomainError("INCOMPLETE_CONFIG", "Cannot enable external data source with incomplete connection settings")
	}
	c.ExternalEnabled = true
	c.UpdatedAt = time.Now()
	return nil
}

// Disable turns external routing off
func (c *TenantDataSourceConfig) Disable() {
	c.ExternalEnabled = false
	c.UpdatedAt = time.Now()
}

// EntityQueryConfig is the per-entity bundle the router assembles for each
// external call: the resolved table, merged mappings, cache TTL, decrypted
// connection parameters, and optional join descriptors for display names held
// in foreign tables.
type EntityQueryConfig struct {
	Entity   EntityType
	Table    string
	Mappings []FieldMapping
	CacheTTL time.Duration
	Conn     ConnParams
	Joins    []JoinSpec
	// Items configures the child line-item fetch for delivery orders
	Items *EntityQueryConfig
}

// JoinSpec describes one LEFT JOIN used to resolve a display field (such as
// a vendor name) held in a foreign table on the tenant's database.
type JoinSpec struct {
	// Table is the foreign table to join
	Table string
	// LocalColumn is the column on the entity table holding the foreign key
	LocalColumn string
	// ForeignColumn is the key column on the foreign table
	ForeignColumn string
	// Columns maps internal field names to columns selected off the foreign
	// table
	Columns map[string]string
}
