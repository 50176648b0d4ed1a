package federation

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/procurehub/backend/internal/domain/federation"
	"github.com/procurehub/backend/internal/domain/shared"
)

// ConfigRepository is the write-side contract for tenant data source
// configurations
type ConfigRepository interface {
	federation.ConfigProvider
	Create(ctx context.Context, cfg *federation.TenantDataSourceConfig) error
	Update(ctx context.Context, cfg *federation.TenantDataSourceConfig) error
}

// SecretEncrypter seals a plaintext password for storage
type SecretEncrypter interface {
	Encrypt(plaintext string) (string, error)
}

// ConnectionTester probes an external database with the given parameters.
// Implemented by the extdb pool manager.
type ConnectionTester interface {
	TestConnection(ctx context.Context, params federation.ConnParams) error
}

// InvalidationPublisher fans a tenant invalidation out to the other instances
type InvalidationPublisher interface {
	Publish(ctx context.Context, tenantID string) error
}

// AdminService manages tenant data source configurations. Every write
// invalidates the tenant locally and publishes the invalidation so other
// instances drop their caches and pools too.
type AdminService struct {
	repo      ConfigRepository
	encrypter SecretEncrypter
	decrypter federation.SecretDecrypter
	tester    ConnectionTester
	router    *DataSourceRouter
	publisher InvalidationPublisher
	logger    *zap.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(repo ConfigRepository, encrypter SecretEncrypter, decrypter federation.SecretDecrypter, tester ConnectionTester, router *DataSourceRouter, publisher InvalidationPublisher, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		repo:      repo,
		encrypter: encrypter,
		decrypter: decrypter,
		tester:    tester,
		router:    router,
		publisher: publisher,
		logger:    logger,
	}
}

// UpdateDataSourceInput carries one admin update. Nil fields are left
// untouched; Password is plaintext on the wire and encrypted before storage.
type UpdateDataSourceInput struct {
	Enabled          *bool
	Host             *string
	Port             *int
	Database         *string
	Username         *string
	Password         *string
	TableOverrides   map[federation.EntityType]string
	MappingOverrides map[federation.EntityType][]federation.FieldMapping
	CacheTTLSeconds  *int
}

// DataSourceStatus is the admin-facing view of a tenant's configuration.
// It never exposes the stored password in any form.
type DataSourceStatus struct {
	TenantID        string                           `json:"tenantId"`
	Configured      bool                             `json:"configured"`
	Enabled         bool                             `json:"enabled"`
	Host            string                           `json:"host,omitempty"`
	Port            int                              `json:"port,omitempty"`
	Database        string                           `json:"database,omitempty"`
	Username        string                           `json:"username,omitempty"`
	HasPassword     bool                             `json:"hasPassword"`
	MissingFields   []string                         `json:"missingFields,omitempty"`
	TableOverrides  map[federation.EntityType]string `json:"tableOverrides,omitempty"`
	CacheTTLSeconds int                              `json:"cacheTtlSeconds,omitempty"`
}

// GetStatus returns the tenant's configuration status
func (s *AdminService) GetStatus(ctx context.Context, tenantID string) (*DataSourceStatus, error) {
	cfg, err := s.repo.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &DataSourceStatus{TenantID: tenantID}, nil
		}
		return nil, err
	}
	return statusFromConfig(cfg), nil
}

// Configure applies an admin update to the tenant's configuration, creating it
// on first use. Enabling with incomplete connection settings is rejected.
func (s *AdminService) Configure(ctx context.Context, tenantID string, input UpdateDataSourceInput) (*DataSourceStatus, error) {
	cfg, err := s.repo.GetByTenant(ctx, tenantID)
	created := false
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		cfg = federation.NewTenantDataSourceConfig(tenantID)
		created = true
	}

	applyConnectionInput(cfg, input)
	if input.Password != nil && *input.Password != "" {
		sealed, err := s.encrypter.Encrypt(*input.Password)
		if err != nil {
			return nil, err
		}
		cfg.PasswordEncrypted = sealed
	}
	if input.TableOverrides != nil {
		cfg.TableOverrides = input.TableOverrides
	}
	if input.MappingOverrides != nil {
		cfg.MappingOverrides = input.MappingOverrides
	}
	if input.CacheTTLSeconds != nil && *input.CacheTTLSeconds > 0 {
		cfg.CacheTTLSeconds = *input.CacheTTLSeconds
	}
	if input.Enabled != nil {
		if *input.Enabled {
			if err := cfg.Enable(); err != nil {
				return nil, err
			}
		} else {
			cfg.Disable()
		}
	}

	if created {
		err = s.repo.Create(ctx, cfg)
	} else {
		err = s.repo.Update(ctx, cfg)
	}
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, tenantID)
	s.logger.Info("tenant data source configuration updated",
		zap.String("tenant_id", tenantID),
		zap.Bool("enabled", cfg.ExternalEnabled))
	return statusFromConfig(cfg), nil
}

// TestConnection probes the tenant's configured external database
func (s *AdminService) TestConnection(ctx context.Context, tenantID string) error {
	cfg, err := s.repo.GetByTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if !cfg.IsComplete() {
		return shared.NewDomainError("INCOMPLETE_CONFIG", "Connection settings are incomplete")
	}
	password, err := s.decrypter.Decrypt(cfg.PasswordEncrypted)
	if err != nil {
		return shared.NewDomainError("INVALID_SECRET", "Stored password cannot be decrypted")
	}
	return s.tester.TestConnection(ctx, federation.ConnParams{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Database: cfg.Database,
		Username: cfg.Username,
		Password: password,
	})
}

func (s *AdminService) invalidate(ctx context.Context, tenantID string) {
	if s.router != nil {
		s.router.InvalidateTenant(tenantID)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, tenantID); err != nil {
			s.logger.Warn("failed to publish tenant invalidation",
				zap.String("tenant_id", tenantID),
				zap.Error(err))
		}
	}
}

func applyConnectionInput(cfg *federation.TenantDataSourceConfig, input UpdateDataSourceInput) {
	if input.Host != nil {
		cfg.Host = *input.Host
	}
	if input.Port != nil && *input.Port > 0 {
		cfg.Port = *input.Port
	}
	if input.Database != nil {
		cfg.Database = *input.Database
	}
	if input.Username != nil {
		cfg.Username = *input.Username
	}
}

func statusFromConfig(cfg *federation.TenantDataSourceConfig) *DataSourceStatus {
	return &DataSourceStatus{
		TenantID:        cfg.TenantID,
		Configured:      true,
		Enabled:         cfg.ExternalEnabled,
		Host:            cfg.Host,
		Port:            cfg.Port,
		Database:        cfg.Database,
		Username:        cfg.Username,
		HasPassword:     cfg.PasswordEncrypted != "",
		MissingFields:   cfg.MissingFields(),
		TableOverrides:  cfg.TableOverrides,
		CacheTTLSeconds: cfg.CacheTTLSeconds,
	}
}
