package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	federationapp "github.com/procurehub/backend/internal/application/federation"
	"github.com/procurehub/backend/internal/domain/federation"
	"github.com/procurehub/backend/internal/domain/shared"
	"github.com/procurehub/backend/internal/interfaces/http/middleware"
)

// memConfigRepo is an in-memory ConfigRepository for handler tests
type memConfigRepo struct {
	configs map[string]*federation.TenantDataSourceConfig
}

func newMemConfigRepo() *memConfigRepo {
	return &memConfigRepo{configs: make(map[string]*federation.TenantDataSourceConfig)}
}

func (r *memConfigRepo) GetByTenant(_ context.Context, tenantID string) (*federation.TenantDataSourceConfig, error) {
	cfg, ok := r.configs[tenantID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cfg, nil
}

func (r *memConfigRepo) Create(_ context.Context, cfg *federation.TenantDataSourceConfig) error {
	r.configs[cfg.TenantID] = cfg
	return nil
}

func (r *memConfigRepo) Update(_ context.Context, cfg *federation.TenantDataSourceConfig) error {
	r.configs[cfg.TenantID] = cfg
	return nil
}

// reverseEncrypter is a trivially reversible cipher for tests
type reverseEncrypter struct{}

func (reverseEncrypter) Encrypt(plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (reverseEncrypter) Decrypt(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, "enc:") {
		return "", errors.New("not encrypted")
	}
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

type stubTester struct {
	err    error
	params federation.ConnParams
}

func (s *stubTester) TestConnection(_ context.Context, params federation.ConnParams) error {
	s.params = params
	return s.err
}

func newAdminTestHandler(repo federationapp.ConfigRepository, tester federationapp.ConnectionTester) *DataSourceAdminHandler {
	enc := reverseEncrypter{}
	admin := federationapp.NewAdminService(repo, enc, enc, tester, nil, nil, nil)
	return NewDataSourceAdminHandler(admin)
}

func setupAdminRoutes(h *DataSourceAdminHandler) *gin.Engine {
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if tenantID := c.GetHeader(middleware.TenantHeaderKey); tenantID != "" {
			c.Set(middleware.TenantIDKey, tenantID)
		}
		c.Next()
	})
	engine.GET("/admin/datasource", h.GetStatus)
	engine.PUT("/admin/datasource", h.Configure)
	engine.POST("/admin/datasource/test", h.TestConnection)
	return engine
}

func TestDataSourceAdminGetStatus_Unconfigured(t *testing.T) {
	h := newAdminTestHandler(newMemConfigRepo(), &stubTester{})
	engine := setupAdminRoutes(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/datasource", nil)
	req.Header.Set(middleware.TenantHeaderKey, "tenant-1")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data federationapp.DataSourceStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tenant-1", resp.Data.TenantID)
	assert.False(t, resp.Data.Configured)
	assert.False(t, resp.Data.Enabled)
}

func TestDataSourceAdminConfigure(t *testing.T) {
	repo := newMemConfigRepo()
	h := newAdminTestHandler(repo, &stubTester{})
	engine := setupAdminRoutes(h)

	body := `{
		"host": "mysql.tenant.example.com",
		"port": 3306,
		"database": "legacy_erp",
		"username": "reader",
		"password": "s3cret",
		"enabled": true
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/admin/datasource", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.TenantHeaderKey, "tenant-1")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data federationapp.DataSourceStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Configured)
	assert.True(t, resp.Data.Enabled)
	assert.True(t, resp.Data.HasPassword)
	assert.Equal(t, "mysql.tenant.example.com", resp.Data.Host)

	// The plaintext password must never appear in the response
	assert.NotContains(t, w.Body.String(), "s3cret")

	// And it must be stored encrypted
	stored := repo.configs["tenant-1"]
	require.NotNil(t, stored)
	assert.Equal(t, "enc:s3cret", stored.PasswordEncrypted)
}

func TestDataSourceAdminConfigure_EnableIncompleteRejected(t *testing.T) {
	h := newAdminTestHandler(newMemConfigRepo(), &stubTester{})
	engine := setupAdminRoutes(h)

	body := `{"host": "mysql.tenant.example.com", "enabled": true}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/admin/datasource", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.TenantHeaderKey, "tenant-1")
	engine.ServeHTTP(w, req)

	assert.NotEqual(t, http.StatusOK, w.Code)
}

func TestDataSourceAdminConfigure_UnknownEntityType(t *testing.T) {
	h := newAdminTestHandler(newMemConfigRepo(), &stubTester{})
	engine := setupAdminRoutes(h)

	body := `{"tableOverrides": {"invoice": "invoices"}}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/admin/datasource", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.TenantHeaderKey, "tenant-1")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown entity type")
}

func TestDataSourceAdminTestConnection(t *testing.T) {
	repo := newMemConfigRepo()
	tester := &stubTester{}
	h := newAdminTestHandler(repo, tester)
	engine := setupAdminRoutes(h)

	cfg := federation.NewTenantDataSourceConfig("tenant-1")
	cfg.Host = "mysql.tenant.example.com"
	cfg.Port = 3306
	cfg.Database = "legacy_erp"
	cfg.Username = "reader"
	cfg.PasswordEncrypted = "enc:s3cret"
	repo.configs["tenant-1"] = cfg

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/admin/datasource/test", nil)
		req.Header.Set(middleware.TenantHeaderKey, "tenant-1")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "connected")
		// The tester received the decrypted password just-in-time
		assert.Equal(t, "s3cret", tester.params.Password)
	})

	t.Run("unreachable database", func(t *testing.T) {
		tester.err = &federation.ConnectionError{
			TenantID: "tenant-1",
			Attempts: 1,
			Err:      errors.New("dial tcp: timeout"),
		}
		defer func() { tester.err = nil }()

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/admin/datasource/test", nil)
		req.Header.Set(middleware.TenantHeaderKey, "tenant-1")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("unconfigured tenant", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/admin/datasource/test", nil)
		req.Header.Set(middleware.TenantHeaderKey, "tenant-other")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
