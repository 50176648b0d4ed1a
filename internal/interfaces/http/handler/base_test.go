package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurehub/backend/internal/domain/federation"
	"github.com/procurehub/backend/internal/domain/shared"
	"github.com/procurehub/backend/internal/interfaces/http/dto"
	"github.com/procurehub/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setTenantContext simulates the tenant middleware having identified a tenant
func setTenantContext(c *gin.Context, tenantID string) {
	c.Set(middleware.TenantIDKey, tenantID)
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context string",
			setup: func(c *gin.Context) {
				c.Set(RequestIDKey, "ctx-request-id")
			},
			expectedID: "ctx-request-id",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set(RequestIDKey, "header-request-id")
			},
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set(RequestIDKey, "ctx-id")
				c.Request.Header.Set(RequestIDKey, "header-id")
			},
			expectedID: "ctx-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)
			tt.setup(c)

			id := getRequestID(c)
			assert.Equal(t, tt.expectedID, id)
		})
	}
}

func TestGetTenantID(t *testing.T) {
	t.Run("returns tenant from context", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		setTenantContext(c, "tenant-123")

		tenantID, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, "tenant-123", tenantID)
	})

	t.Run("errors when tenant missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		_, err := getTenantID(c)
		assert.Error(t, err)
	})
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	data := map[string]string{"key": "value"}
	h.Success(c, data)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestBaseHandlerSuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	data := []string{"item1", "item2"}
	h.SuccessWithMeta(c, data, 100, 1, 10)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
	assert.Equal(t, int64(100), resp.Meta.Total)
}

func TestBaseHandlerErrorHelpers(t *testing.T) {
	tests := []struct {
		name           string
		invoke         func(h *BaseHandler, c *gin.Context)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "bad request",
			invoke: func(h *BaseHandler, c *gin.Context) {
				h.BadRequest(c, "bad input")
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeBadRequest,
		},
		{
			name: "not found",
			invoke: func(h *BaseHandler, c *gin.Context) {
				h.NotFound(c, "missing")
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrCodeNotFound,
		},
		{
			name: "unauthorized",
			invoke: func(h *BaseHandler, c *gin.Context) {
				h.Unauthorized(c, "no tenant")
			},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   dto.ErrCodeUnauthorized,
		},
		{
			name: "conflict",
			invoke: func(h *BaseHandler, c *gin.Context) {
				h.Conflict(c, "conflict")
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   dto.ErrCodeConflict,
		},
		{
			name: "internal error",
			invoke: func(h *BaseHandler, c *gin.Context) {
				h.InternalError(c, "boom")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)

			tt.invoke(h, c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp dto.Response
			err := json.Unmarshal(w.Body.Bytes(), &resp)
			require.NoError(t, err)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "configuration error maps to 422",
			err: &federation.ConfigurationError{
				TenantID: "tenant-1",
				Reason:   "missing connection fields: host",
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   dto.ErrCodeDataSourceConfig,
		},
		{
			name: "connection error maps to 503",
			err: &federation.ConnectionError{
				TenantID: "tenant-1",
				Attempts: 3,
				Err:      errors.New("dial tcp: connection refused"),
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   dto.ErrCodeExternalUnavailable,
		},
		{
			name: "query error maps to 502",
			err: &federation.QueryError{
				TenantID: "tenant-1",
				Err:      errors.New("unknown column"),
			},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   dto.ErrCodeExternalQuery,
		},
		{
			name:           "not found maps to 404",
			err:            shared.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrCodeNotFound,
		},
		{
			name:           "concurrency conflict maps to 409",
			err:            shared.ErrConcurrencyConflict,
			expectedStatus: http.StatusConflict,
			expectedCode:   dto.ErrCodeConcurrencyConflict,
		},
		{
			name:           "unknown error maps to 500",
			err:            errors.New("something broke"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp dto.Response
			err := json.Unmarshal(w.Body.Bytes(), &resp)
			require.NoError(t, err)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
		})
	}
}

func TestHandleError_NilIsNoop(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	h.HandleError(c, nil)

	assert.Empty(t, w.Body.String())
}

func TestHandleError_ErrorNeverLeaksDetails(t *testing.T) {
	// Connection errors wrap the raw driver error which may include the DSN.
	// The HTTP response must carry a generic message only.
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	h.HandleError(c, &federation.ConnectionError{
		TenantID: "tenant-1",
		Attempts: 3,
		Err:      errors.New("access denied for user 'erp_reader'@'10.0.0.5'"),
	})

	assert.NotContains(t, w.Body.String(), "erp_reader")
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}
