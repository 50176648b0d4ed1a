package handler

import (
	federationapp "github.com/procurehub/backend/internal/application/federation"
	"github.com/procurehub/backend/internal/domain/federation"
	"github.com/gin-gonic/gin"
)

// DataSourceAdminHandler manages the tenant's external data source configuration
type DataSourceAdminHandler struct {
	BaseHandler
	admin *federationapp.AdminService
}

// NewDataSourceAdminHandler creates a new DataSourceAdminHandler
func NewDataSourceAdminHandler(admin *federationapp.AdminService) *DataSourceAdminHandler {
	return &DataSourceAdminHandler{admin: admin}
}

// FieldMappingRequest is one internal-to-external field mapping override
type FieldMappingRequest struct {
	InternalField string `json:"internalField" binding:"required,min=1,max=64"`
	ExternalField string `json:"externalField" binding:"required,min=1,max=64"`
	Transform     string `json:"transform" binding:"omitempty,oneof=string number date boolean"`
}

// UpdateDataSourceRequest represents a request to update the tenant's external
// data source configuration. Nil fields are left untouched. The password is
// accepted in plaintext and stored encrypted; it is never echoed back.
type UpdateDataSourceRequest struct {
	Enabled          *bool                            `json:"enabled"`
	Host             *string                          `json:"host" binding:"omitempty,max=255"`
	Port             *int                             `json:"port" binding:"omitempty,min=1,max=65535"`
	Database         *string                          `json:"database" binding:"omitempty,min=1,max=64"`
	Username         *string                          `json:"username" binding:"omitempty,min=1,max=64"`
	Password         *string                          `json:"password" binding:"omitempty,max=255"`
	TableOverrides   map[string]string                `json:"tableOverrides"`
	MappingOverrides map[string][]FieldMappingRequest `json:"mappingOverrides"`
	CacheTTLSeconds  *int                             `json:"cacheTtlSeconds" binding:"omitempty,min=1,max=86400"`
}

// GetStatus godoc
// @Summary      Get data source status
// @Description  Retrieve the tenant's external data source configuration status. The stored password is never returned.
// @Tags         datasource
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Success      200 {object} dto.Response{data=federationapp.DataSourceStatus}
// @Router       /admin/datasource [get]
func (h *DataSourceAdminHandler) GetStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	status, err := h.admin.GetStatus(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// Configure godoc
// @Summary      Configure data source
// @Description  Create or update the tenant's external data source configuration. Every change invalidates the tenant's caches and connection pool on all instances.
// @Tags         datasource
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body UpdateDataSourceRequest true "Configuration update"
// @Success      200 {object} dto.Response{data=federationapp.DataSourceStatus}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/datasource [put]
func (h *DataSourceAdminHandler) Configure(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req UpdateDataSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input, err := toUpdateInput(req)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	status, err := h.admin.Configure(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// TestConnection godoc
// @Summary      Test data source connection
// @Description  Probe the configured external database with the stored credentials
// @Tags         datasource
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/datasource/test [post]
func (h *DataSourceAdminHandler) TestConnection(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	if err := h.admin.TestConnection(c.Request.Context(), tenantID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"connected": true})
}

// toUpdateInput converts the wire request into the application input,
// validating entity type keys in the override maps.
func toUpdateInput(req UpdateDataSourceRequest) (federationapp.UpdateDataSourceInput, error) {
	input := federationapp.UpdateDataSourceInput{
		Enabled:         req.Enabled,
		Host:            req.Host,
		Port:            req.Port,
		Database:        req.Database,
		Username:        req.Username,
		Password:        req.Password,
		CacheTTLSeconds: req.CacheTTLSeconds,
	}

	if req.TableOverrides != nil {
		input.TableOverrides = make(map[federation.EntityType]string, len(req.TableOverrides))
		for key, table := range req.TableOverrides {
			entity := federation.EntityType(key)
			if !entity.IsValid() {
				return input, &invalidEntityTypeError{key: key}
			}
			input.TableOverrides[entity] = table
		}
	}

	if req.MappingOverrides != nil {
		input.MappingOverrides = make(map[federation.EntityType][]federation.FieldMapping, len(req.MappingOverrides))
		for key, mappings := range req.MappingOverrides {
			entity := federation.EntityType(key)
			if !entity.IsValid() {
				return input, &invalidEntityTypeError{key: key}
			}
			converted := make([]federation.FieldMapping, 0, len(mappings))
			for _, m := range mappings {
				converted = append(converted, federation.FieldMapping{
					InternalField: m.InternalField,
					ExternalField: m.ExternalField,
					Transform:     federation.Transform(m.Transform),
				})
			}
			input.MappingOverrides[entity] = converted
		}
	}

	return input, nil
}

type invalidEntityTypeError struct {
	key string
}

func (e *invalidEntityTypeError) Error() string {
	return "unknown entity type: " + e.key
}
