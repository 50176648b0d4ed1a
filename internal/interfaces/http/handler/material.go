package handler

import (
	federationapp "github.com/procurehub/backend/internal/application/federation"
	"github.com/procurehub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// MaterialHandler serves material reads through the data source router
type MaterialHandler struct {
	BaseHandler
	router *federationapp.DataSourceRouter
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(router *federationapp.DataSourceRouter) *MaterialHandler {
	return &MaterialHandler{router: router}
}

// List godoc
// @Summary      List materials
// @Description  Retrieve materials from the tenant's active data source
// @Tags         materials
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        search query string false "Search term (name, code)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]federation.MaterialDTO}
// @Router       /catalog/materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	materials, err := h.router.GetMaterials(c.Request.Context(), tenantID, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, materials)
}

// GetByID godoc
// @Summary      Get material by ID
// @Tags         materials
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Material ID"
// @Success      200 {object} dto.Response{data=federation.MaterialDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/materials/{id} [get]
func (h *MaterialHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid material ID")
		return
	}

	material, err := h.router.GetMaterialByID(c.Request.Context(), tenantID, req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, material)
}

// GetByIDs godoc
// @Summary      Get materials by IDs
// @Tags         materials
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        ids query string true "Comma separated material IDs"
// @Success      200 {object} dto.Response{data=[]federation.MaterialDTO}
// @Router       /catalog/materials/batch [get]
func (h *MaterialHandler) GetByIDs(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	ids := splitIDs(c.Query("ids"))
	if len(ids) == 0 {
		h.BadRequest(c, "At least one material ID is required")
		return
	}

	materials, err := h.router.GetMaterialsByIDs(c.Request.Context(), tenantID, ids)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, materials)
}
