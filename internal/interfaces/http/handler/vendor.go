package handler

import (
	federationapp "github.com/procurehub/backend/internal/application/federation"
	"github.com/procurehub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// VendorHandler serves vendor reads through the data source router
type VendorHandler struct {
	BaseHandler
	router *federationapp.DataSourceRouter
}

// NewVendorHandler creates a new VendorHandler
func NewVendorHandler(router *federationapp.DataSourceRouter) *VendorHandler {
	return &VendorHandler{router: router}
}

// List godoc
// @Summary      List vendors
// @Description  Retrieve vendors from the tenant's active data source
// @Tags         vendors
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        search query string false "Search term (company name, code)"
// @Param        status query string false "Vendor status"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]federation.VendorDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /partner/vendors [get]
func (h *VendorHandler) List(c *gin.Context) {
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

	vendors, err := h.router.GetVendors(c.Request.Context(), tenantID, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendors)
}

// GetByID godoc
// @Summary      Get vendor by ID
// @Description  Retrieve a single vendor from the tenant's active data source
// @Tags         vendors
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Vendor ID"
// @Success      200 {object} dto.Response{data=federation.VendorDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /partner/vendors/{id} [get]
func (h *VendorHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}

	vendor, err := h.router.GetVendorByID(c.Request.Context(), tenantID, req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}

// GetByIDs godoc
// @Summary      Get vendors by IDs
// @Description  Retrieve multiple vendors in one call, e.g. to resolve display names
// @Tags         vendors
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        ids query string true "Comma separated vendor IDs"
// @Success      200 {object} dto.Response{data=[]federation.VendorDTO}
// @Router       /partner/vendors/batch [get]
func (h *VendorHandler) GetByIDs(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	ids := splitIDs(c.Query("ids"))
	if len(ids) == 0 {
		h.BadRequest(c, "At least one vendor ID is required")
		return
	}

	vendors, err := h.router.GetVendorsByIDs(c.Request.Context(), tenantID, ids)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendors)
}
