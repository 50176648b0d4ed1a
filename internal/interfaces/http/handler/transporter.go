package handler

import (
	federationapp "github.com/procurehub/backend/internal/application/federation"
	"github.com/procurehub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// TransporterHandler serves transporter reads through the data source router
type TransporterHandler struct {
	BaseHandler
	router *federationapp.DataSourceRouter
}

// NewTransporterHandler creates a new TransporterHandler
func NewTransporterHandler(router *federationapp.DataSourceRouter) *TransporterHandler {
	return &TransporterHandler{router: router}
}

// List godoc
// @Summary      List transporters
// @Description  Retrieve transporters from the tenant's active data source
// @Tags         transporters
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        search query string false "Search term (name, code)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]federation.TransporterDTO}
// @Router       /partner/transporters [get]
func (h *TransporterHandler) List(c *gin.Context) {
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

	transporters, err := h.router.GetTransporters(c.Request.Context(), tenantID, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transporters)
}

// GetByID godoc
// @Summary      Get transporter by ID
// @Tags         transporters
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Transporter ID"
// @Success      200 {object} dto.Response{data=federation.TransporterDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /partner/transporters/{id} [get]
func (h *TransporterHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid transporter ID")
		return
	}

	transporter, err := h.router.GetTransporterByID(c.Request.Context(), tenantID, req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transporter)
}

// GetByIDs godoc
// @Summary      Get transporters by IDs
// @Tags         transporters
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        ids query string true "Comma separated transporter IDs"
// @Success      200 {object} dto.Response{data=[]federation.TransporterDTO}
// @Router       /partner/transporters/batch [get]
func (h *TransporterHandler) GetByIDs(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	ids := splitIDs(c.Query("ids"))
	if len(ids) == 0 {
		h.BadRequest(c, "At least one transporter ID is required")
		return
	}

	transporters, err := h.router.GetTransportersByIDs(c.Request.Context(), tenantID, ids)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transporters)
}
