package handler

import (
	federationapp "github.com/procurehub/backend/internal/application/federation"
	"github.com/procurehub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// PurchaseOrderHandler serves purchase order reads through the data source router
type PurchaseOrderHandler struct {
	BaseHandler
	router *federationapp.DataSourceRouter
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(router *federationapp.DataSourceRouter) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{router: router}
}

// List godoc
// @Summary      List purchase orders
// @Description  Retrieve purchase orders with resolved vendor names from the tenant's active data source
// @Tags         purchase-orders
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        search query string false "Search term (order number)"
// @Param        status query string false "Order status"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]federation.PurchaseOrderDTO}
// @Router       /trade/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
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

	orders, err := h.router.GetPurchaseOrders(c.Request.Context(), tenantID, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// GetByID godoc
// @Summary      Get purchase order by ID
// @Tags         purchase-orders
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response{data=federation.PurchaseOrderDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /trade/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid purchase order ID")
		return
	}

	order, err := h.router.GetPurchaseOrderByID(c.Request.Context(), tenantID, req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ListByVendor godoc
// @Summary      List purchase orders for a vendor
// @Tags         purchase-orders
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        vendorId path string true "Vendor ID"
// @Success      200 {object} dto.Response{data=[]federation.PurchaseOrderDTO}
// @Router       /trade/purchase-orders/by-vendor/{vendorId} [get]
func (h *PurchaseOrderHandler) ListByVendor(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	vendorID := c.Param("vendorId")
	if vendorID == "" {
		h.BadRequest(c, "Vendor ID is required")
		return
	}

	orders, err := h.router.GetPurchaseOrdersByVendor(c.Request.Context(), tenantID, vendorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}
