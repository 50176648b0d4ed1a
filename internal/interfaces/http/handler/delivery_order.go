package handler

import (
	federationapp "github.com/procurehub/backend/internal/application/federation"
	"github.com/procurehub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// DeliveryOrderHandler serves delivery order reads through the data source router
type DeliveryOrderHandler struct {
	BaseHandler
	router *federationapp.DataSourceRouter
}

// NewDeliveryOrderHandler creates a new DeliveryOrderHandler
func NewDeliveryOrderHandler(router *federationapp.DataSourceRouter) *DeliveryOrderHandler {
	return &DeliveryOrderHandler{router: router}
}

// List godoc
// @Summary      List delivery orders
// @Description  Retrieve delivery orders with line items and resolved vendor and transporter names
// @Tags         delivery-orders
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        search query string false "Search term (order number, vehicle number)"
// @Param        status query string false "Delivery status"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]federation.DeliveryOrderDTO}
// @Router       /trade/delivery-orders [get]
func (h *DeliveryOrderHandler) List(c *gin.Context) {
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

	orders, err := h.router.GetDeliveryOrders(c.Request.Context(), tenantID, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// GetByID godoc
// @Summary      Get delivery order by ID
// @Tags         delivery-orders
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Delivery order ID"
// @Success      200 {object} dto.Response{data=federation.DeliveryOrderDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /trade/delivery-orders/{id} [get]
func (h *DeliveryOrderHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid delivery order ID")
		return
	}

	order, err := h.router.GetDeliveryOrderByID(c.Request.Context(), tenantID, req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ListByVendor godoc
// @Summary      List delivery orders for a vendor
// @Tags         delivery-orders
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        vendorId path string true "Vendor ID"
// @Success      200 {object} dto.Response{data=[]federation.DeliveryOrderDTO}
// @Router       /trade/delivery-orders/by-vendor/{vendorId} [get]
func (h *DeliveryOrderHandler) ListByVendor(c *gin.Context) {
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

	orders, err := h.router.GetDeliveryOrdersByVendor(c.Request.Context(), tenantID, vendorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}
