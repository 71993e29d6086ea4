package handler

import (
	tradeapp "github.com/erp/backoffice/internal/application/trade"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/erp/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// PurchaseOrderHandler serves /purchase-orders
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *tradeapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *tradeapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// Routes returns the purchase order route group
func (h *PurchaseOrderHandler) Routes() *router.DomainGroup {
	return router.NewDomainGroup("purchase-orders", "/purchase-orders").
		POST("", h.Create).
		POST("/restock", h.CreateRestock).
		GET("", h.List).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update)
}

// Create godoc
// @ID           createPurchaseOrder
// @Summary      Create a new-product purchase order
// @Description  Registers a NEW_PRODUCT order; the product is created once the goods are in stock
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreatePurchaseOrderRequest true "Order"
// @Success      201 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	by, ok := h.principal(c)
	if !ok {
		return
	}
	var req tradeapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), by, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// CreateRestock godoc
// @ID           createRestockOrder
// @Summary      Create a restock purchase order
// @Description  Orders more units of an existing product
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateRestockRequest true "Restock order"
// @Success      201 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /purchase-orders/restock [post]
func (h *PurchaseOrderHandler) CreateRestock(c *gin.Context) {
	by, ok := h.principal(c)
	if !ok {
		return
	}
	var req tradeapp.CreateRestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.CreateRestock(c.Request.Context(), by, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Update godoc
// @ID           updatePurchaseOrder
// @Summary      Update a purchase order
// @Description  Edits fields or moves the status; stock and finance follow the transition
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body tradeapp.UpdatePurchaseOrderRequest true "Changes"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	by, ok := h.principal(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "purchase order")
	if !ok {
		return
	}
	var req tradeapp.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), by, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetByID godoc
// @ID           getPurchaseOrder
// @Summary      Get a purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	orderID, ok := h.pathID(c, "purchase order")
	if !ok {
		return
	}
	order, err := h.orderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List godoc
// @ID           listPurchaseOrders
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Param        filter query tradeapp.PurchaseOrderListFilter false "Filter and paging"
// @Success      200 {object} dto.Response{data=[]tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter tradeapp.PurchaseOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
