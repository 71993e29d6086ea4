package handler

import (
	tradeapp "github.com/erp/backoffice/internal/application/trade"
	"github.com/erp/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// ProductHandler serves the read-only product ledger
type ProductHandler struct {
	BaseHandler
	productService *tradeapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *tradeapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Routes returns the product route group
func (h *ProductHandler) Routes() *router.DomainGroup {
	return router.NewDomainGroup("products", "/products").
		GET("/:id", h.GetByID)
}

// GetByID godoc
// @ID           getProduct
// @Summary      Get a product with its stock
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.ProductResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, ok := h.pathID(c, "product")
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}
