package trade

import (
	"time"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Reference data inputs ====================

// SupplierInput identifies a supplier by phone; unknown phones create one
type SupplierInput struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"required,min=5,max=30"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

// CustomerInput identifies a customer by phone; unknown phones create one
type CustomerInput struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"required,min=5,max=30"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

// ==================== Purchase Order DTOs ====================

// CreatePurchaseOrderRequest represents a request to create a NEW_PRODUCT purchase order
type CreatePurchaseOrderRequest struct {
	ProductName    string                    `json:"product_name" binding:"required,min=1,max=200"`
	Category       string                    `json:"category" binding:"required,min=1,max=100"`
	Specifications string                    `json:"specifications"`
	Quantity       int                       `json:"quantity" binding:"required,min=1"`
	PurchasePrice  decimal.Decimal           `json:"purchase_price" binding:"gte=0"`
	ShippingCost   decimal.Decimal           `json:"shipping_cost" binding:"gte=0"`
	OtherCost      decimal.Decimal           `json:"other_cost" binding:"gte=0"`
	SellingPrice   decimal.Decimal           `json:"selling_price" binding:"gte=0"`
	Supplier       SupplierInput             `json:"supplier" binding:"required"`
	Status         trade.PurchaseOrderStatus `json:"status" binding:"required"`
}

// CreateRestockRequest represents a request to restock an existing product
type CreateRestockRequest struct {
	ProductID     uuid.UUID                 `json:"product_id" binding:"required"`
	Quantity      int                       `json:"quantity" binding:"required,min=1"`
	PurchasePrice decimal.Decimal           `json:"purchase_price" binding:"gte=0"`
	ShippingCost  decimal.Decimal           `json:"shipping_cost" binding:"gte=0"`
	OtherCost     decimal.Decimal           `json:"other_cost" binding:"gte=0"`
	SellingPrice  decimal.Decimal           `json:"selling_price" binding:"gte=0"`
	Supplier      SupplierInput             `json:"supplier" binding:"required"`
	Status        trade.PurchaseOrderStatus `json:"status" binding:"required"`
}

// UpdatePurchaseOrderRequest is a partial update of a PENDING purchase order.
// ProductID, when set, must name the product a RESTOCK order was created for.
type UpdatePurchaseOrderRequest struct {
	ProductName    *string                    `json:"product_name" binding:"omitempty,min=1,max=200"`
	Category       *string                    `json:"category" binding:"omitempty,min=1,max=100"`
	Specifications *string                    `json:"specifications"`
	Quantity       *int                       `json:"quantity" binding:"omitempty,min=1"`
	PurchasePrice  *decimal.Decimal           `json:"purchase_price" binding:"omitempty,gte=0"`
	ShippingCost   *decimal.Decimal           `json:"shipping_cost" binding:"omitempty,gte=0"`
	OtherCost      *decimal.Decimal           `json:"other_cost" binding:"omitempty,gte=0"`
	SellingPrice   *decimal.Decimal           `json:"selling_price" binding:"omitempty,gte=0"`
	Supplier       *SupplierInput             `json:"supplier"`
	Status         *trade.PurchaseOrderStatus `json:"status"`
	ProductID      *uuid.UUID                 `json:"product_id"`
}

// PurchaseOrderListFilter represents filter options for purchase order list
type PurchaseOrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=PENDING IN_STOCK CANCELLED"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID             uuid.UUID       `json:"id"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	ProductName    string          `json:"product_name"`
	Category       string          `json:"category"`
	CategoryID     uuid.UUID       `json:"category_id"`
	Specifications string          `json:"specifications"`
	ProductID      *uuid.UUID      `json:"product_id,omitempty"`
	Quantity       int             `json:"quantity"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	OtherCost      decimal.Decimal `json:"other_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	SellingPrice   decimal.Decimal `json:"selling_price"`
	SupplierID     uuid.UUID       `json:"supplier_id"`
	AddedBy        uuid.UUID       `json:"added_by"`
	UpdatedBy      uuid.UUID       `json:"updated_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to its response DTO
func ToPurchaseOrderResponse(order *trade.PurchaseOrder) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		ID:             order.ID,
		Type:           string(order.Type),
		Status:         string(order.Status),
		ProductName:    order.Product.Name,
		Category:       order.Product.Category,
		CategoryID:     order.CategoryID,
		Specifications: order.Product.Specifications,
		Quantity:       order.Quantity,
		PurchasePrice:  order.Cost.PurchasePrice,
		ShippingCost:   order.Cost.Shipping,
		OtherCost:      order.Cost.Other,
		TotalCost:      order.TotalCost(),
		SellingPrice:   order.SellingPrice,
		SupplierID:     order.SupplierID,
		AddedBy:        order.AddedBy,
		UpdatedBy:      order.UpdatedBy,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
		Version:        order.Version,
	}
	if order.ProductID != uuid.Nil {
		id := order.ProductID
		resp.ProductID = &id
	}
	return resp
}

// ToPurchaseOrderResponses converts a slice of domain orders to responses
func ToPurchaseOrderResponses(orders []trade.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return responses
}

// ==================== Sale DTOs ====================

// SaleItemInput is one requested sale line
type SaleItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"gte=0"`
}

// CreateSaleRequest represents a request to create a sale
type CreateSaleRequest struct {
	Customer       CustomerInput       `json:"customer" binding:"required"`
	PaymentMethod  string              `json:"payment_method" binding:"required,min=1,max=100"`
	DeliveryMedium string              `json:"delivery_medium" binding:"required,min=1,max=100"`
	PaymentStatus  trade.PaymentStatus `json:"payment_status" binding:"required"`
	TotalPayable   decimal.Decimal     `json:"total_payable" binding:"gte=0"`
	TotalDue       decimal.Decimal     `json:"total_due" binding:"gte=0"`
	Status         trade.SaleStatus    `json:"status" binding:"required"`
	Notes          string              `json:"notes" binding:"max=2000"`
	Items          []SaleItemInput     `json:"items" binding:"required,min=1,dive"`
}

// UpdateSaleRequest is a partial update of a PENDING or CONFIRMED sale. A nil
// Items slice keeps the stored items; a non-nil one replaces them.
type UpdateSaleRequest struct {
	Customer       *CustomerInput       `json:"customer"`
	PaymentMethod  *string              `json:"payment_method" binding:"omitempty,min=1,max=100"`
	DeliveryMedium *string              `json:"delivery_medium" binding:"omitempty,min=1,max=100"`
	PaymentStatus  *trade.PaymentStatus `json:"payment_status"`
	TotalPayable   *decimal.Decimal     `json:"total_payable" binding:"omitempty,gte=0"`
	TotalDue       *decimal.Decimal     `json:"total_due" binding:"omitempty,gte=0"`
	Status         *trade.SaleStatus    `json:"status"`
	Notes          *string              `json:"notes" binding:"omitempty,max=2000"`
	Items          []SaleItemInput      `json:"items" binding:"omitempty,dive"`
}

// SaleListFilter represents filter options for sale list
type SaleListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELLED"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SaleItemResponse represents a sale item in API responses
type SaleItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID               uuid.UUID          `json:"id"`
	CustomerID       uuid.UUID          `json:"customer_id"`
	PaymentMethodID  uuid.UUID          `json:"payment_method_id"`
	DeliveryMediumID uuid.UUID          `json:"delivery_medium_id"`
	PaymentStatus    string             `json:"payment_status"`
	TotalPayable     decimal.Decimal    `json:"total_payable"`
	TotalDue         decimal.Decimal    `json:"total_due"`
	Status           string             `json:"status"`
	Notes            string             `json:"notes"`
	Items            []SaleItemResponse `json:"items"`
	TotalQuantity    int                `json:"total_quantity"`
	AddedBy          uuid.UUID          `json:"added_by"`
	UpdatedBy        uuid.UUID          `json:"updated_by"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Version          int                `json:"version"`
}

// ToSaleResponse converts a domain Sale to its response DTO
func ToSaleResponse(sale *trade.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(sale.Items))
	for i, item := range sale.Items {
		items[i] = SaleItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount(),
		}
	}
	return SaleResponse{
		ID:               sale.ID,
		CustomerID:       sale.CustomerID,
		PaymentMethodID:  sale.PaymentMethodID,
		DeliveryMediumID: sale.DeliveryMediumID,
		PaymentStatus:    string(sale.Payment.Status),
		TotalPayable:     sale.Payment.TotalPayable,
		TotalDue:         sale.Payment.TotalDue,
		Status:           string(sale.Status),
		Notes:            sale.Notes,
		Items:            items,
		TotalQuantity:    sale.TotalQuantity(),
		AddedBy:          sale.AddedBy,
		UpdatedBy:        sale.UpdatedBy,
		CreatedAt:        sale.CreatedAt,
		UpdatedAt:        sale.UpdatedAt,
		Version:          sale.Version,
	}
}

// ToSaleResponses converts a slice of domain sales to responses
func ToSaleResponses(sales []trade.Sale) []SaleResponse {
	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleResponse(&sales[i])
	}
	return responses
}

// ==================== Product DTOs ====================

// ProductResponse represents a product and its stock in API responses
type ProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	CategoryID      uuid.UUID       `json:"category_id"`
	Category        string          `json:"category"`
	Specifications  string          `json:"specifications"`
	Stock           int             `json:"stock"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	PurchaseOrderID uuid.UUID       `json:"purchase_order_id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// ToProductResponse converts a domain Product to its response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		CategoryID:      p.CategoryID,
		Category:        p.Category,
		Specifications:  p.Specifications,
		Stock:           p.Stock,
		UnitPrice:       p.UnitPrice,
		PurchaseOrderID: p.PurchaseOrderID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Version:         p.Version,
	}
}

func toSaleLines(inputs []SaleItemInput) []trade.SaleLine {
	lines := make([]trade.SaleLine, len(inputs))
	for i, in := range inputs {
		lines[i] = trade.SaleLine{ProductID: in.ProductID, Quantity: in.Quantity, UnitPrice: in.UnitPrice}
	}
	return lines
}
