package trade

import (
	"context"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// PurchaseOrderService runs the purchase order state machine. Every mutation
// keeps the order, the stock ledger and the order's EXPENSE record consistent
// inside a single transaction.
type PurchaseOrderService struct {
	txScope        TransactionScope
	orderRepo      trade.PurchaseOrderRepository
	eventPublisher shared.EventPublisher
	metrics        *telemetry.LedgerMetrics
	logger         *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(txScope TransactionScope, orderRepo trade.PurchaseOrderRepository, logger *zap.Logger) *PurchaseOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseOrderService{
		txScope:   txScope,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for post-commit notifications
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the ledger metrics collector
func (s *PurchaseOrderService) SetMetrics(m *telemetry.LedgerMetrics) {
	s.metrics = m
}

// Create records a NEW_PRODUCT purchase order. An order created IN_STOCK
// materializes its product immediately.
func (s *PurchaseOrderService) Create(ctx context.Context, by shared.Principal, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "create")
	defer span.End()

	if err := by.Validate(); err != nil {
		return nil, s.reject(ctx, span, "create", err)
	}

	var order *trade.PurchaseOrder
	var product *catalog.Product
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		category, err := resolveCategory(ctx, repos, req.Category)
		if err != nil {
			return err
		}
		supplier, err := resolveSupplier(ctx, repos, req.Supplier)
		if err != nil {
			return err
		}

		desc := catalog.Descriptor{Name: req.ProductName, Category: category.Name, Specifications: req.Specifications}
		cost := trade.CostBreakdown{PurchasePrice: req.PurchasePrice, Shipping: req.ShippingCost, Other: req.OtherCost}
		order, err = trade.NewPurchaseOrder(desc, category.ID, req.Quantity, cost, req.SellingPrice, supplier.ID, req.Status, by)
		if err != nil {
			return err
		}
		if err := repos.PurchaseOrderRepo().Create(ctx, order); err != nil {
			return err
		}

		if order.IsInStock() {
			product, err = materializeProduct(ctx, repos, order, by)
			if err != nil {
				return err
			}
		}

		return financeLedger{repo: repos.FinanceRecordRepo()}.recordExpense(ctx, order)
	})
	if err != nil {
		discardEvents(aggregates(order, product)...)
		return nil, s.reject(ctx, span, "create", err)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID.String(),
		telemetry.SpanAttrOrderStatus, order.Status.String(),
	)
	s.recordOrder(ctx, order)
	if product != nil {
		s.recordStock(ctx, telemetry.StockDirectionIn, order.Quantity)
	}
	publishEvents(ctx, s.eventPublisher, s.logger, aggregates(order, product)...)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// CreateRestock records a RESTOCK order for an existing product. At most one
// PENDING restock may exist per product.
func (s *PurchaseOrderService) CreateRestock(ctx context.Context, by shared.Principal, req CreateRestockRequest) (*PurchaseOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "create_restock",
		telemetry.WithAttribute(telemetry.SpanAttrProductID, req.ProductID.String()),
	)
	defer span.End()

	if err := by.Validate(); err != nil {
		return nil, s.reject(ctx, span, "create_restock", err)
	}
	if req.Status == trade.PurchaseOrderStatusCancelled {
		return nil, s.reject(ctx, span, "create_restock",
			shared.NewValidationFailure(req.ProductID, "cancelled orders cannot be added"))
	}

	var order *trade.PurchaseOrder
	var product *catalog.Product
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		book := newStockBook(repos.ProductRepo(), by)
		var err error
		product, err = book.get(ctx, req.ProductID)
		if err != nil {
			return err
		}

		active, err := repos.PurchaseOrderRepo().ExistsActiveRestock(ctx, product.ID)
		if err != nil {
			return err
		}
		if active {
			return shared.NewConflictActiveRestock(product.ID)
		}

		supplier, err := resolveSupplier(ctx, repos, req.Supplier)
		if err != nil {
			return err
		}

		cost := trade.CostBreakdown{PurchasePrice: req.PurchasePrice, Shipping: req.ShippingCost, Other: req.OtherCost}
		order, err = trade.NewRestockOrder(product, req.Quantity, cost, req.SellingPrice, supplier.ID, req.Status, by)
		if err != nil {
			return err
		}
		if err := repos.PurchaseOrderRepo().Create(ctx, order); err != nil {
			return err
		}

		if order.IsInStock() {
			if _, err := book.receive(ctx, product.ID, order.Quantity); err != nil {
				return err
			}
			if err := book.flush(ctx); err != nil {
				return err
			}
		}

		return financeLedger{repo: repos.FinanceRecordRepo()}.recordExpense(ctx, order)
	})
	if err != nil {
		discardEvents(aggregates(order, product)...)
		return nil, s.reject(ctx, span, "create_restock", err)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID.String(),
		telemetry.SpanAttrOrderStatus, order.Status.String(),
	)
	s.recordOrder(ctx, order)
	if order.IsInStock() {
		s.recordStock(ctx, telemetry.StockDirectionIn, order.Quantity)
	}
	publishEvents(ctx, s.eventPublisher, s.logger, aggregates(order, product)...)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Update edits a PENDING order and performs the status transition the
// request asks for. IN_STOCK adds stock (or creates the product), CANCELLED
// removes the EXPENSE record, PENDING only refreshes its value.
func (s *PurchaseOrderService) Update(ctx context.Context, by shared.Principal, orderID uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "update",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()),
	)
	defer span.End()

	if err := by.Validate(); err != nil {
		return nil, s.reject(ctx, span, "update", err)
	}

	var order *trade.PurchaseOrder
	var product *catalog.Product
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.IsPending() {
			return shared.NewStateViolation(order.ID, "only pending orders can be updated, order is %s", order.Status)
		}
		if req.ProductID != nil {
			if err := order.VerifyRestockTarget(*req.ProductID); err != nil {
				return err
			}
		}

		changes, err := s.buildChanges(ctx, repos, order, req)
		if err != nil {
			return err
		}
		if err := order.Apply(changes, by); err != nil {
			return err
		}
		if err := repos.PurchaseOrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		ledger := financeLedger{repo: repos.FinanceRecordRepo()}
		switch order.Status {
		case trade.PurchaseOrderStatusInStock:
			if order.IsRestock() {
				book := newStockBook(repos.ProductRepo(), by)
				product, err = book.receive(ctx, order.ProductID, order.Quantity)
				if err != nil {
					return err
				}
				if err := book.flush(ctx); err != nil {
					return err
				}
			} else {
				product, err = materializeProduct(ctx, repos, order, by)
				if err != nil {
					return err
				}
			}
			return ledger.revalueExpense(ctx, order)
		case trade.PurchaseOrderStatusCancelled:
			return ledger.removeExpense(ctx, order)
		default:
			return ledger.revalueExpense(ctx, order)
		}
	})
	if err != nil {
		discardEvents(aggregates(order, product)...)
		return nil, s.reject(ctx, span, "update", err)
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrOrderStatus, order.Status.String())
	s.recordOrder(ctx, order)
	if order.IsInStock() {
		s.recordStock(ctx, telemetry.StockDirectionIn, order.Quantity)
	}
	publishEvents(ctx, s.eventPublisher, s.logger, aggregates(order, product)...)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with pagination and an optional status filter
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) (shared.Paginated[PurchaseOrderResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Status:   filter.Status,
	}.Normalize()

	orders, total, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[PurchaseOrderResponse]{}, err
	}
	return shared.NewPaginated(ToPurchaseOrderResponses(orders), total, domainFilter.Page, domainFilter.PageSize), nil
}

// buildChanges turns the partial request into domain changes, resolving the
// supplier and (for NEW_PRODUCT orders) the category by natural key
func (s *PurchaseOrderService) buildChanges(ctx context.Context, repos TransactionalRepositories, order *trade.PurchaseOrder, req UpdatePurchaseOrderRequest) (trade.PurchaseOrderChanges, error) {
	changes := trade.PurchaseOrderChanges{
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		Shipping:      req.ShippingCost,
		Other:         req.OtherCost,
		SellingPrice:  req.SellingPrice,
		Status:        req.Status,
	}

	if req.ProductName != nil || req.Category != nil || req.Specifications != nil {
		desc := order.Product
		if req.ProductName != nil {
			desc.Name = *req.ProductName
		}
		if req.Category != nil {
			desc.Category = *req.Category
		}
		if req.Specifications != nil {
			desc.Specifications = *req.Specifications
		}
		desc = desc.Normalize()

		if !order.IsRestock() && desc.Category != order.Product.Category {
			category, err := resolveCategory(ctx, repos, desc.Category)
			if err != nil {
				return changes, err
			}
			desc.Category = category.Name
			changes.CategoryID = &category.ID
		}
		changes.Product = &desc
	}

	if req.Supplier != nil {
		supplier, err := resolveSupplier(ctx, repos, *req.Supplier)
		if err != nil {
			return changes, err
		}
		changes.SupplierID = &supplier.ID
	}

	return changes, nil
}

func (s *PurchaseOrderService) reject(ctx context.Context, span trace.Span, operation string, err error) error {
	telemetry.RecordError(span, err)
	if s.metrics != nil {
		s.metrics.RecordRejection(ctx, "purchase_order."+operation, errorCode(err))
	}
	return err
}

func (s *PurchaseOrderService) recordOrder(ctx context.Context, order *trade.PurchaseOrder) {
	if s.metrics != nil {
		s.metrics.RecordPurchaseOrder(ctx, string(order.Type), order.Status.String(), order.TotalCost())
	}
}

func (s *PurchaseOrderService) recordStock(ctx context.Context, direction string, units int) {
	if s.metrics != nil {
		s.metrics.RecordStockMovement(ctx, direction, units)
	}
}

// materializeProduct creates the product a NEW_PRODUCT order brings into stock
func materializeProduct(ctx context.Context, repos TransactionalRepositories, order *trade.PurchaseOrder, by shared.Principal) (*catalog.Product, error) {
	product, err := catalog.NewProductFromPurchase(order.ID, order.Product, order.CategoryID, order.Quantity, order.SellingPrice, by)
	if err != nil {
		return nil, err
	}
	if err := repos.ProductRepo().Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func resolveCategory(ctx context.Context, repos TransactionalRepositories, name string) (*catalog.ProductCategory, error) {
	category, err := catalog.NewProductCategory(name)
	if err != nil {
		return nil, err
	}
	return repos.CategoryRepo().FindOrCreate(ctx, category)
}

func resolveSupplier(ctx context.Context, repos TransactionalRepositories, in SupplierInput) (*partner.Supplier, error) {
	supplier, err := partner.NewSupplier(in.Name, in.Phone, in.Email, in.Address)
	if err != nil {
		return nil, err
	}
	return repos.SupplierRepo().FindOrCreate(ctx, supplier)
}

func aggregates(order *trade.PurchaseOrder, product *catalog.Product) []shared.AggregateRoot {
	out := make([]shared.AggregateRoot, 0, 2)
	if order != nil {
		out = append(out, order)
	}
	if product != nil {
		out = append(out, product)
	}
	return out
}
