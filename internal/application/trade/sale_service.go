package trade

import (
	"context"

	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SaleService runs the sale state machine. Stock decrements, restorations
// and the SALE finance record all commit or roll back with the sale.
type SaleService struct {
	txScope           TransactionScope
	saleRepo          trade.SaleRepository
	eventPublisher    shared.EventPublisher
	metrics           *telemetry.LedgerMetrics
	logger            *zap.Logger
	lowStockThreshold int
}

// NewSaleService creates a new SaleService
func NewSaleService(txScope TransactionScope, saleRepo trade.SaleRepository, logger *zap.Logger) *SaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{
		txScope:  txScope,
		saleRepo: saleRepo,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for post-commit notifications
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the ledger metrics collector
func (s *SaleService) SetMetrics(m *telemetry.LedgerMetrics) {
	s.metrics = m
}

// SetLowStockThreshold enables ProductLowStock events for products a sale
// leaves at or below threshold. Zero disables them.
func (s *SaleService) SetLowStockThreshold(threshold int) {
	s.lowStockThreshold = threshold
}

// Create records a sale and withdraws its items from stock. Any failure,
// including a shortfall on the last item, leaves no trace.
func (s *SaleService) Create(ctx context.Context, by shared.Principal, req CreateSaleRequest) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "create",
		telemetry.WithAttribute("items_count", len(req.Items)),
	)
	defer span.End()

	if err := by.Validate(); err != nil {
		return nil, s.reject(ctx, span, "create", err)
	}
	if len(req.Items) == 0 {
		return nil, s.reject(ctx, span, "create", shared.NewValidationFailure(uuid.Nil, "a sale needs at least one item"))
	}

	var sale *trade.Sale
	var book *stockBook
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		refs, err := resolveSaleReferences(ctx, repos, &req.Customer, &req.PaymentMethod, &req.DeliveryMedium)
		if err != nil {
			return err
		}

		payment := trade.Payment{Status: req.PaymentStatus, TotalPayable: req.TotalPayable, TotalDue: req.TotalDue}
		sale, err = trade.NewSale(refs.customerID, refs.paymentMethodID, refs.deliveryMediumID, payment, req.Status, req.Notes, by)
		if err != nil {
			return err
		}

		lines := toSaleLines(req.Items)
		book = newStockBook(repos.ProductRepo(), by)
		if err := book.lock(ctx, lineProductIDs(lines)); err != nil {
			return err
		}
		if err := book.withdraw(ctx, sale, lines); err != nil {
			return err
		}
		if err := book.flush(ctx); err != nil {
			return err
		}
		if err := repos.SaleRepo().Create(ctx, sale); err != nil {
			return err
		}
		return financeLedger{repo: repos.FinanceRecordRepo()}.recordSale(ctx, sale)
	})
	if err != nil {
		if book != nil {
			discardEvents(book.aggregates()...)
		}
		return nil, s.reject(ctx, span, "create", err)
	}

	sale.MarkCreated(by)
	book.flagLowStock(s.lowStockThreshold)

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, sale.ID.String(),
		telemetry.SpanAttrOrderStatus, sale.Status.String(),
		telemetry.SpanAttrAmount, sale.Payment.TotalPayable.String(),
	)
	s.recordMovements(ctx, span, sale, book)
	publishEvents(ctx, s.eventPublisher, s.logger, append([]shared.AggregateRoot{sale}, book.aggregates()...)...)

	response := ToSaleResponse(sale)
	return &response, nil
}

// Update edits a PENDING or CONFIRMED sale. Cancelling restores every item's
// stock and removes the SALE record; a changed item list restores the old
// items and withdraws the new ones; otherwise only scalar fields change.
func (s *SaleService) Update(ctx context.Context, by shared.Principal, saleID uuid.UUID, req UpdateSaleRequest) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "update",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, saleID.String()),
	)
	defer span.End()

	if err := by.Validate(); err != nil {
		return nil, s.reject(ctx, span, "update", err)
	}
	if req.Items != nil && len(req.Items) == 0 {
		return nil, s.reject(ctx, span, "update", shared.NewValidationFailure(saleID, "a sale needs at least one item"))
	}

	var sale *trade.Sale
	var book *stockBook
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if !sale.Status.IsMutable() {
			return shared.NewStateViolation(sale.ID, "cancelled sales cannot be updated")
		}

		refs, err := resolveSaleReferences(ctx, repos, req.Customer, req.PaymentMethod, req.DeliveryMedium)
		if err != nil {
			return err
		}
		changes := trade.SaleChanges{
			PaymentStatus: req.PaymentStatus,
			TotalPayable:  req.TotalPayable,
			TotalDue:      req.TotalDue,
			Status:        req.Status,
			Notes:         req.Notes,
		}
		if refs.customerID != uuid.Nil {
			changes.CustomerID = &refs.customerID
		}
		if refs.paymentMethodID != uuid.Nil {
			changes.PaymentMethodID = &refs.paymentMethodID
		}
		if refs.deliveryMediumID != uuid.Nil {
			changes.DeliveryMediumID = &refs.deliveryMediumID
		}
		if err := sale.Apply(changes, by); err != nil {
			return err
		}

		ledger := financeLedger{repo: repos.FinanceRecordRepo()}
		book = newStockBook(repos.ProductRepo(), by)

		if sale.IsCancelled() {
			removed := sale.ClearItems()
			if err := book.lock(ctx, itemProductIDs(removed)); err != nil {
				return err
			}
			if err := book.restore(ctx, removed); err != nil {
				return err
			}
			if err := book.flush(ctx); err != nil {
				return err
			}
			if err := repos.SaleRepo().SaveWithLock(ctx, sale); err != nil {
				return err
			}
			return ledger.removeSale(ctx, sale)
		}

		if req.Items != nil {
			lines := toSaleLines(req.Items)
			if !sale.SameLines(lines) {
				previous := sale.ClearItems()
				ids := append(itemProductIDs(previous), lineProductIDs(lines)...)
				if err := book.lock(ctx, ids); err != nil {
					return err
				}
				if err := book.restore(ctx, previous); err != nil {
					return err
				}
				if err := book.withdraw(ctx, sale, lines); err != nil {
					return err
				}
				if err := book.flush(ctx); err != nil {
					return err
				}
			}
		}

		if err := repos.SaleRepo().SaveWithLock(ctx, sale); err != nil {
			return err
		}
		return ledger.revalueSale(ctx, sale)
	})
	if err != nil {
		aggs := make([]shared.AggregateRoot, 0)
		if sale != nil {
			aggs = append(aggs, sale)
		}
		if book != nil {
			aggs = append(aggs, book.aggregates()...)
		}
		discardEvents(aggs...)
		return nil, s.reject(ctx, span, "update", err)
	}

	if !sale.IsCancelled() {
		book.flagLowStock(s.lowStockThreshold)
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrOrderStatus, sale.Status.String())
	s.recordMovements(ctx, span, sale, book)
	publishEvents(ctx, s.eventPublisher, s.logger, append([]shared.AggregateRoot{sale}, book.aggregates()...)...)

	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByID retrieves a sale with its items
func (s *SaleService) GetByID(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with pagination and an optional status filter
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) (shared.Paginated[SaleResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Status:   filter.Status,
	}.Normalize()

	sales, total, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[SaleResponse]{}, err
	}
	return shared.NewPaginated(ToSaleResponses(sales), total, domainFilter.Page, domainFilter.PageSize), nil
}

func (s *SaleService) reject(ctx context.Context, span trace.Span, operation string, err error) error {
	telemetry.RecordError(span, err)
	if s.metrics != nil {
		s.metrics.RecordRejection(ctx, "sale."+operation, errorCode(err))
	}
	return err
}

func (s *SaleService) recordMovements(ctx context.Context, span trace.Span, sale *trade.Sale, book *stockBook) {
	telemetry.AddEvent(span, "stock.moved", "units_out", book.unitsOut, "units_in", book.unitsIn)
	if s.metrics == nil {
		return
	}
	s.metrics.RecordSale(ctx, sale.Status.String(), sale.Payment.TotalPayable)
	if book.unitsOut > 0 {
		s.metrics.RecordStockMovement(ctx, telemetry.StockDirectionOut, book.unitsOut)
	}
	if book.unitsIn > 0 {
		s.metrics.RecordStockMovement(ctx, telemetry.StockDirectionIn, book.unitsIn)
	}
}

type saleReferences struct {
	customerID       uuid.UUID
	paymentMethodID  uuid.UUID
	deliveryMediumID uuid.UUID
}

// resolveSaleReferences upserts whichever of customer, payment method and
// delivery medium are given. Missing ones resolve to uuid.Nil.
func resolveSaleReferences(
	ctx context.Context,
	repos TransactionalRepositories,
	customer *CustomerInput,
	paymentMethod, deliveryMedium *string,
) (saleReferences, error) {
	var refs saleReferences

	if customer != nil {
		c, err := partner.NewCustomer(customer.Name, customer.Phone, customer.Email, customer.Address)
		if err != nil {
			return refs, err
		}
		stored, err := repos.CustomerRepo().FindOrCreate(ctx, c)
		if err != nil {
			return refs, err
		}
		refs.customerID = stored.ID
	}

	if paymentMethod != nil {
		pm, err := trade.NewPaymentMethod(*paymentMethod)
		if err != nil {
			return refs, err
		}
		stored, err := repos.PaymentMethodRepo().FindOrCreate(ctx, pm)
		if err != nil {
			return refs, err
		}
		refs.paymentMethodID = stored.ID
	}

	if deliveryMedium != nil {
		dm, err := trade.NewDeliveryMedium(*deliveryMedium)
		if err != nil {
			return refs, err
		}
		stored, err := repos.DeliveryMediumRepo().FindOrCreate(ctx, dm)
		if err != nil {
			return refs, err
		}
		refs.deliveryMediumID = stored.ID
	}

	return refs, nil
}
