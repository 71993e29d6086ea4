package trade

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
)

// financeLedger keeps exactly one finance record per non-cancelled order
type financeLedger struct {
	repo finance.FinanceRecordRepository
}

func (l financeLedger) recordExpense(ctx context.Context, order *trade.PurchaseOrder) error {
	record, err := finance.NewExpenseRecord(order.ID, order.Period(), order.TotalCost())
	if err != nil {
		return err
	}
	return l.repo.Create(ctx, record)
}

// revalueExpense overwrites the order's EXPENSE record. A missing record is
// recreated so the one-record invariant holds afterwards.
func (l financeLedger) revalueExpense(ctx context.Context, order *trade.PurchaseOrder) error {
	record, err := l.repo.FindByPurchaseOrder(ctx, order.ID)
	if errors.Is(err, shared.ErrNotFound) {
		return l.recordExpense(ctx, order)
	}
	if err != nil {
		return err
	}
	if err := record.Revalue(order.TotalCost()); err != nil {
		return err
	}
	return l.repo.Save(ctx, record)
}

func (l financeLedger) removeExpense(ctx context.Context, order *trade.PurchaseOrder) error {
	record, err := l.repo.FindByPurchaseOrder(ctx, order.ID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return l.repo.Delete(ctx, record.ID)
}

func (l financeLedger) recordSale(ctx context.Context, sale *trade.Sale) error {
	record, err := finance.NewSaleRecord(sale.ID, sale.Period(), sale.Payment.TotalPayable)
	if err != nil {
		return err
	}
	return l.repo.Create(ctx, record)
}

func (l financeLedger) revalueSale(ctx context.Context, sale *trade.Sale) error {
	record, err := l.repo.FindBySale(ctx, sale.ID)
	if errors.Is(err, shared.ErrNotFound) {
		return l.recordSale(ctx, sale)
	}
	if err != nil {
		return err
	}
	if err := record.Revalue(sale.Payment.TotalPayable); err != nil {
		return err
	}
	return l.repo.Save(ctx, record)
}

func (l financeLedger) removeSale(ctx context.Context, sale *trade.Sale) error {
	record, err := l.repo.FindBySale(ctx, sale.ID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return l.repo.Delete(ctx, record.ID)
}
