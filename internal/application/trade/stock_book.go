package trade

import (
	"context"
	"errors"
	"sort"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
)

// stockBook applies stock ledger movements for one mutation. Products are
// locked once, in id order, and written back together by flush.
type stockBook struct {
	repo     catalog.ProductRepository
	by       shared.Principal
	products map[uuid.UUID]*catalog.Product
	touched  map[uuid.UUID]bool
	unitsIn  int
	unitsOut int
}

func newStockBook(repo catalog.ProductRepository, by shared.Principal) *stockBook {
	return &stockBook{
		repo:     repo,
		by:       by,
		products: make(map[uuid.UUID]*catalog.Product),
		touched:  make(map[uuid.UUID]bool),
	}
}

// lock acquires row locks on every product in ids in ascending id order so
// that concurrent sales touching overlapping products cannot deadlock
func (b *stockBook) lock(ctx context.Context, ids []uuid.UUID) error {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].String() < unique[j].String() })

	for _, id := range unique {
		if _, err := b.get(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (b *stockBook) get(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := b.products[id]; ok {
		return p, nil
	}
	p, err := b.repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFound(id, "product not found")
		}
		return nil, err
	}
	b.products[id] = p
	return p, nil
}

// restore returns every item's quantity to its product
func (b *stockBook) restore(ctx context.Context, items []trade.SaleItem) error {
	for _, item := range items {
		p, err := b.get(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if err := p.IncreaseStock(item.Quantity, b.by); err != nil {
			return err
		}
		b.touched[p.ID] = true
		b.unitsIn += item.Quantity
	}
	return nil
}

// withdraw checks and decrements stock for each line, staging the line on
// sale once its product has been debited. The first failing line aborts.
func (b *stockBook) withdraw(ctx context.Context, sale *trade.Sale, lines []trade.SaleLine) error {
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return err
		}
		p, err := b.get(ctx, line.ProductID)
		if err != nil {
			return err
		}
		if err := p.DecreaseStock(line.Quantity, b.by); err != nil {
			return err
		}
		b.touched[p.ID] = true
		b.unitsOut += line.Quantity
		if _, err := sale.AddItem(line); err != nil {
			return err
		}
	}
	return nil
}

// receive adds quantity to a product, used by restock fulfilment
func (b *stockBook) receive(ctx context.Context, productID uuid.UUID, quantity int) (*catalog.Product, error) {
	p, err := b.get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := p.IncreaseStock(quantity, b.by); err != nil {
		return nil, err
	}
	b.touched[p.ID] = true
	b.unitsIn += quantity
	return p, nil
}

// flagLowStock records low-stock events on touched products
func (b *stockBook) flagLowStock(threshold int) {
	for _, p := range b.touchedProducts() {
		p.FlagLowStock(threshold, b.by)
	}
}

// aggregates returns the touched products for event publication
func (b *stockBook) aggregates() []shared.AggregateRoot {
	products := b.touchedProducts()
	out := make([]shared.AggregateRoot, len(products))
	for i, p := range products {
		out[i] = p
	}
	return out
}

// flush persists every touched product in lock order
func (b *stockBook) flush(ctx context.Context) error {
	for _, p := range b.touchedProducts() {
		if err := b.repo.SaveWithLock(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (b *stockBook) touchedProducts() []*catalog.Product {
	out := make([]*catalog.Product, 0, len(b.touched))
	for id := range b.touched {
		out = append(out, b.products[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

func lineProductIDs(lines []trade.SaleLine) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

func itemProductIDs(items []trade.SaleItem) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, i := range items {
		ids = append(ids, i.ProductID)
	}
	return ids
}
