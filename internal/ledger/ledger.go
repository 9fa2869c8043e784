// Package ledger keeps the append-only record of confirmed orders for one
// session and derives its aggregate metrics.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shopchat/internal/domain"
	"shopchat/internal/storage"
)

// Ledger records confirmed orders and computes count and revenue on
// demand. There is no deduplication: the same logical order produced by
// two separate turns is recorded twice.
type Ledger struct {
	store     storage.OrderStore
	unitPrice float64
}

// New creates a ledger over the given store. unitPrice is the configured
// per-unit price used for revenue aggregation.
func New(store storage.OrderStore, unitPrice float64) *Ledger {
	return &Ledger{store: store, unitPrice: unitPrice}
}

// Record appends an order derived from intent. It fails with
// *domain.InvalidOrderError unless the intent's action is CREATE_ORDER.
func (l *Ledger) Record(ctx context.Context, in *domain.Intent, at time.Time) (*domain.OrderRecord, error) {
	if in.Action != domain.ActionCreateOrder {
		return nil, &domain.InvalidOrderError{Action: in.Action}
	}

	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}

	order := &domain.OrderRecord{
		ID:        uuid.NewString(),
		Item:      in.Item,
		Quantity:  qty,
		CreatedAt: at,
	}
	if err := l.store.Append(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// OrderCount returns the number of recorded orders.
func (l *Ledger) OrderCount(ctx context.Context) (int, error) {
	return l.store.Count(ctx)
}

// TotalRevenue recomputes revenue over the recorded set: sum of quantity
// times the configured unit price. No cached counters.
func (l *Ledger) TotalRevenue(ctx context.Context) (float64, error) {
	orders, err := l.store.List(ctx)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, o := range orders {
		total += float64(o.Quantity) * l.unitPrice
	}
	return total, nil
}

// Orders returns a copy of the recorded set.
func (l *Ledger) Orders(ctx context.Context) ([]domain.OrderRecord, error) {
	return l.store.List(ctx)
}
