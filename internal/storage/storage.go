// Package storage defines the order persistence interface shared by the
// in-memory and SQLite implementations.
package storage

import (
	"context"

	"shopchat/internal/domain"
)

// OrderStore persists confirmed orders. Implementations are append-only:
// records are never updated or deleted.
type OrderStore interface {
	Append(ctx context.Context, order *domain.OrderRecord) error
	List(ctx context.Context) ([]domain.OrderRecord, error)
	Count(ctx context.Context) (int, error)
}
