package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopchat/internal/domain"
	"shopchat/internal/storage/memory"
)

func TestLedger_RecordRejectsNonOrderIntent(t *testing.T) {
	led := New(memory.New(), 20)

	_, err := led.Record(context.Background(), &domain.Intent{
		Message: "Hi",
		Action:  domain.ActionNone,
	}, time.Now())

	var invalidErr *domain.InvalidOrderError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, domain.ActionNone, invalidErr.Action)

	count, err := led.OrderCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLedger_NoDeduplication(t *testing.T) {
	led := New(memory.New(), 20)
	ctx := context.Background()

	in := &domain.Intent{Action: domain.ActionCreateOrder, Item: "Red Shirt", Quantity: 1}

	first, err := led.Record(ctx, in, time.Now())
	require.NoError(t, err)
	second, err := led.Record(ctx, in, time.Now())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID, "each turn's order is an independent record")

	count, err := led.OrderCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLedger_TotalRevenue(t *testing.T) {
	led := New(memory.New(), 20)
	ctx := context.Background()

	_, err := led.Record(ctx, &domain.Intent{Action: domain.ActionCreateOrder, Item: "Red Shirt", Quantity: 2}, time.Now())
	require.NoError(t, err)
	_, err = led.Record(ctx, &domain.Intent{Action: domain.ActionCreateOrder, Item: "Hat", Quantity: 1}, time.Now())
	require.NoError(t, err)

	revenue, err := led.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60.0, revenue)
}

func TestLedger_QuantityFloor(t *testing.T) {
	led := New(memory.New(), 20)

	order, err := led.Record(context.Background(), &domain.Intent{
		Action:   domain.ActionCreateOrder,
		Item:     "Hat",
		Quantity: 0,
	}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, order.Quantity)
}

func TestLedger_RecordsAreImmutableCopies(t *testing.T) {
	led := New(memory.New(), 20)
	ctx := context.Background()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	order, err := led.Record(ctx, &domain.Intent{Action: domain.ActionCreateOrder, Item: "Hat", Quantity: 1}, at)
	require.NoError(t, err)

	// Mutating the returned record must not affect the stored one.
	order.Quantity = 99

	stored, err := led.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 1, stored[0].Quantity)
	assert.Equal(t, at, stored[0].CreatedAt)
}
