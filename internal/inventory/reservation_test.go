package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return NewService(store), store
}

func seedProduct(t *testing.T, svc *Service, name, price string, stock int64) Product {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	})
	require.NoError(t, err)
	return p
}

func TestCreateOrder_ReducesStock(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := seedProduct(t, svc, "Test Product", "100.00", 10)

	order, err := svc.CreateOrder(ctx, []Line{{ProductID: p.ID, Quantity: 3}})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, order.Status)
	assert.False(t, order.CreatedAt.IsZero())
	require.Len(t, order.Items, 1)
	assert.Equal(t, p.ID, order.Items[0].ProductID)
	assert.EqualValues(t, 3, order.Items[0].QuantityOrdered)
	assert.True(t, order.Items[0].PriceAtOrderTime.Equal(p.Price))

	after, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 7, after.StockQuantity)
}

func TestCreateOrder_MultiLine(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	a := seedProduct(t, svc, "A", "10.00", 5)
	b := seedProduct(t, svc, "B", "20.00", 2)
	c := seedProduct(t, svc, "C", "30.00", 9)

	order, err := svc.CreateOrder(ctx, []Line{
		{ProductID: a.ID, Quantity: 3},
		{ProductID: b.ID, Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)

	aAfter, _ := svc.GetProduct(ctx, a.ID)
	bAfter, _ := svc.GetProduct(ctx, b.ID)
	cAfter, _ := svc.GetProduct(ctx, c.ID)
	assert.EqualValues(t, 2, aAfter.StockQuantity)
	assert.EqualValues(t, 0, bAfter.StockQuantity)
	assert.EqualValues(t, 9, cAfter.StockQuantity, "uninvolved product must not change")
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := seedProduct(t, svc, "Low Stock Product", "50.00", 2)

	_, err := svc.CreateOrder(ctx, []Line{{ProductID: p.ID, Quantity: 5}})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Low Stock Product")

	after, _ := svc.GetProduct(ctx, p.ID)
	assert.EqualValues(t, 2, after.StockQuantity)

	_, err = svc.GetOrder(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound, "no order may be created")
}

func TestCreateOrder_PartialFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	ok := seedProduct(t, svc, "Plenty", "10.00", 100)
	short := seedProduct(t, svc, "Short", "10.00", 1)

	_, err := svc.CreateOrder(ctx, []Line{
		{ProductID: ok.ID, Quantity: 10},
		{ProductID: short.ID, Quantity: 2},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	okAfter, _ := svc.GetProduct(ctx, ok.ID)
	shortAfter, _ := svc.GetProduct(ctx, short.ID)
	assert.EqualValues(t, 100, okAfter.StockQuantity)
	assert.EqualValues(t, 1, shortAfter.StockQuantity)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := seedProduct(t, svc, "Known", "10.00", 5)

	_, err := svc.CreateOrder(ctx, []Line{
		{ProductID: p.ID, Quantity: 1},
		{ProductID: 424242, Quantity: 1},
	})
	require.ErrorIs(t, err, ErrProductNotFound)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "424242")

	after, _ := svc.GetProduct(ctx, p.ID)
	assert.EqualValues(t, 5, after.StockQuantity)
}

func TestCreateOrder_InvalidInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := seedProduct(t, svc, "P", "10.00", 5)

	_, err := svc.CreateOrder(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.CreateOrder(ctx, []Line{{ProductID: p.ID, Quantity: 0}})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.CreateOrder(ctx, []Line{{ProductID: p.ID, Quantity: -3}})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	after, _ := svc.GetProduct(ctx, p.ID)
	assert.EqualValues(t, 5, after.StockQuantity)
}

func TestCreateOrder_RepeatedProductLinesAccumulate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := seedProduct(t, svc, "Repeated", "10.00", 10)

	// 6+6 exceeds stock even though each line alone would fit
	_, err := svc.CreateOrder(ctx, []Line{
		{ProductID: p.ID, Quantity: 6},
		{ProductID: p.ID, Quantity: 6},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	after, _ := svc.GetProduct(ctx, p.ID)
	assert.EqualValues(t, 10, after.StockQuantity)

	// 4+6 fits exactly and keeps both lines as separate items
	order, err := svc.CreateOrder(ctx, []Line{
		{ProductID: p.ID, Quantity: 4},
		{ProductID: p.ID, Quantity: 6},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	after, _ = svc.GetProduct(ctx, p.ID)
	assert.EqualValues(t, 0, after.StockQuantity)
}

func TestCreateOrder_PriceSnapshotFrozen(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	p := seedProduct(t, svc, "Volatile", "100.00", 10)

	order, err := svc.CreateOrder(ctx, []Line{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	// catalog price change after the order
	store.mu.Lock()
	cur := store.st.products[p.ID]
	cur.Price = decimal.RequireFromString("999.99")
	store.st.products[p.ID] = cur
	store.mu.Unlock()

	got, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].PriceAtOrderTime.Equal(decimal.RequireFromString("100.00")))
}

func TestCreateOrder_ConcurrentExhaustion(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := seedProduct(t, svc, "Hot", "1.00", 10)

	const attempts = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateOrder(ctx, []Line{{ProductID: p.ID, Quantity: 1}})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else {
				assert.ErrorIs(t, err, ErrInsufficientStock)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, successes, "exactly enough reservations succeed to exhaust stock")
	after, _ := svc.GetProduct(ctx, p.ID)
	assert.EqualValues(t, 0, after.StockQuantity)
}
