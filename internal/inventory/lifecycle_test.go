package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createOrderForTest(t *testing.T, svc *Service, productID, qty int64) Order {
	t.Helper()
	o, err := svc.CreateOrder(context.Background(), []Line{{ProductID: productID, Quantity: qty}})
	require.NoError(t, err)
	return o
}

func TestSetStatus_PendingToShipped(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := seedProduct(t, svc, "P", "10.00", 10)
	o := createOrderForTest(t, svc, p.ID, 1)

	s, err := svc.SetStatus(ctx, o.ID, StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, s)

	got, err := svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, got.Status)
}

func TestSetStatus_TerminalStatesRejectChanges(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := seedProduct(t, svc, "P", "10.00", 10)

	shipped := createOrderForTest(t, svc, p.ID, 1)
	_, err := svc.SetStatus(ctx, shipped.ID, StatusShipped)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, shipped.ID, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	cancelled := createOrderForTest(t, svc, p.ID, 1)
	_, err = svc.SetStatus(ctx, cancelled.ID, StatusCancelled)
	require.NoError(t, err)
	for _, next := range []Status{StatusPending, StatusShipped, StatusCancelled} {
		_, err = svc.SetStatus(ctx, cancelled.ID, next)
		assert.ErrorIs(t, err, ErrInvalidTransition, "Cancelled -> %s", next)
	}
}

func TestSetStatus_PendingToPendingIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := seedProduct(t, svc, "P", "10.00", 10)
	o := createOrderForTest(t, svc, p.ID, 1)

	s, err := svc.SetStatus(ctx, o.ID, StatusPending)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, s)
}

func TestSetStatus_UnknownOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.SetStatus(ctx, 404, StatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatus_UnknownStatusValue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := seedProduct(t, svc, "P", "10.00", 10)
	o := createOrderForTest(t, svc, p.ID, 1)

	_, err := svc.SetStatus(ctx, o.ID, Status("Teleported"))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSetStatus_CancelDoesNotRestock(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	p := seedProduct(t, svc, "P", "10.00", 10)
	o := createOrderForTest(t, svc, p.ID, 3)

	_, err := svc.SetStatus(ctx, o.ID, StatusCancelled)
	require.NoError(t, err)

	after, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 7, after.StockQuantity, "cancellation keeps the deduction")
}
