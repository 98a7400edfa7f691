package inventory

import "context"

// Tx is the slice of store operations that participate in one database
// transaction. Implementations must scope every call to the same
// transaction and release it on WithTx return.
type Tx interface {
	// LockProducts acquires exclusive row locks on the given product ids and
	// returns the locked rows ordered by id. Ids must already be distinct and
	// sorted ascending; missing products are simply absent from the result.
	LockProducts(ctx context.Context, ids []int64) ([]Product, error)

	// DeductStock subtracts qty from a locked product's stock.
	DeductStock(ctx context.Context, productID, qty int64) error

	// InsertOrder persists a new order and returns it with the
	// store-assigned id and creation timestamp.
	InsertOrder(ctx context.Context, status Status) (Order, error)

	// InsertOrderItem persists one item and fills in its assigned id.
	InsertOrderItem(ctx context.Context, item *OrderItem) error

	// OrderStatusForUpdate reads an order's status under a row lock.
	// Returns ErrOrderNotFound when the order does not exist.
	OrderStatusForUpdate(ctx context.Context, orderID int64) (Status, error)

	UpdateOrderStatus(ctx context.Context, orderID int64, status Status) error
}

// Store is the durable persistence boundary. WithTx runs fn inside one
// transaction: commit on nil, full rollback on any error or panic.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	InsertProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id int64) (Product, error)
	CountProducts(ctx context.Context) (int64, error)
	ListProducts(ctx context.Context, limit, offset int64) ([]Product, error)

	// GetOrder returns the order with its items, ErrOrderNotFound if absent.
	GetOrder(ctx context.Context, id int64) (Order, error)
}
