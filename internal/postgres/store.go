package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-inventory-orders/internal/inventory"
)

// Store is the durable inventory.Store over PostgreSQL. Row locks taken by
// LockProducts are held until the enclosing transaction commits or rolls
// back, which is what serializes overlapping reservations.
type Store struct {
	DB *pgxpool.Pool
}

var _ inventory.Store = (*Store)(nil)

func (s *Store) WithTx(ctx context.Context, fn func(tx inventory.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&storeTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) InsertProduct(ctx context.Context, p *inventory.Product) error {
	return s.DB.QueryRow(ctx, `
		INSERT INTO products (name, price, stock_quantity)
		VALUES ($1, $2, $3)
		RETURNING id`, p.Name, p.Price, p.StockQuantity).Scan(&p.ID)
}

func (s *Store) GetProduct(ctx context.Context, id int64) (inventory.Product, error) {
	var p inventory.Product
	err := s.DB.QueryRow(ctx, `
		SELECT id, name, price, stock_quantity
		FROM products WHERE id = $1`, id).Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return inventory.Product{}, inventory.ErrProductNotFound
	}
	return p, err
}

func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

func (s *Store) ListProducts(ctx context.Context, limit, offset int64) ([]inventory.Product, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, name, price, stock_quantity
		FROM products ORDER BY id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []inventory.Product{}
	for rows.Next() {
		var p inventory.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetOrder(ctx context.Context, id int64) (inventory.Order, error) {
	var (
		o      inventory.Order
		status string
	)
	err := s.DB.QueryRow(ctx, `
		SELECT id, status, created_at FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return inventory.Order{}, inventory.ErrOrderNotFound
	}
	if err != nil {
		return inventory.Order{}, err
	}
	o.Status = inventory.Status(status)

	rows, err := s.DB.Query(ctx, `
		SELECT id, order_id, product_id, quantity_ordered, price_at_time_of_order
		FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return inventory.Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var it inventory.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.QuantityOrdered, &it.PriceAtOrderTime); err != nil {
			return inventory.Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

type storeTx struct {
	tx pgx.Tx
}

func (t *storeTx) LockProducts(ctx context.Context, ids []int64) ([]inventory.Product, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT id, name, price, stock_quantity
		FROM products WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []inventory.Product
	for rows.Next() {
		var p inventory.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (t *storeTx) DeductStock(ctx context.Context, productID, qty int64) error {
	ct, err := t.tx.Exec(ctx, `
		UPDATE products SET stock_quantity = stock_quantity - $2
		WHERE id = $1`, productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("deduct stock: product %d gone", productID)
	}
	return nil
}

func (t *storeTx) InsertOrder(ctx context.Context, status inventory.Status) (inventory.Order, error) {
	o := inventory.Order{Status: status}
	err := t.tx.QueryRow(ctx, `
		INSERT INTO orders (status) VALUES ($1)
		RETURNING id, created_at`, string(status)).Scan(&o.ID, &o.CreatedAt)
	return o, err
}

func (t *storeTx) InsertOrderItem(ctx context.Context, item *inventory.OrderItem) error {
	return t.tx.QueryRow(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity_ordered, price_at_time_of_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		item.OrderID, item.ProductID, item.QuantityOrdered, item.PriceAtOrderTime).Scan(&item.ID)
}

func (t *storeTx) OrderStatusForUpdate(ctx context.Context, orderID int64) (inventory.Status, error) {
	var s string
	err := t.tx.QueryRow(ctx, `
		SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", inventory.ErrOrderNotFound
	}
	if err != nil {
		return "", err
	}
	return inventory.Status(s), nil
}

func (t *storeTx) UpdateOrderStatus(ctx context.Context, orderID int64, status inventory.Status) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE orders SET status = $2 WHERE id = $1`, orderID, string(status))
	return err
}
