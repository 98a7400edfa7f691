package inventory

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by tests and local runs. A
// transaction works on a copy of the whole state and swaps it in on
// commit, so a failed WithTx leaves nothing behind, mirroring the
// rollback semantics of the SQL store. One transaction runs at a time.
type MemoryStore struct {
	mu sync.Mutex
	st memState
}

type memState struct {
	products      map[int64]Product
	orders        map[int64]Order
	nextProductID int64
	nextOrderID   int64
	nextItemID    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{st: memState{
		products:      make(map[int64]Product),
		orders:        make(map[int64]Order),
		nextProductID: 1,
		nextOrderID:   1,
		nextItemID:    1,
	}}
}

func (st memState) clone() memState {
	cl := st
	cl.products = make(map[int64]Product, len(st.products))
	for id, p := range st.products {
		cl.products[id] = p
	}
	cl.orders = make(map[int64]Order, len(st.orders))
	for id, o := range st.orders {
		o.Items = append([]OrderItem(nil), o.Items...)
		cl.orders[id] = o
	}
	return cl
}

func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cl := s.st.clone()
	if err := fn(&memTx{st: &cl}); err != nil {
		return err
	}
	s.st = cl
	return nil
}

func (s *MemoryStore) InsertProduct(ctx context.Context, p *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.st.nextProductID
	s.st.nextProductID++
	s.st.products[p.ID] = *p
	return nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id int64) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.st.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

func (s *MemoryStore) CountProducts(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.st.products)), nil
}

func (s *MemoryStore) ListProducts(ctx context.Context, limit, offset int64) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]Product, 0, len(s.st.products))
	for _, p := range s.st.products {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= int64(len(all)) {
		return []Product{}, nil
	}
	end := offset + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[offset:end], nil
}

func (s *MemoryStore) GetOrder(ctx context.Context, id int64) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.st.orders[id]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	o.Items = append([]OrderItem(nil), o.Items...)
	return o, nil
}

type memTx struct {
	st *memState
}

func (t *memTx) LockProducts(ctx context.Context, ids []int64) ([]Product, error) {
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := t.st.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (t *memTx) DeductStock(ctx context.Context, productID, qty int64) error {
	p, ok := t.st.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	if p.StockQuantity < qty {
		return ErrInsufficientStock
	}
	p.StockQuantity -= qty
	t.st.products[productID] = p
	return nil
}

func (t *memTx) InsertOrder(ctx context.Context, status Status) (Order, error) {
	o := Order{
		ID:        t.st.nextOrderID,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	t.st.nextOrderID++
	t.st.orders[o.ID] = o
	return o, nil
}

func (t *memTx) InsertOrderItem(ctx context.Context, item *OrderItem) error {
	o, ok := t.st.orders[item.OrderID]
	if !ok {
		return ErrOrderNotFound
	}
	item.ID = t.st.nextItemID
	t.st.nextItemID++
	o.Items = append(o.Items, *item)
	t.st.orders[o.ID] = o
	return nil
}

func (t *memTx) OrderStatusForUpdate(ctx context.Context, orderID int64) (Status, error) {
	o, ok := t.st.orders[orderID]
	if !ok {
		return "", ErrOrderNotFound
	}
	return o.Status, nil
}

func (t *memTx) UpdateOrderStatus(ctx context.Context, orderID int64, status Status) error {
	o, ok := t.st.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	t.st.orders[orderID] = o
	return nil
}
