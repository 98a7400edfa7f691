package inventory

import "context"

// Service exposes the catalog, the stock reservation engine and the order
// lifecycle over a Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetOrder(ctx context.Context, id int64) (Order, error) {
	return s.store.GetOrder(ctx, id)
}
