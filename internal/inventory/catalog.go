package inventory

import (
	"context"
	"fmt"
	"strings"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

func (s *Service) CreateProduct(ctx context.Context, p Product) (Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Product{}, fmt.Errorf("%w: product name is empty", ErrInvalidRequest)
	}
	if p.Price.IsNegative() {
		return Product{}, fmt.Errorf("%w: negative price", ErrInvalidRequest)
	}
	if p.StockQuantity < 0 {
		return Product{}, fmt.Errorf("%w: negative stock quantity", ErrInvalidRequest)
	}
	p.Price = p.Price.Round(2)
	if err := s.store.InsertProduct(ctx, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (Product, error) {
	return s.store.GetProduct(ctx, id)
}

// ListProducts pages through the catalog ordered by id. Page starts at 1;
// pageSize is clamped to [1, MaxPageSize] with DefaultPageSize for zero.
func (s *Service) ListProducts(ctx context.Context, page, pageSize int64) (ProductPage, error) {
	if page < 1 {
		return ProductPage{}, fmt.Errorf("%w: page must be >= 1", ErrInvalidRequest)
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return ProductPage{}, fmt.Errorf("%w: page_size must be between 1 and %d", ErrInvalidRequest, MaxPageSize)
	}

	total, err := s.store.CountProducts(ctx)
	if err != nil {
		return ProductPage{}, err
	}
	items, err := s.store.ListProducts(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{
		TotalItems:  total,
		TotalPages:  (total + pageSize - 1) / pageSize,
		CurrentPage: page,
		Items:       items,
	}, nil
}
