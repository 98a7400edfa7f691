package inventory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CreateOrder atomically reserves stock for every line and persists the
// order with its items. All lines succeed or none do: validation runs to
// completion against locked rows before any stock is touched, and any
// failure rolls the whole transaction back.
func (s *Service) CreateOrder(ctx context.Context, lines []Line) (Order, error) {
	if len(lines) == 0 {
		return Order{}, fmt.Errorf("%w: order has no lines", ErrInvalidRequest)
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return Order{}, fmt.Errorf("%w: quantity %d for product %d", ErrInvalidRequest, l.Quantity, l.ProductID)
		}
	}

	// Distinct ids, sorted ascending so overlapping reservations always
	// acquire row locks in the same order.
	ids := distinctSorted(lines)

	// A product may appear on several lines; validate against the sum so
	// repeated lines cannot drive stock below zero.
	required := make(map[int64]int64, len(ids))
	for _, l := range lines {
		required[l.ProductID] += l.Quantity
	}

	var out Order
	err := s.store.WithTx(ctx, func(tx Tx) error {
		products, err := tx.LockProducts(ctx, ids)
		if err != nil {
			return err
		}
		if len(products) != len(ids) {
			return fmt.Errorf("%w: %s", ErrProductNotFound, missingIDs(ids, products))
		}

		byID := make(map[int64]Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		for _, id := range ids {
			if p := byID[id]; p.StockQuantity < required[id] {
				return fmt.Errorf("%w for product %s", ErrInsufficientStock, p.Name)
			}
		}

		for _, id := range ids {
			if err := tx.DeductStock(ctx, id, required[id]); err != nil {
				return err
			}
		}

		order, err := tx.InsertOrder(ctx, StatusPending)
		if err != nil {
			return err
		}
		for _, l := range lines {
			item := OrderItem{
				OrderID:          order.ID,
				ProductID:        l.ProductID,
				QuantityOrdered:  l.Quantity,
				PriceAtOrderTime: byID[l.ProductID].Price,
			}
			if err := tx.InsertOrderItem(ctx, &item); err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}

		out = order
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return out, nil
}

func distinctSorted(lines []Line) []int64 {
	seen := make(map[int64]bool, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func missingIDs(ids []int64, locked []Product) string {
	found := make(map[int64]bool, len(locked))
	for _, p := range locked {
		found[p.ID] = true
	}
	var miss []string
	for _, id := range ids {
		if !found[id] {
			miss = append(miss, strconv.FormatInt(id, 10))
		}
	}
	return strings.Join(miss, ", ")
}
