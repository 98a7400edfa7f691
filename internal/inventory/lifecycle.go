package inventory

import (
	"context"
	"fmt"
)

// SetStatus moves an order to next if the transition is legal and returns
// the persisted status. Cancelling does not return reserved stock to the
// catalog.
func (s *Service) SetStatus(ctx context.Context, orderID int64, next Status) (Status, error) {
	if !next.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, string(next))
	}

	err := s.store.WithTx(ctx, func(tx Tx) error {
		cur, err := tx.OrderStatusForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !CanTransition(cur, next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur, next)
		}
		return tx.UpdateOrderStatus(ctx, orderID, next)
	})
	if err != nil {
		return "", err
	}
	return next, nil
}
