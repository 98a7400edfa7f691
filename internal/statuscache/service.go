package statuscache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-inventory-orders/internal/inventory"
	kafkax "github.com/ariefcatur/go-inventory-orders/internal/kafka"
	"github.com/ariefcatur/go-inventory-orders/internal/redisx"
)

// Service keeps the Redis order-status cache in step with order events, so
// status reads served by any API instance see changes made by the others.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderEvent is the consumer handler for order.created and
// order.status.changed.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env inventory.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	var (
		orderID int64
		status  inventory.Status
	)
	switch env.EventType {
	case inventory.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[inventory.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		orderID, status = p.OrderID, p.Status
	case inventory.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[inventory.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		orderID, status = p.OrderID, p.NewStatus
	default:
		return nil
	}

	// dedup by event id so redeliveries are no-ops
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	b, _ := json.Marshal(map[string]inventory.Status{"status": status})
	return s.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
}
