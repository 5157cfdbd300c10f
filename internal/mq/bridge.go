package mq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"pulseboard/internal/realtime"
)

// Bridge consumes dashboard events from the exchange and re-injects
// them into the local hub. Each instance gets its own auto-deleted
// queue bound to every routing key, so the exchange behaves as a
// fan-out across replicas.
type Bridge struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	hub   *realtime.Hub
	log   *zap.Logger
}

// NewBridge connects, declares the exchange and binds a per-instance queue.
func NewBridge(url, exchange string, hub *realtime.Hub, log *zap.Logger) (*Bridge, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	// exclusive + auto-delete: the queue lives and dies with this instance
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "#", exchange, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}
	return &Bridge{conn: conn, ch: ch, queue: q.Name, hub: hub, log: log}, nil
}

// Run consumes deliveries until the context is cancelled or the channel
// closes. Undecodable payloads are acked and dropped; requeueing them
// would loop forever.
func (b *Bridge) Run(ctx context.Context) error {
	msgs, err := b.ch.ConsumeWithContext(ctx, b.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume failed: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := b.handleDelivery(ctx, d); err != nil {
				b.log.Warn("dropping undecodable event",
					zap.String("routing_key", d.RoutingKey),
					zap.Error(err))
			}
			_ = d.Ack(false)
		}
	}
}

func (b *Bridge) handleDelivery(ctx context.Context, d amqp.Delivery) error {
	var env realtime.Envelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	ev, err := realtime.Decode(env)
	if err != nil {
		return err
	}
	return b.hub.Publish(ctx, ev)
}

// Close releases the channel and connection.
func (b *Bridge) Close() {
	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		_ = b.conn.Close()
	}
}
