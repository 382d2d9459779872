// Package events carries the advisory cross-process change signal: when
// inventory or orders change, other running views are told to re-read.
// Delivery is best-effort and never awaited.
package events

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel is the pub/sub channel change notifications go out on
const Channel = "glamour:events"

const (
	TopicInventory = "inventory"
	TopicOrders    = "orders"
)

// Notifier announces state changes to any other interested process
type Notifier interface {
	InventoryChanged(ctx context.Context)
	OrdersChanged(ctx context.Context)
}

type redisNotifier struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisNotifier creates a Notifier backed by redis pub/sub
func NewRedisNotifier(client *redis.Client, logger *zap.Logger) Notifier {
	return &redisNotifier{client: client, logger: logger}
}

func (n *redisNotifier) InventoryChanged(ctx context.Context) {
	n.publish(ctx, TopicInventory)
}

func (n *redisNotifier) OrdersChanged(ctx context.Context) {
	n.publish(ctx, TopicOrders)
}

func (n *redisNotifier) publish(ctx context.Context, topic string) {
	if err := n.client.Publish(ctx, Channel, topic).Err(); err != nil {
		// Advisory only: a missed notification just delays a re-read
		n.logger.Warn("Failed to publish change notification",
			zap.String("topic", topic),
			zap.Error(err),
		)
	}
}

// Subscribe delivers change topics until ctx is cancelled
func Subscribe(ctx context.Context, client *redis.Client, logger *zap.Logger) <-chan string {
	out := make(chan string)
	sub := client.Subscribe(ctx, Channel)

	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

type noopNotifier struct{}

// NewNoopNotifier creates a Notifier that drops everything. Used in tests
// and single-process deployments.
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) InventoryChanged(context.Context) {}
func (noopNotifier) OrdersChanged(context.Context)    {}
