package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/logger"
	"storefront/models"

	"github.com/rabbitmq/amqp091-go"
)

// channel is the subset of *amqp091.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Publisher sends order events to the orders exchange.
type Publisher struct {
	conn    *Connection
	channel func() (channel, error)
	log     *logger.Logger
	timeout time.Duration
}

func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	p := &Publisher{conn: conn, log: log, timeout: 10 * time.Second}
	p.channel = func() (channel, error) {
		if conn.IsClosed() {
			if err := conn.Reconnect(); err != nil {
				return nil, fmt.Errorf("failed to reconnect: %w", err)
			}
		}
		return conn.Channel(), nil
	}
	return p
}

// PublishOrderPlaced publishes ev as persistent JSON with routing key order.placed.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, ev models.OrderPlacedEvent) error {
	return p.publish(ctx, OrdersExchange, RoutingOrderPlaced, ev)
}

func (p *Publisher) publish(ctx context.Context, exchange, routingKey string, message interface{}) error {
	ch, err := p.channel()
	if err != nil {
		return err
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := ch.PublishWithContext(ctx, exchange, routingKey, false, false, publishing); err != nil {
		p.log.Error("messaging", err, map[string]interface{}{
			"exchange":    exchange,
			"routing_key": routingKey,
		})
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.log.Debug("messaging", "message published", map[string]interface{}{
		"exchange":     exchange,
		"routing_key":  routingKey,
		"message_size": len(body),
	})
	return nil
}

func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
