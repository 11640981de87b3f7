package messaging

import (
	"fmt"
	"time"

	"storefront/logger"

	"github.com/rabbitmq/amqp091-go"
)

const (
	OrdersExchange     = "storefront_orders"
	RoutingOrderPlaced = "order.placed"
)

// Connection wraps a RabbitMQ connection and channel with reconnect.
type Connection struct {
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	log        *logger.Logger
	url        string
	maxRetries int
}

// Dial connects to url and declares the orders exchange.
func Dial(url string, log *logger.Logger) (*Connection, error) {
	c := &Connection{log: log, url: url, maxRetries: 5}
	if err := c.connect(); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}
	return c, nil
}

func (c *Connection) connect() error {
	var err error
	for i := 0; i < c.maxRetries; i++ {
		c.conn, err = amqp091.Dial(c.url)
		if err == nil {
			c.channel, err = c.conn.Channel()
			if err == nil {
				if err = c.setupTopology(); err == nil {
					return nil
				}
				c.close()
			} else {
				c.conn.Close()
			}
		}
		if i < c.maxRetries-1 {
			wait := time.Duration(i+1) * 2 * time.Second
			c.log.Warning("messaging", "rabbitmq connection failed, retrying", map[string]interface{}{
				"error": err.Error(),
				"wait":  wait.String(),
			})
			time.Sleep(wait)
		}
	}
	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", c.maxRetries, err)
}

func (c *Connection) setupTopology() error {
	err := c.channel.ExchangeDeclare(
		OrdersExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", OrdersExchange, err)
	}
	return nil
}

func (c *Connection) Channel() *amqp091.Channel {
	return c.channel
}

func (c *Connection) IsClosed() bool {
	return c.conn == nil || c.conn.IsClosed()
}

func (c *Connection) Reconnect() error {
	c.close()
	return c.connect()
}

func (c *Connection) Close() error {
	return c.close()
}

func (c *Connection) close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
