package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// Handler processes one delivered event. Returning an error rejects the
// delivery and requeues it once.
type Handler func(ctx context.Context, event Event) error

// RabbitMQConsumer drains the events queue.
type RabbitMQConsumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

// NewRabbitMQConsumer dials the broker and declares the same durable queue
// the publisher uses.
func NewRabbitMQConsumer(url string) (*RabbitMQConsumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: open channel: %w", err)
	}

	queue, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("events: declare queue: %w", err)
	}

	return &RabbitMQConsumer{conn: conn, channel: ch, queue: queue}, nil
}

// Consume blocks, delivering events to the handler until ctx is cancelled
// or the channel closes.
func (c *RabbitMQConsumer) Consume(ctx context.Context, handler Handler) error {
	deliveries, err := c.channel.Consume(c.queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("events: consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("events: delivery channel closed")
			}

			var event Event
			if err := json.Unmarshal(d.Body, &event); err != nil {
				// Malformed payloads can never succeed; drop them.
				d.Nack(false, false)
				continue
			}

			if err := handler(ctx, event); err != nil {
				d.Nack(false, !d.Redelivered)
				continue
			}
			d.Ack(false)
		}
	}
}

// Close releases the channel and connection.
func (c *RabbitMQConsumer) Close() error {
	c.channel.Close()
	return c.conn.Close()
}
