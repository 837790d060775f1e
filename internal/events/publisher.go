// Package events publishes mutation events for downstream consumers, most
// notably the notification delivery pipeline that honors the per-user
// notifications flag. Delivery is best-effort: a failed publish is logged by
// the caller, never blocks the mutation it describes.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Event types emitted by the service layer.
const (
	TransactionCreated  = "transaction.created"
	TransactionDeleted  = "transaction.deleted"
	SubscriptionCreated = "subscription.created"
	SubscriptionDeleted = "subscription.deleted"
	ExportCompleted     = "export.completed"
)

// Event is one mutation notification.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	EntityID   string    `json:"entity_id,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher sends events somewhere. Implementations must be safe for use
// from concurrent request handlers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

const queueName = "finflow_events"

// RabbitMQPublisher publishes events to a durable RabbitMQ queue.
type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

// NewRabbitMQPublisher dials the broker and declares the events queue.
func NewRabbitMQPublisher(url string) (*RabbitMQPublisher, error) {
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

	return &RabbitMQPublisher{conn: conn, channel: ch, queue: queue}, nil
}

// Publish sends the event as JSON to the queue.
func (p *RabbitMQPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal: %w", err)
	}

	err = p.channel.Publish("", p.queue.Name, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("events: publish %s: %w", event.Type, err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	p.channel.Close()
	return p.conn.Close()
}

// NoopPublisher discards events. Used when no broker is configured and in
// tests.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) error { return nil }
func (NoopPublisher) Close() error                                   { return nil }

var (
	_ Publisher = (*RabbitMQPublisher)(nil)
	_ Publisher = NoopPublisher{}
)
