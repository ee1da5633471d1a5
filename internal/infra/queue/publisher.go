// Package queue publishes booking lifecycle events to RabbitMQ. Events are
// written to the booking_events table in the same transaction as the booking
// change; the relay drains that table and hands each row to the publisher.
package queue

import (
	"context"
	"encoding/json"
	"time"

	"smart-parking/internal/pkg/config"
	"smart-parking/internal/pkg/errs"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// BookingEvent is the wire shape published to the booking events queue.
// Consumers dedupe on EventID since delivery is at-least-once.
type BookingEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	SpotID     uuid.UUID `json:"spot_id"`
	UserID     uuid.UUID `json:"user_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
}

// NewPublisher dials the broker and declares the durable event queue.
func NewPublisher(cfg config.AMQPConfig) (*Publisher, func(), error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to dial broker")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() //nolint:errcheck
		return nil, nil, errs.Wrap(err, "failed to open channel")
	}

	if _, err := ch.QueueDeclare(
		cfg.Queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		ch.Close()   //nolint:errcheck
		conn.Close() //nolint:errcheck
		return nil, nil, errs.Wrap(err, "failed to declare queue")
	}

	p := &Publisher{conn: conn, channel: ch, queueName: cfg.Queue}
	cleanup := func() {
		p.channel.Close() //nolint:errcheck
		p.conn.Close()    //nolint:errcheck
	}
	return p, cleanup, nil
}

// Publish sends one event as a persistent message on the default exchange.
func (p *Publisher) Publish(ctx context.Context, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "failed to marshal event")
	}

	if err := p.channel.PublishWithContext(ctx,
		"",          // default exchange
		p.queueName, // routing key = queue name
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID.String(),
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	); err != nil {
		return errs.Wrap(err, "failed to publish event")
	}
	return nil
}
