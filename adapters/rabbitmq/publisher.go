// Package rabbitmq publishes request lifecycle events on a fanout
// exchange so downstream consumers (notifications, analytics) can react
// without the backend knowing about them.
package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/streadway/amqp"

	"soundwell/domain/request"
	"soundwell/internal/errors"
	"soundwell/ports"
)

// EventPublisher implements ports.EventPublisher over one AMQP channel.
type EventPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewEventPublisher connects to the broker and declares the durable
// fanout exchange once up front.
func NewEventPublisher(amqpURL, exchange string) (*EventPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, errors.ExternalServiceError("amqp", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.ExternalServiceError("amqp", err)
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, errors.ExternalServiceError("amqp", err)
	}
	return &EventPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish emits one lifecycle event as JSON. The routing key stays empty
// on a fanout exchange; the event name travels in the body and headers.
func (p *EventPublisher) Publish(ctx context.Context, event request.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to encode event")
	}

	err = p.channel.Publish(p.exchange, "", false, false, amqp.Publishing{
		ContentType:   "application/json",
		Type:          event.Name,
		CorrelationId: event.CorrelationID,
		Timestamp:     event.OccurredAt,
		Body:          body,
	})
	if err != nil {
		return errors.ExternalServiceError("amqp", err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *EventPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

var _ ports.EventPublisher = (*EventPublisher)(nil)
