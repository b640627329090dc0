package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends confirmation events to RabbitMQ.
type Publisher interface {
	PublishConfirmed(ctx context.Context, ev ReservationConfirmedEvent) error
}

// NewPublisher returns a broker publisher for url, or a no-op publisher
// when url is empty.
func NewPublisher(url string) Publisher {
	if url == "" {
		return NopPublisher{}
	}
	return &AMQPPublisher{url: url}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishConfirmed(context.Context, ReservationConfirmedEvent) error { return nil }

// AMQPPublisher opens a connection per event. Confirmations are rare, so
// no connection is kept open between them.
type AMQPPublisher struct {
	url string
}

// PublishConfirmed publishes ev as a persistent message on ConfirmedQueue,
// declaring the queue first.
func (p *AMQPPublisher) PublishConfirmed(ctx context.Context, ev ReservationConfirmedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(ConfirmedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", ConfirmedQueue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
