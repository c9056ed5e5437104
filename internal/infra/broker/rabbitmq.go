package broker

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/BruksfildServices01/booking-api/internal/events"
)

// RabbitPublisher fans notifications out to a durable queue for delivery
// workers (mail, push).
type RabbitPublisher struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	queue   string
	timeout time.Duration
}

func NewRabbitPublisher(url, queue string, timeout time.Duration) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &RabbitPublisher{conn: conn, ch: ch, queue: queue, timeout: timeout}, nil
}

func (p *RabbitPublisher) PublishNotification(ctx context.Context, msg events.NotificationMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         msg.Type,
			Timestamp:    time.Now().UTC(),
			Body:         b,
		},
	)
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

var _ events.NotificationPublisher = (*RabbitPublisher)(nil)
