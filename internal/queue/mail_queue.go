package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"gymcore/internal/services"
)

// RabbitMailQueue moves mail messages through a durable RabbitMQ queue so
// SMTP latency and outages never block request handling.
type RabbitMailQueue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func NewRabbitMailQueue(url, queueName string) (*RabbitMailQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %v", err)
	}

	_, err = channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %v", queueName, err)
	}

	return &RabbitMailQueue{conn: conn, channel: channel, queue: queueName}, nil
}

func (q *RabbitMailQueue) Publish(ctx context.Context, msg services.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal mail message: %v", err)
	}

	return q.channel.PublishWithContext(ctx, "", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Consume delivers queued messages to the handler until the context ends.
// Messages that fail to decode are dropped with a log line; delivery
// failures are logged and the message is acked anyway, mail is best-effort.
func (q *RabbitMailQueue) Consume(ctx context.Context, handler func(services.MailMessage) error) error {
	deliveries, err := q.channel.Consume(q.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %v", q.queue, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				var msg services.MailMessage
				if err := json.Unmarshal(d.Body, &msg); err != nil {
					log.Printf("Dropping undecodable mail message: %v", err)
					d.Ack(false)
					continue
				}
				if err := handler(msg); err != nil {
					log.Printf("Mail delivery failed for %s: %v", msg.To, err)
				}
				d.Ack(false)
			}
		}
	}()
	return nil
}

func (q *RabbitMailQueue) Close() {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
}
