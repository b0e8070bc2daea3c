package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// QueuePublisher is the part of the RabbitMQ client the AMQP publisher needs.
type QueuePublisher interface {
	Publish(body []byte) error
}

// AMQPPublisher sends events to a RabbitMQ queue.
type AMQPPublisher struct {
	client QueuePublisher
}

// NewAMQPPublisher wraps a RabbitMQ client.
func NewAMQPPublisher(client QueuePublisher) *AMQPPublisher {
	return &AMQPPublisher{client: client}
}

// Publish implements Publisher.
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.client.Publish(body); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}
