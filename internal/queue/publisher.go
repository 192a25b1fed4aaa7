package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher emits intent events to RabbitMQ. Publish failures are logged and
// returned so callers can ignore them without interrupting the request flow.
type Publisher struct {
	url    string
	logger *slog.Logger
}

// NewPublisher creates a new publisher instance
func NewPublisher(url string, logger *slog.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// PublishIntentCreated publishes an IntentCreatedEvent to the intent queue.
// Messages are marked persistent.
func (p *Publisher) PublishIntentCreated(ctx context.Context, event IntentCreatedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn("⚠️ [Queue] Broker dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn("⚠️ [Queue] Channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(IntentQueueName, true, false, false, false, nil); err != nil {
		p.logger.Warn("⚠️ [Queue] Queue declare failed", "error", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, "", IntentQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		p.logger.Warn("⚠️ [Queue] Publish failed", "error", err)
		return err
	}

	p.logger.Debug("📤 [Queue] Intent event published", "intent_id", event.ID)
	return nil
}
