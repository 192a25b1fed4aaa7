package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oikia/backend-go/internal/database/repository"
)

// Consumer drains the intent queue and marks the stored rows processed. It
// runs a reconnect loop with backoff until its context is cancelled.
type Consumer struct {
	url        string
	intentRepo repository.IntentRepository
	logger     *slog.Logger
}

// NewConsumer creates a new consumer instance
func NewConsumer(url string, intentRepo repository.IntentRepository, logger *slog.Logger) *Consumer {
	return &Consumer{url: url, intentRepo: intentRepo, logger: logger}
}

// Run consumes until ctx is cancelled. Connection failures are retried with
// exponential backoff capped at 30 seconds.
func (c *Consumer) Run(ctx context.Context) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Warn("⚠️ [Queue] Consumer dial failed, retrying...", "error", err, "retry_in", backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := c.consumeLoop(ctx, conn); err != nil {
			c.logger.Warn("⚠️ [Queue] Consume loop ended, reconnecting...", "error", err)
		}
		_ = conn.Close()
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.logger.Warn("⚠️ [Queue] Set QoS failed", "error", err)
	}

	if _, err := ch.QueueDeclare(IntentQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(IntentQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	c.logger.Info("📥 [Queue] Intent consumer running", "queue", IntentQueueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			if err := c.handleMessage(d.Body); err != nil {
				c.logger.Warn("⚠️ [Queue] Handle message failed", "error", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(body []byte) error {
	var event IntentCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	id, err := uuid.Parse(event.ID)
	if err != nil {
		return fmt.Errorf("parse intent id: %w", err)
	}

	if err := c.intentRepo.MarkProcessed(id); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}

	c.logger.Info("✅ [Queue] Intent processed", "intent_id", event.ID)
	return nil
}
