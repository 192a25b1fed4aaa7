// Package queue publishes and consumes intent events over RabbitMQ.
package queue

import "time"

// IntentQueueName is the durable queue intent events travel on.
const IntentQueueName = "intent.created"

// IntentCreatedEvent is emitted when an intent row is stored.
type IntentCreatedEvent struct {
	ID        string    `json:"id"`
	RawInput  string    `json:"raw_input"`
	CreatedAt time.Time `json:"created_at"`
}
