package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/autofin/credit-engine/internal/domain/event"
)

// KafkaEventPublisher implements port.EventPublisher by writing JSON-encoded
// domain events to a Kafka topic, keyed by aggregate id so every event for an
// application lands on the same partition.
type KafkaEventPublisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewKafkaEventPublisher creates a publisher targeting the given brokers and topic.
func NewKafkaEventPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		writer: &kafkago.Writer{
			Addr:     kafkago.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkago.Hash{},
		},
		logger: logger,
	}
}

// Publish serialises and sends domain events in a single batch.
func (p *KafkaEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafkago.Message, 0, len(events))
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}
		messages = append(messages, kafkago.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: []kafkago.Header{
				{Key: "event_type", Value: []byte(evt.EventType())},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("publish %d events: %w", len(messages), err)
	}

	p.logger.Debug("published domain events",
		"count", len(messages),
		"topic", p.writer.Topic,
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}
