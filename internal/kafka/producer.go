// Package kafka connects the engine to the event bus: a producer for
// signal lifecycle events and a consumer that turns run-request events
// into strategy evaluations.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// Producer publishes signal lifecycle events.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a producer for the given topic.
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishSignalEvent publishes one lifecycle event, keyed by symbol so
// a symbol's events stay ordered.
func (p *Producer) PublishSignalEvent(ctx context.Context, eventType string, signal *models.TradingSignal) error {
	event := models.SignalEvent{
		EventType: eventType,
		Symbol:    signal.Symbol,
		Signal:    signal,
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal signal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(signal.Symbol),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write signal event to kafka: %w", err)
	}
	return nil
}

// Close closes the producer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
