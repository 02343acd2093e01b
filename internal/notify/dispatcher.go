// Package notify delivers signal notifications per channel. Delivery
// itself is external: the Kafka dispatcher hands events to downstream
// delivery workers (email/SMS/push senders, the in-app feed); the log
// dispatcher is for development and tests.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// KafkaDispatcher publishes notification events keyed by user so one
// user's notifications stay ordered.
type KafkaDispatcher struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// NewKafkaDispatcher creates a dispatcher writing to the given topic.
func NewKafkaDispatcher(brokers []string, topic string) *KafkaDispatcher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KafkaDispatcher{
		writer: writer,
		logger: log.With().Str("component", "notify_dispatcher").Logger(),
	}
}

// Dispatch publishes one notification event.
func (d *KafkaDispatcher) Dispatch(ctx context.Context, n models.NotificationEvent) error {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("user-%d", n.UserID)),
		Value: data,
	}
	if err := d.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	d.logger.Debug().
		Str("channel", n.Channel).
		Int("user_id", n.UserID).
		Int("signal_id", n.SignalID).
		Msg("notification dispatched")
	return nil
}

// Close closes the underlying writer.
func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}

// LogDispatcher logs notifications instead of delivering them.
type LogDispatcher struct {
	logger zerolog.Logger
}

// NewLogDispatcher creates a log-only dispatcher.
func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{logger: log.With().Str("component", "notify_log").Logger()}
}

// Dispatch logs the notification.
func (d *LogDispatcher) Dispatch(ctx context.Context, n models.NotificationEvent) error {
	d.logger.Info().
		Str("channel", n.Channel).
		Int("user_id", n.UserID).
		Int("signal_id", n.SignalID).
		Str("subject", n.Subject).
		Msg(n.Body)
	return nil
}
