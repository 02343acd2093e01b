package kafka

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

// StrategyRunner is the slice of the strategy manager the consumer
// needs.
type StrategyRunner interface {
	RunUserStrategies(ctx context.Context, userID int) ([]*models.TradingSignal, error)
	RunStrategyByID(ctx context.Context, strategyID int) ([]*models.TradingSignal, error)
}

// Consumer reads run-request events and triggers strategy evaluation.
// Callers are responsible for not requesting concurrent runs of the
// same strategy; the consumer processes messages sequentially.
type Consumer struct {
	reader *kafka.Reader
	runner StrategyRunner
	logger zerolog.Logger
}

// NewConsumer creates a consumer for run-request events.
func NewConsumer(brokers []string, topic, groupID string, runner StrategyRunner) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})
	return &Consumer{
		reader: reader,
		runner: runner,
		logger: log.With().Str("component", "run_consumer").Logger(),
	}
}

// Start consumes messages until the context is cancelled. Per-message
// errors are logged and the next message is processed.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().Str("topic", c.reader.Config().Topic).Msg("starting run-request consumer")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("run-request consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Error().Err(err).Msg("error reading message")
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				c.logger.Error().Err(err).
					Int("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Msg("error processing run request")
			}
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var event models.RunRequestEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal run request: %w", err)
	}

	if event.EventType != models.RunRequested {
		c.logger.Debug().Str("event_type", event.EventType).Msg("ignoring event type")
		return nil
	}

	if event.StrategyID > 0 {
		signals, err := c.runner.RunStrategyByID(ctx, event.StrategyID)
		if err != nil {
			return fmt.Errorf("failed to run strategy %d: %w", event.StrategyID, err)
		}
		c.logger.Info().Int("strategy_id", event.StrategyID).Int("signals", len(signals)).
			Msg("strategy run complete")
		return nil
	}

	signals, err := c.runner.RunUserStrategies(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to run strategies for user %d: %w", event.UserID, err)
	}
	c.logger.Info().Int("user_id", event.UserID).Int("signals", len(signals)).
		Msg("user strategies run complete")
	return nil
}
