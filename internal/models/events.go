package models

import "time"

// Signal event types published to Kafka as signals move through their
// lifecycle.
const (
	EventSignalCreated  = "SIGNAL_CREATED"
	EventSignalExecuted = "SIGNAL_EXECUTED"
	EventSignalError    = "SIGNAL_ERROR"
)

// SignalEvent is the Kafka payload for signal lifecycle events.
type SignalEvent struct {
	EventType string         `json:"event_type"`
	Symbol    string         `json:"symbol"`
	Signal    *TradingSignal `json:"signal,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// RunRequestEvent asks the engine to evaluate strategies. StrategyID
// zero means all active strategies for the user.
type RunRequestEvent struct {
	EventType  string    `json:"event_type"`
	UserID     int       `json:"user_id"`
	StrategyID int       `json:"strategy_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// RunRequested is the event type the run-request consumer reacts to.
const RunRequested = "RUN_REQUESTED"

// NotificationEvent is published per channel when a signal needs to be
// surfaced to the user. Delivery workers consume these downstream.
type NotificationEvent struct {
	EventType string    `json:"event_type"`
	Channel   string    `json:"channel"`
	UserID    int       `json:"user_id"`
	SignalID  int       `json:"signal_id"`
	Symbol    string    `json:"symbol"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}
