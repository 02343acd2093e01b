package models

import "time"

// SignalAction is the directional action a signal recommends.
type SignalAction string

const (
	ActionBuy  SignalAction = "buy"
	ActionSell SignalAction = "sell"
	ActionHold SignalAction = "hold"
)

// SignalStrength is a discretized confidence bucket derived from a
// continuous 0-1 score.
type SignalStrength string

const (
	StrengthWeak       SignalStrength = "weak"
	StrengthModerate   SignalStrength = "moderate"
	StrengthStrong     SignalStrength = "strong"
	StrengthVeryStrong SignalStrength = "very_strong"
)

// StrengthFromScore maps a 0-1 score to a strength bucket. This is the
// single place the breakpoints live; nothing else re-derives them.
func StrengthFromScore(score float64) SignalStrength {
	switch {
	case score >= 0.9:
		return StrengthVeryStrong
	case score >= 0.75:
		return StrengthStrong
	case score >= 0.6:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// Score converts a strength bucket back to its representative 0-1
// score, used when comparing against a configured minimum strength.
func (s SignalStrength) Score() float64 {
	switch s {
	case StrengthVeryStrong:
		return 0.9
	case StrengthStrong:
		return 0.75
	case StrengthModerate:
		return 0.6
	default:
		return 0.4
	}
}

// Valid reports whether the strength is one of the known buckets.
func (s SignalStrength) Valid() bool {
	switch s {
	case StrengthWeak, StrengthModerate, StrengthStrong, StrengthVeryStrong:
		return true
	}
	return false
}

// TradingSignal lifecycle status constants. Status only moves forward:
// pending -> notified | awaiting_approval -> executed | error. A signal
// never returns to pending.
const (
	SignalStatusPending          = "pending"
	SignalStatusNotified         = "notified"
	SignalStatusAwaitingApproval = "awaiting_approval"
	SignalStatusExecuted         = "executed"
	SignalStatusError            = "error"
)

// signalStatusRank orders statuses along the lifecycle so transitions
// can be validated in one place.
var signalStatusRank = map[string]int{
	SignalStatusPending:          0,
	SignalStatusNotified:         1,
	SignalStatusAwaitingApproval: 1,
	SignalStatusExecuted:         2,
	SignalStatusError:            2,
}

// ValidStatusTransition reports whether moving from one signal status
// to another respects the monotonic lifecycle.
func ValidStatusTransition(from, to string) bool {
	fromRank, ok := signalStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := signalStatusRank[to]
	if !ok {
		return false
	}
	if from == to {
		return false
	}
	return toRank > fromRank
}

// SignalResult is the output of one strategy evaluation. A hold result
// is never persisted; the evaluator returns nil instead.
type SignalResult struct {
	Symbol       string             `json:"symbol"`
	StrategyID   int                `json:"strategy_id"`
	UserID       int                `json:"user_id"`
	Action       SignalAction       `json:"action"`
	Strength     SignalStrength     `json:"strength"`
	Score        float64            `json:"score"`
	Indicators   map[string]float64 `json:"indicators,omitempty"`
	SentimentIDs []int              `json:"sentiment_ids,omitempty"`
	NewsIDs      []int              `json:"news_ids,omitempty"`
	Notes        string             `json:"notes,omitempty"`
}

// TradingSignal is a persisted SignalResult plus lifecycle state.
// Retained indefinitely as an audit trail.
type TradingSignal struct {
	ID           int                `json:"id"`
	UserID       int                `json:"user_id"`
	StrategyID   int                `json:"strategy_id"`
	Symbol       string             `json:"symbol"`
	Action       SignalAction       `json:"action"`
	Strength     SignalStrength     `json:"strength"`
	Score        float64            `json:"score"`
	Status       string             `json:"status"`
	Indicators   map[string]float64 `json:"indicators,omitempty"`
	SentimentIDs []int              `json:"sentiment_ids,omitempty"`
	NewsIDs      []int              `json:"news_ids,omitempty"`
	Notes        string             `json:"notes,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	ExecutedAt   *time.Time         `json:"executed_at,omitempty"`
}
