package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Automation level constants
const (
	AutomationNotification = "notification"
	AutomationSemiAuto     = "semi_auto"
	AutomationFullAuto     = "full_auto"
)

// Notification channel constants
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
	ChannelInApp = "in_app"
)

// AutomationPreference controls what happens to a generated signal for
// one strategy. Read-only input to the strategy manager.
type AutomationPreference struct {
	ID                int              `json:"id"`
	UserID            int              `json:"user_id"`
	StrategyID        int              `json:"strategy_id"`
	Level             string           `json:"level"`
	MinSignalStrength *SignalStrength  `json:"min_signal_strength,omitempty"`
	MaxTradeAmount    *decimal.Decimal `json:"max_trade_amount,omitempty"`
	Channels          []string         `json:"channels"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
