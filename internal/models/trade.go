package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade side constants
const (
	TradeSideBuy  = "BUY"
	TradeSideSell = "SELL"
)

// Trade status constants
const (
	TradeStatusSimulated = "SIMULATED"
	TradeStatusSubmitted = "SUBMITTED"
	TradeStatusFilled    = "FILLED"
)

// TradingAccount is a linked brokerage/exchange account used for
// full-automatic execution.
type TradingAccount struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	Provider  string          `json:"provider"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Trade is a (simulated) order created by full-automatic signal
// execution or by a human approving a semi-automatic signal.
type Trade struct {
	ID         int             `json:"id"`
	SignalID   int             `json:"signal_id"`
	AccountID  int             `json:"account_id"`
	Symbol     string          `json:"symbol"`
	Side       string          `json:"side"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	ExecutedAt time.Time       `json:"executed_at"`
	CreatedAt  time.Time       `json:"created_at"`
}
