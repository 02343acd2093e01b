package models

import "time"

// Crossover evaluation modes for moving-average and MACD conditions.
// StateBased fires while the condition holds (fast above slow on the
// current bar); EdgeTriggered fires only on the bar where the relation
// flipped. StateBased matches the original dashboard behavior and is
// the default.
const (
	CrossoverStateBased    = "state"
	CrossoverEdgeTriggered = "edge"
)

// Rule group operators for entry/exit condition trees.
const (
	RuleOperatorAnd = "and"
	RuleOperatorOr  = "or"
)

// Condition names usable inside entry/exit rule groups. Each maps to a
// classification the evaluator derives from the latest indicator point.
const (
	ConditionRSIOversold    = "rsi_oversold"
	ConditionRSIOverbought  = "rsi_overbought"
	ConditionMACDBullish    = "macd_bullish"
	ConditionMACDBearish    = "macd_bearish"
	ConditionMABullish      = "ma_bullish"
	ConditionMABearish      = "ma_bearish"
	ConditionPriceBelowBand = "price_below_band"
	ConditionPriceAboveBand = "price_above_band"
	ConditionVolumeSpike    = "volume_spike"
)

// RuleGroup is a boolean expression tree over condition names.
type RuleGroup struct {
	Operator   string      `json:"operator"`
	Conditions []string    `json:"conditions,omitempty"`
	Groups     []RuleGroup `json:"groups,omitempty"`
}

// RSISettings configures the RSI indicator for a strategy.
type RSISettings struct {
	Enabled    bool    `json:"enabled"`
	Period     int     `json:"period"`
	Overbought float64 `json:"overbought"`
	Oversold   float64 `json:"oversold"`
}

// MACDSettings configures the MACD indicator for a strategy.
type MACDSettings struct {
	Enabled      bool `json:"enabled"`
	FastPeriod   int  `json:"fast_period"`
	SlowPeriod   int  `json:"slow_period"`
	SignalPeriod int  `json:"signal_period"`
}

// MASettings configures the moving-average crossover pair.
type MASettings struct {
	Enabled    bool `json:"enabled"`
	FastPeriod int  `json:"fast_period"`
	SlowPeriod int  `json:"slow_period"`
}

// BollingerSettings configures Bollinger Bands.
type BollingerSettings struct {
	Enabled    bool    `json:"enabled"`
	Period     int     `json:"period"`
	Deviations float64 `json:"deviations"`
}

// VolumeSettings configures the volume spike confirmation signal.
type VolumeSettings struct {
	Enabled        bool    `json:"enabled"`
	Period         int     `json:"period"`
	SpikeThreshold float64 `json:"spike_threshold"`
}

// IndicatorSettings groups the per-indicator configuration of a
// strategy. Disabled indicators contribute nothing to evaluation.
type IndicatorSettings struct {
	RSI       RSISettings       `json:"rsi"`
	MACD      MACDSettings      `json:"macd"`
	MA        MASettings        `json:"ma"`
	Bollinger BollingerSettings `json:"bollinger"`
	Volume    VolumeSettings    `json:"volume"`
}

// DefaultIndicatorSettings returns the standard parameterization with
// every indicator enabled.
func DefaultIndicatorSettings() IndicatorSettings {
	return IndicatorSettings{
		RSI:       RSISettings{Enabled: true, Period: 14, Overbought: 70, Oversold: 30},
		MACD:      MACDSettings{Enabled: true, FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9},
		MA:        MASettings{Enabled: true, FastPeriod: 20, SlowPeriod: 50},
		Bollinger: BollingerSettings{Enabled: true, Period: 20, Deviations: 2},
		Volume:    VolumeSettings{Enabled: true, Period: 20, SpikeThreshold: 1.5},
	}
}

// Strategy is a user-owned trading strategy. The engine only reads it;
// all mutation happens through the CRUD surface.
type Strategy struct {
	ID            int               `json:"id"`
	UserID        int               `json:"user_id"`
	Name          string            `json:"name"`
	Symbol        string            `json:"symbol"`
	Interval      string            `json:"interval"`
	Active        bool              `json:"active"`
	AccountID     *int              `json:"account_id,omitempty"`
	Indicators    IndicatorSettings `json:"indicators"`
	EntryRules    *RuleGroup        `json:"entry_rules,omitempty"`
	ExitRules     *RuleGroup        `json:"exit_rules,omitempty"`
	StopLossPct   *float64          `json:"stop_loss_pct,omitempty"`
	TakeProfitPct *float64          `json:"take_profit_pct,omitempty"`
	RiskPerTrade  *float64          `json:"risk_per_trade,omitempty"`
	CrossoverMode string            `json:"crossover_mode,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// EdgeTriggered reports whether crossover conditions should only fire
// on the bar where the relation changed.
func (s *Strategy) EdgeTriggered() bool {
	return s.CrossoverMode == CrossoverEdgeTriggered
}
