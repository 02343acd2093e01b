package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// defaultTradeFraction sizes a trade at 2% of the linked account's
// balance when no max trade amount is configured.
var defaultTradeFraction = decimal.NewFromFloat(0.02)

// automate routes a freshly persisted signal through the strategy's
// automation preference. All failure paths leave an audit trail on the
// signal; none of them abort the surrounding batch.
func (m *Manager) automate(ctx context.Context, s *models.Strategy, signal *models.TradingSignal) {
	pref, err := m.store.GetAutomationPreference(s.UserID, s.ID)
	if err != nil {
		m.logger.Warn().Err(err).Int("strategy_id", s.ID).Msg("automation preference lookup failed")
		return
	}
	if pref == nil {
		// No preference configured: surface the signal in-app only.
		pref = &models.AutomationPreference{
			UserID:     s.UserID,
			StrategyID: s.ID,
			Level:      models.AutomationNotification,
			Channels:   []string{models.ChannelInApp},
		}
	}

	if pref.MinSignalStrength != nil && signal.Strength.Score() < pref.MinSignalStrength.Score() {
		m.logger.Info().
			Int("signal_id", signal.ID).
			Str("strength", string(signal.Strength)).
			Str("min_strength", string(*pref.MinSignalStrength)).
			Msg("signal below minimum strength, leaving pending")
		return
	}

	switch pref.Level {
	case models.AutomationNotification:
		m.notifyChannels(ctx, pref, signal, "Trading signal",
			fmt.Sprintf("%s signal (%s) for %s: %s", signal.Action, signal.Strength, signal.Symbol, signal.Notes))
		m.transition(ctx, signal, models.SignalStatusNotified, "")

	case models.AutomationSemiAuto:
		m.transition(ctx, signal, models.SignalStatusAwaitingApproval, "")
		m.notifyChannels(ctx, pref, signal, "Signal awaiting approval",
			fmt.Sprintf("%s signal (%s) for %s requires your approval", signal.Action, signal.Strength, signal.Symbol))

	case models.AutomationFullAuto:
		if err := m.executeTrade(ctx, s, pref, signal); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				m.logger.Warn().Err(err).Int("signal_id", signal.ID).
					Msg("invalid automation configuration, skipping automation")
				return
			}
			m.markError(ctx, signal, err)
		}

	default:
		m.logger.Warn().Str("level", pref.Level).Int("strategy_id", s.ID).
			Msg("unknown automation level, leaving signal pending")
	}
}

// notifyChannels dispatches the signal on every configured channel.
// Delivery failures are logged, never propagated.
func (m *Manager) notifyChannels(ctx context.Context, pref *models.AutomationPreference, signal *models.TradingSignal, subject, body string) {
	if m.notifier == nil {
		return
	}
	for _, channel := range pref.Channels {
		n := models.NotificationEvent{
			EventType: "SIGNAL_NOTIFICATION",
			Channel:   channel,
			UserID:    signal.UserID,
			SignalID:  signal.ID,
			Symbol:    signal.Symbol,
			Subject:   subject,
			Body:      body,
			Timestamp: m.now(),
		}
		if err := m.notifier.Dispatch(ctx, n); err != nil {
			m.logger.Warn().Err(err).
				Str("channel", channel).
				Int("signal_id", signal.ID).
				Msg("notification dispatch failed")
		}
	}
}

// executeTrade performs full-automatic (or approved semi-automatic)
// execution: sizes the trade, fetches the current price, records a
// simulated trade, and marks the signal executed.
func (m *Manager) executeTrade(ctx context.Context, s *models.Strategy, pref *models.AutomationPreference, signal *models.TradingSignal) error {
	if s.AccountID == nil {
		return &ValidationError{Msg: fmt.Sprintf("strategy %d has no linked trading account", s.ID)}
	}
	account, err := m.store.GetTradingAccount(*s.AccountID)
	if err != nil {
		return fmt.Errorf("failed to load trading account %d: %w", *s.AccountID, err)
	}
	if account == nil {
		return &ValidationError{Msg: fmt.Sprintf("trading account %d not found", *s.AccountID)}
	}

	amount := account.Balance.Mul(defaultTradeFraction)
	if pref != nil && pref.MaxTradeAmount != nil && pref.MaxTradeAmount.LessThan(amount) {
		amount = *pref.MaxTradeAmount
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Msg: fmt.Sprintf("computed trade amount %s is not positive", amount)}
	}

	execCtx, cancel := context.WithTimeout(ctx, m.cfg.ExecuteTimeout)
	defer cancel()

	price, err := m.market.GetCurrentPrice(execCtx, signal.Symbol)
	if err != nil {
		return fmt.Errorf("failed to fetch current price for %s: %w", signal.Symbol, err)
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("invalid current price %s for %s", price, signal.Symbol)
	}

	side := models.TradeSideBuy
	if signal.Action == models.ActionSell {
		side = models.TradeSideSell
	}

	trade := &models.Trade{
		SignalID:   signal.ID,
		AccountID:  account.ID,
		Symbol:     signal.Symbol,
		Side:       side,
		Quantity:   amount.Div(price),
		Price:      price,
		Amount:     amount,
		Status:     models.TradeStatusSimulated,
		ExecutedAt: m.now(),
	}
	if err := m.store.CreateTrade(trade); err != nil {
		return fmt.Errorf("failed to record trade: %w", err)
	}

	note := fmt.Sprintf("executed %s %s %s @ %s", side, trade.Quantity.StringFixed(8), signal.Symbol, price)
	m.transition(ctx, signal, models.SignalStatusExecuted, note)
	m.publishEvent(ctx, models.EventSignalExecuted, signal)

	m.logger.Info().
		Int("signal_id", signal.ID).
		Int("trade_id", trade.ID).
		Str("side", side).
		Str("amount", amount.String()).
		Msg("trade executed")
	return nil
}

// transition moves a signal to a new status, appending a note when one
// is given. Persistence failures are logged; the in-memory signal still
// reflects the intended state for the caller.
func (m *Manager) transition(ctx context.Context, signal *models.TradingSignal, status, note string) {
	if err := m.store.UpdateTradingSignalStatus(signal.ID, status, note); err != nil {
		m.logger.Error().Err(err).
			Int("signal_id", signal.ID).
			Str("status", status).
			Msg("failed to update signal status")
		return
	}
	signal.Status = status
	if note != "" {
		if signal.Notes != "" {
			signal.Notes += "; "
		}
		signal.Notes += note
	}
	now := m.now()
	signal.UpdatedAt = now
	if status == models.SignalStatusExecuted {
		signal.ExecutedAt = &now
	}
}

// markError records an automation failure on the signal itself so the
// audit trail explains what happened. The batch continues.
func (m *Manager) markError(ctx context.Context, signal *models.TradingSignal, cause error) {
	m.logger.Error().Err(cause).Int("signal_id", signal.ID).Msg("automation failed")
	m.transition(ctx, signal, models.SignalStatusError, fmt.Sprintf("automation error: %v", cause))
	m.publishEvent(ctx, models.EventSignalError, signal)
}
