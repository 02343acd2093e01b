// Package strategy orchestrates signal generation: it fetches market
// data, runs the evaluator for each of a user's strategies, persists
// resulting signals, and routes them through the configured automation
// level. Collaborators are constructor-injected interfaces so the
// manager is testable without real infrastructure.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/scarramanga/stackmotive-signal-engine/internal/evaluator"
	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// MarketDataProvider supplies candle history and current prices.
type MarketDataProvider interface {
	GetHistoricalData(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error)
	GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// Store is the persistence collaborator the manager needs.
type Store interface {
	GetActiveStrategies(userID int) ([]*models.Strategy, error)
	GetStrategyByID(id int) (*models.Strategy, error)
	CreateTradingSignal(s *models.TradingSignal) error
	UpdateTradingSignalStatus(id int, status, notes string) error
	GetTradingSignalByID(id int) (*models.TradingSignal, error)
	GetAutomationPreference(userID, strategyID int) (*models.AutomationPreference, error)
	GetTradingAccount(id int) (*models.TradingAccount, error)
	CreateTrade(t *models.Trade) error
	GetRecentSentiment(symbol string, since time.Time) ([]models.SentimentAnalysis, error)
	GetRecentNews(symbol string, since time.Time) ([]models.NewsArticle, error)
}

// Dispatcher delivers a notification on one channel. Fire-and-forget:
// the manager logs failures and moves on.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.NotificationEvent) error
}

// EventPublisher emits signal lifecycle events to the event bus.
type EventPublisher interface {
	PublishSignalEvent(ctx context.Context, eventType string, signal *models.TradingSignal) error
}

// ValidationError marks an invalid automation configuration, e.g. a
// full-automatic strategy without a linked account. Automation is
// skipped for the signal; the signal itself stays persisted.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Config tunes the manager's defaults.
type Config struct {
	HistoryBars     int           // candles fetched per evaluation
	Interval        string        // candle interval when the strategy has none
	FetchTimeout    time.Duration // bound on market data calls
	ExecuteTimeout  time.Duration // bound on trade execution
	SentimentWindow time.Duration // recency window for sentiment/news
}

// DefaultConfig matches the reference behavior: 100 daily bars.
func DefaultConfig() Config {
	return Config{
		HistoryBars:     100,
		Interval:        models.Interval1Day,
		FetchTimeout:    15 * time.Second,
		ExecuteTimeout:  15 * time.Second,
		SentimentWindow: 24 * time.Hour,
	}
}

// Manager runs strategies and acts on their signals.
type Manager struct {
	cfg       Config
	market    MarketDataProvider
	store     Store
	evaluator *evaluator.Evaluator
	notifier  Dispatcher
	events    EventPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewManager wires a manager from its collaborators. events may be nil
// when no event bus is configured.
func NewManager(cfg Config, market MarketDataProvider, store Store, eval *evaluator.Evaluator, notifier Dispatcher, events EventPublisher) *Manager {
	if cfg.HistoryBars <= 0 {
		cfg.HistoryBars = 100
	}
	if cfg.Interval == "" {
		cfg.Interval = models.Interval1Day
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	if cfg.ExecuteTimeout <= 0 {
		cfg.ExecuteTimeout = 15 * time.Second
	}
	if cfg.SentimentWindow <= 0 {
		cfg.SentimentWindow = 24 * time.Hour
	}
	return &Manager{
		cfg:       cfg,
		market:    market,
		store:     store,
		evaluator: eval,
		notifier:  notifier,
		events:    events,
		logger:    log.With().Str("component", "strategy_manager").Logger(),
		now:       time.Now,
	}
}

// RunUserStrategies evaluates every active strategy belonging to the
// user. One strategy's failure never blocks the others; errors are
// logged and the batch continues.
func (m *Manager) RunUserStrategies(ctx context.Context, userID int) ([]*models.TradingSignal, error) {
	strategies, err := m.store.GetActiveStrategies(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load strategies for user %d: %w", userID, err)
	}

	var signals []*models.TradingSignal
	for _, s := range strategies {
		result, err := m.RunStrategy(ctx, s)
		if err != nil {
			m.logger.Error().Err(err).
				Int("strategy_id", s.ID).
				Str("symbol", s.Symbol).
				Msg("strategy run failed, continuing batch")
			continue
		}
		signals = append(signals, result...)
	}
	return signals, nil
}

// RunStrategy evaluates a single strategy and routes any resulting
// signal through automation. Inactive strategies and strategies with
// no symbol return an empty result without touching market data.
func (m *Manager) RunStrategy(ctx context.Context, s *models.Strategy) ([]*models.TradingSignal, error) {
	if !s.Active || s.Symbol == "" {
		return nil, nil
	}

	interval := s.Interval
	if interval == "" {
		interval = m.cfg.Interval
	}

	fetchCtx, cancel := context.WithTimeout(ctx, m.cfg.FetchTimeout)
	candles, err := m.market.GetHistoricalData(fetchCtx, s.Symbol, interval, m.cfg.HistoryBars)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market data for %s: %w", s.Symbol, err)
	}

	since := m.now().Add(-m.cfg.SentimentWindow)
	sentiment, err := m.store.GetRecentSentiment(s.Symbol, since)
	if err != nil {
		m.logger.Warn().Err(err).Str("symbol", s.Symbol).Msg("sentiment lookup failed, evaluating without it")
		sentiment = nil
	}
	news, err := m.store.GetRecentNews(s.Symbol, since)
	if err != nil {
		m.logger.Warn().Err(err).Str("symbol", s.Symbol).Msg("news lookup failed, evaluating without it")
		news = nil
	}

	result, err := m.evaluator.Evaluate(s, evaluator.Input{
		Candles:   candles,
		Sentiment: sentiment,
		News:      news,
	})
	if err != nil {
		if errors.Is(err, evaluator.ErrNoIndicatorData) {
			m.logger.Debug().Int("strategy_id", s.ID).Str("symbol", s.Symbol).Msg("nothing to evaluate")
			return nil, nil
		}
		return nil, fmt.Errorf("evaluation failed for strategy %d: %w", s.ID, err)
	}
	if result == nil {
		return nil, nil
	}

	signal := &models.TradingSignal{
		UserID:       result.UserID,
		StrategyID:   result.StrategyID,
		Symbol:       result.Symbol,
		Action:       result.Action,
		Strength:     result.Strength,
		Score:        result.Score,
		Status:       models.SignalStatusPending,
		Indicators:   result.Indicators,
		SentimentIDs: result.SentimentIDs,
		NewsIDs:      result.NewsIDs,
		Notes:        result.Notes,
	}
	if err := m.store.CreateTradingSignal(signal); err != nil {
		return nil, fmt.Errorf("failed to persist signal for strategy %d: %w", s.ID, err)
	}
	m.publishEvent(ctx, models.EventSignalCreated, signal)

	m.logger.Info().
		Int("signal_id", signal.ID).
		Str("symbol", signal.Symbol).
		Str("action", string(signal.Action)).
		Str("strength", string(signal.Strength)).
		Msg("signal generated")

	m.automate(ctx, s, signal)
	return []*models.TradingSignal{signal}, nil
}

// RunStrategyByID loads a strategy and runs it.
func (m *Manager) RunStrategyByID(ctx context.Context, strategyID int) ([]*models.TradingSignal, error) {
	s, err := m.store.GetStrategyByID(strategyID)
	if err != nil {
		return nil, err
	}
	return m.RunStrategy(ctx, s)
}

// ApproveSignal executes a signal a human approved: the semi-automatic
// path's second half. The signal must be awaiting approval.
func (m *Manager) ApproveSignal(ctx context.Context, signalID int) (*models.TradingSignal, error) {
	signal, err := m.store.GetTradingSignalByID(signalID)
	if err != nil {
		return nil, err
	}
	if signal.Status != models.SignalStatusAwaitingApproval {
		return nil, &ValidationError{Msg: fmt.Sprintf("signal %d is %s, not awaiting approval", signalID, signal.Status)}
	}

	strat, err := m.store.GetStrategyByID(signal.StrategyID)
	if err != nil {
		return nil, err
	}
	pref, err := m.store.GetAutomationPreference(signal.UserID, signal.StrategyID)
	if err != nil {
		return nil, err
	}

	if err := m.executeTrade(ctx, strat, pref, signal); err != nil {
		m.markError(ctx, signal, err)
		return signal, err
	}
	return signal, nil
}

func (m *Manager) publishEvent(ctx context.Context, eventType string, signal *models.TradingSignal) {
	if m.events == nil {
		return
	}
	if err := m.events.PublishSignalEvent(ctx, eventType, signal); err != nil {
		m.logger.Warn().Err(err).Int("signal_id", signal.ID).Str("event", eventType).
			Msg("failed to publish signal event")
	}
}
