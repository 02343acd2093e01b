// Package evaluator turns a strategy's configured thresholds plus
// indicator, sentiment, and news inputs into at most one trading
// signal. Technical, sentiment, and news sub-signals are scored
// independently and reconciled by an agreement/conflict policy.
package evaluator

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scarramanga/stackmotive-signal-engine/internal/indicator"
	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// ErrNoIndicatorData is returned when there is nothing to evaluate for
// a strategy. The signal is skipped; this is not a failure.
var ErrNoIndicatorData = errors.New("no indicator data to evaluate")

// recentWindow bounds how old sentiment and news records may be to
// still count toward an evaluation.
const recentWindow = 24 * time.Hour

// Input carries everything one evaluation may consume. Indicators are
// optional; when absent they are computed from Candles.
type Input struct {
	Candles    []models.Candle
	Indicators []*models.IndicatorPoint
	Sentiment  []models.SentimentAnalysis
	News       []models.NewsArticle
}

// subSignal is one sub-evaluator's verdict before combination.
type subSignal struct {
	source   string
	action   models.SignalAction
	score    float64
	strength models.SignalStrength
	notes    []string
}

// Evaluator evaluates strategies. The clock is injectable so the 24h
// recency windows are testable.
type Evaluator struct {
	logger zerolog.Logger
	now    func() time.Time
}

// New creates an evaluator using the wall clock.
func New() *Evaluator {
	return NewWithClock(time.Now)
}

// NewWithClock creates an evaluator with an explicit clock.
func NewWithClock(now func() time.Time) *Evaluator {
	return &Evaluator{
		logger: log.With().Str("component", "evaluator").Logger(),
		now:    now,
	}
}

// Evaluate produces zero or one signal for the strategy. A nil result
// with a nil error means hold: nothing actionable. Sub-evaluator
// failures degrade to "that sub-signal is absent" rather than failing
// the evaluation.
func (e *Evaluator) Evaluate(strategy *models.Strategy, in Input) (*models.SignalResult, error) {
	points := in.Indicators
	if len(points) == 0 {
		if len(in.Candles) == 0 {
			return nil, ErrNoIndicatorData
		}
		computed, err := indicator.CalculateForSettings(in.Candles, strategy.Indicators)
		if err != nil {
			e.logger.Warn().Err(err).
				Int("strategy_id", strategy.ID).
				Str("symbol", strategy.Symbol).
				Msg("indicator calculation failed")
			return nil, ErrNoIndicatorData
		}
		points = computed
	}
	if len(points) == 0 {
		return nil, ErrNoIndicatorData
	}

	latest, prev := latestTwo(points)

	tech, err := e.technicalSignal(strategy, latest, prev)
	if err != nil {
		e.logger.Warn().Err(err).Int("strategy_id", strategy.ID).
			Msg("technical sub-evaluator failed, treating as absent")
		tech = nil
	}

	sent, sentimentIDs, err := e.sentimentSignal(strategy.Symbol, in.Sentiment)
	if err != nil {
		e.logger.Warn().Err(err).Int("strategy_id", strategy.ID).
			Msg("sentiment sub-evaluator failed, treating as absent")
		sent = nil
	}

	news, newsIDs := e.newsSignal(strategy.Symbol, in.News)

	combined := combine(tech, sent)
	if combined == nil || combined.action == models.ActionHold {
		// News alone never triggers a trade; a hold is discarded.
		return nil, nil
	}
	if news != nil {
		combined.notes = append(combined.notes, news.notes...)
	}

	result := &models.SignalResult{
		Symbol:       strategy.Symbol,
		StrategyID:   strategy.ID,
		UserID:       strategy.UserID,
		Action:       combined.action,
		Strength:     combined.strength,
		Score:        combined.score,
		Indicators:   enabledIndicatorValues(strategy, latest),
		SentimentIDs: sentimentIDs,
		NewsIDs:      newsIDs,
		Notes:        strings.Join(combined.notes, "; "),
	}
	return result, nil
}

// latestTwo returns the most recent point and, when available, the one
// before it, selected by timestamp descending.
func latestTwo(points []*models.IndicatorPoint) (latest, prev *models.IndicatorPoint) {
	sorted := make([]*models.IndicatorPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	latest = sorted[0]
	if len(sorted) > 1 {
		prev = sorted[1]
	}
	return latest, prev
}

// enabledIndicatorValues extracts only the indicator fields the
// strategy enabled, plus the bar's OHLC, for the audit trail.
func enabledIndicatorValues(s *models.Strategy, p *models.IndicatorPoint) map[string]float64 {
	values := map[string]float64{
		"open":  p.Open,
		"high":  p.High,
		"low":   p.Low,
		"close": p.Close,
	}
	if s.Indicators.RSI.Enabled && p.RSI != nil {
		values[models.IndicatorRSI] = *p.RSI
	}
	if s.Indicators.MACD.Enabled {
		if p.MACD != nil {
			values[models.IndicatorMACD] = *p.MACD
		}
		if p.MACDSig != nil {
			values[models.IndicatorMACDSig] = *p.MACDSig
		}
		if p.MACDHist != nil {
			values[models.IndicatorMACDHist] = *p.MACDHist
		}
	}
	if s.Indicators.MA.Enabled {
		if v, ok := p.MAValue(s.Indicators.MA.FastPeriod); ok {
			values["ma_fast"] = v
		}
		if v, ok := p.MAValue(s.Indicators.MA.SlowPeriod); ok {
			values["ma_slow"] = v
		}
	}
	if s.Indicators.Bollinger.Enabled {
		if p.BBUpper != nil {
			values[models.IndicatorBBUpper] = *p.BBUpper
		}
		if p.BBMiddle != nil {
			values[models.IndicatorBBMiddle] = *p.BBMiddle
		}
		if p.BBLower != nil {
			values[models.IndicatorBBLower] = *p.BBLower
		}
	}
	if s.Indicators.Volume.Enabled {
		if p.Volume != nil {
			values[models.IndicatorVolume] = *p.Volume
		}
		if p.VolumeAvg != nil {
			values[models.IndicatorVolumeAvg] = *p.VolumeAvg
		}
	}
	return values
}
