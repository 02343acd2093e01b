package evaluator

import (
	"fmt"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// actionThreshold is the vote share an action needs before the
// technical sub-signal commits to it.
const actionThreshold = 0.6

// volumeConfirmWeight is the extra weight a volume spike adds to
// whichever side already leads. Volume is a pure confirmation signal;
// it contributes nothing on a tie.
const volumeConfirmWeight = 0.5

// technicalSignal scores each enabled indicator independently and
// derives a directional action from the vote shares. The returned
// condition set also feeds entry/exit rule gating.
func (e *Evaluator) technicalSignal(s *models.Strategy, latest, prev *models.IndicatorPoint) (*subSignal, error) {
	if latest == nil {
		return nil, ErrNoIndicatorData
	}

	var buySignals, sellSignals, totalSignals float64
	var notes []string
	conditions := make(map[string]bool)
	edge := s.EdgeTriggered()

	if s.Indicators.RSI.Enabled && latest.RSI != nil {
		totalSignals++
		rsi := *latest.RSI
		switch {
		case rsi <= s.Indicators.RSI.Oversold:
			buySignals++
			conditions[models.ConditionRSIOversold] = true
			notes = append(notes, fmt.Sprintf("RSI %.1f at or below oversold %.1f", rsi, s.Indicators.RSI.Oversold))
		case rsi >= s.Indicators.RSI.Overbought:
			sellSignals++
			conditions[models.ConditionRSIOverbought] = true
			notes = append(notes, fmt.Sprintf("RSI %.1f at or above overbought %.1f", rsi, s.Indicators.RSI.Overbought))
		}
	}

	if s.Indicators.MACD.Enabled && latest.MACD != nil && latest.MACDSig != nil && latest.MACDHist != nil {
		totalSignals++
		bullish := *latest.MACD > *latest.MACDSig && *latest.MACDHist > 0
		bearish := *latest.MACD < *latest.MACDSig && *latest.MACDHist < 0
		if edge && prev != nil && prev.MACD != nil && prev.MACDSig != nil && prev.MACDHist != nil {
			prevBullish := *prev.MACD > *prev.MACDSig && *prev.MACDHist > 0
			prevBearish := *prev.MACD < *prev.MACDSig && *prev.MACDHist < 0
			bullish = bullish && !prevBullish
			bearish = bearish && !prevBearish
		}
		if bullish {
			buySignals++
			conditions[models.ConditionMACDBullish] = true
			notes = append(notes, "MACD above signal line with positive histogram")
		} else if bearish {
			sellSignals++
			conditions[models.ConditionMACDBearish] = true
			notes = append(notes, "MACD below signal line with negative histogram")
		}
	}

	if s.Indicators.MA.Enabled {
		fast, fastOK := latest.MAValue(s.Indicators.MA.FastPeriod)
		slow, slowOK := latest.MAValue(s.Indicators.MA.SlowPeriod)
		if fastOK && slowOK {
			totalSignals++
			bullish := fast > slow
			bearish := fast < slow
			if edge && prev != nil {
				prevFast, pfOK := prev.MAValue(s.Indicators.MA.FastPeriod)
				prevSlow, psOK := prev.MAValue(s.Indicators.MA.SlowPeriod)
				if pfOK && psOK {
					bullish = bullish && prevFast <= prevSlow
					bearish = bearish && prevFast >= prevSlow
				}
			}
			if bullish {
				buySignals++
				conditions[models.ConditionMABullish] = true
				notes = append(notes, fmt.Sprintf("MA%d above MA%d", s.Indicators.MA.FastPeriod, s.Indicators.MA.SlowPeriod))
			} else if bearish {
				sellSignals++
				conditions[models.ConditionMABearish] = true
				notes = append(notes, fmt.Sprintf("MA%d below MA%d", s.Indicators.MA.FastPeriod, s.Indicators.MA.SlowPeriod))
			}
		}
	}

	if s.Indicators.Bollinger.Enabled && latest.BBUpper != nil && latest.BBLower != nil {
		totalSignals++
		switch {
		case latest.Close <= *latest.BBLower:
			buySignals++
			conditions[models.ConditionPriceBelowBand] = true
			notes = append(notes, "price at or below lower Bollinger band")
		case latest.Close >= *latest.BBUpper:
			sellSignals++
			conditions[models.ConditionPriceAboveBand] = true
			notes = append(notes, "price at or above upper Bollinger band")
		}
	}

	if s.Indicators.Volume.Enabled && latest.Volume != nil && latest.VolumeAvg != nil {
		threshold := s.Indicators.Volume.SpikeThreshold
		if threshold <= 0 {
			threshold = 1.5
		}
		if *latest.Volume > *latest.VolumeAvg*threshold {
			conditions[models.ConditionVolumeSpike] = true
			switch {
			case buySignals > sellSignals:
				buySignals += volumeConfirmWeight
				totalSignals += volumeConfirmWeight
				notes = append(notes, "volume spike confirms buy pressure")
			case sellSignals > buySignals:
				sellSignals += volumeConfirmWeight
				totalSignals += volumeConfirmWeight
				notes = append(notes, "volume spike confirms sell pressure")
			}
		}
	}

	if totalSignals == 0 {
		return nil, nil
	}

	buyScore := buySignals / totalSignals
	sellScore := sellSignals / totalSignals

	action := models.ActionHold
	score := 0.0
	switch {
	case buyScore > actionThreshold:
		action = models.ActionBuy
		score = buyScore
	case sellScore > actionThreshold:
		action = models.ActionSell
		score = sellScore
	}

	// Configured entry/exit rule trees gate the voted action: a buy
	// must satisfy the entry rules, a sell the exit rules.
	if action == models.ActionBuy && s.EntryRules != nil && !evalRuleGroup(s.EntryRules, conditions) {
		notes = append(notes, "entry rules not satisfied, holding")
		action = models.ActionHold
	}
	if action == models.ActionSell && s.ExitRules != nil && !evalRuleGroup(s.ExitRules, conditions) {
		notes = append(notes, "exit rules not satisfied, holding")
		action = models.ActionHold
	}

	return &subSignal{
		source:   "technical",
		action:   action,
		score:    score,
		strength: models.StrengthFromScore(score),
		notes:    notes,
	}, nil
}

// evalRuleGroup evaluates a boolean expression tree over the satisfied
// condition set. An empty group is vacuously true.
func evalRuleGroup(g *models.RuleGroup, conditions map[string]bool) bool {
	if g == nil {
		return true
	}
	if len(g.Conditions) == 0 && len(g.Groups) == 0 {
		return true
	}

	if g.Operator == models.RuleOperatorOr {
		for _, c := range g.Conditions {
			if conditions[c] {
				return true
			}
		}
		for i := range g.Groups {
			if evalRuleGroup(&g.Groups[i], conditions) {
				return true
			}
		}
		return false
	}

	// Default operator is "and".
	for _, c := range g.Conditions {
		if !conditions[c] {
			return false
		}
	}
	for i := range g.Groups {
		if !evalRuleGroup(&g.Groups[i], conditions) {
			return false
		}
	}
	return true
}
