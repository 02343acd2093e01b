package evaluator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

func TestTechnicalSignal(t *testing.T) {
	e := testEvaluator()

	t.Run("nil point yields no indicator data", func(t *testing.T) {
		_, err := e.technicalSignal(rsiOnlyStrategy(), nil, nil)
		assert.ErrorIs(t, err, ErrNoIndicatorData)
	})

	t.Run("volume spike confirms the leading side", func(t *testing.T) {
		s := rsiOnlyStrategy()
		s.Indicators.Volume = models.VolumeSettings{Enabled: true, Period: 20, SpikeThreshold: 1.5}

		p := pointAt(0)
		p.RSI = models.Float64Ptr(25)
		p.Volume = models.Float64Ptr(4000)
		p.VolumeAvg = models.Float64Ptr(1000)

		sub, err := e.technicalSignal(s, p, nil)
		require.NoError(t, err)
		require.NotNil(t, sub)

		// 1 buy vote plus 0.5 confirmation over 1.5 total.
		assert.Equal(t, models.ActionBuy, sub.action)
		assert.InDelta(t, 1.0, sub.score, 1e-12)
		assert.Contains(t, sub.notes, "volume spike confirms buy pressure")
	})

	t.Run("volume spike contributes nothing on a tie", func(t *testing.T) {
		s := rsiOnlyStrategy()
		s.Indicators.Volume = models.VolumeSettings{Enabled: true, Period: 20, SpikeThreshold: 1.5}

		p := pointAt(0)
		p.RSI = models.Float64Ptr(50)
		p.Volume = models.Float64Ptr(4000)
		p.VolumeAvg = models.Float64Ptr(1000)

		sub, err := e.technicalSignal(s, p, nil)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, models.ActionHold, sub.action)
	})

	t.Run("split vote below threshold holds", func(t *testing.T) {
		s := rsiOnlyStrategy()
		s.Indicators.MACD = models.MACDSettings{Enabled: true, FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9}

		// RSI says buy, MACD says sell: 0.5 each, below 0.6.
		p := pointAt(0)
		p.RSI = models.Float64Ptr(25)
		p.MACD = models.Float64Ptr(-1.0)
		p.MACDSig = models.Float64Ptr(-0.5)
		p.MACDHist = models.Float64Ptr(-0.5)

		sub, err := e.technicalSignal(s, p, nil)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, models.ActionHold, sub.action)
	})

	t.Run("state based crossover fires while the relation holds", func(t *testing.T) {
		s := &models.Strategy{
			Symbol: "BTC",
			Indicators: models.IndicatorSettings{
				MA: models.MASettings{Enabled: true, FastPeriod: 20, SlowPeriod: 50},
			},
		}

		latest := pointAt(0)
		latest.MA = map[int]float64{20: 105, 50: 100}
		prev := pointAt(-24 * time.Hour)
		prev.MA = map[int]float64{20: 104, 50: 100}

		sub, err := e.technicalSignal(s, latest, prev)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, models.ActionBuy, sub.action)
	})

	t.Run("edge triggered crossover fires only on the flip bar", func(t *testing.T) {
		s := &models.Strategy{
			Symbol:        "BTC",
			CrossoverMode: models.CrossoverEdgeTriggered,
			Indicators: models.IndicatorSettings{
				MA: models.MASettings{Enabled: true, FastPeriod: 20, SlowPeriod: 50},
			},
		}

		latest := pointAt(0)
		latest.MA = map[int]float64{20: 105, 50: 100}

		// Previous bar already above: no edge, no signal.
		prevAbove := pointAt(-24 * time.Hour)
		prevAbove.MA = map[int]float64{20: 104, 50: 100}

		sub, err := e.technicalSignal(s, latest, prevAbove)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, models.ActionHold, sub.action)

		// Previous bar below: the relation flipped, signal fires.
		prevBelow := pointAt(-24 * time.Hour)
		prevBelow.MA = map[int]float64{20: 98, 50: 100}

		sub, err = e.technicalSignal(s, latest, prevBelow)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, models.ActionBuy, sub.action)
	})

	t.Run("bollinger band touch votes directionally", func(t *testing.T) {
		s := &models.Strategy{
			Symbol: "BTC",
			Indicators: models.IndicatorSettings{
				Bollinger: models.BollingerSettings{Enabled: true, Period: 20, Deviations: 2},
			},
		}

		p := pointAt(0)
		p.Close = 90
		p.BBLower = models.Float64Ptr(92)
		p.BBMiddle = models.Float64Ptr(100)
		p.BBUpper = models.Float64Ptr(108)

		sub, err := e.technicalSignal(s, p, nil)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, models.ActionBuy, sub.action)
	})

	t.Run("entry rules gate a voted buy", func(t *testing.T) {
		s := rsiOnlyStrategy()
		s.EntryRules = &models.RuleGroup{
			Operator:   models.RuleOperatorAnd,
			Conditions: []string{models.ConditionRSIOversold, models.ConditionMACDBullish},
		}

		p := pointAt(0)
		p.RSI = models.Float64Ptr(25)

		sub, err := e.technicalSignal(s, p, nil)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, models.ActionHold, sub.action)
		assert.Contains(t, sub.notes, "entry rules not satisfied, holding")
	})

	t.Run("or group passes when any condition holds", func(t *testing.T) {
		s := rsiOnlyStrategy()
		s.EntryRules = &models.RuleGroup{
			Operator:   models.RuleOperatorOr,
			Conditions: []string{models.ConditionRSIOversold, models.ConditionMACDBullish},
		}

		p := pointAt(0)
		p.RSI = models.Float64Ptr(25)

		sub, err := e.technicalSignal(s, p, nil)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, models.ActionBuy, sub.action)
	})

	t.Run("no enabled indicators yields no sub-signal", func(t *testing.T) {
		s := &models.Strategy{Symbol: "BTC"}

		sub, err := e.technicalSignal(s, pointAt(0), nil)
		require.NoError(t, err)
		assert.Nil(t, sub)
	})
}

func TestEvalRuleGroup(t *testing.T) {
	conditions := map[string]bool{
		models.ConditionRSIOversold: true,
		models.ConditionVolumeSpike: true,
		models.ConditionMACDBullish: false,
		models.ConditionMABullish:   false,
	}

	t.Run("empty group is vacuously true", func(t *testing.T) {
		assert.True(t, evalRuleGroup(&models.RuleGroup{}, conditions))
		assert.True(t, evalRuleGroup(nil, conditions))
	})

	t.Run("nested groups compose", func(t *testing.T) {
		g := &models.RuleGroup{
			Operator:   models.RuleOperatorAnd,
			Conditions: []string{models.ConditionRSIOversold},
			Groups: []models.RuleGroup{
				{
					Operator:   models.RuleOperatorOr,
					Conditions: []string{models.ConditionMACDBullish, models.ConditionVolumeSpike},
				},
			},
		}
		assert.True(t, evalRuleGroup(g, conditions))

		g.Groups[0].Conditions = []string{models.ConditionMACDBullish, models.ConditionMABullish}
		assert.False(t, evalRuleGroup(g, conditions))
	})

	t.Run("missing operator defaults to and", func(t *testing.T) {
		g := &models.RuleGroup{
			Conditions: []string{models.ConditionRSIOversold, models.ConditionMACDBullish},
		}
		assert.False(t, evalRuleGroup(g, conditions))
	})
}
