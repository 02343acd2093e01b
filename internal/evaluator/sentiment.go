package evaluator

import (
	"fmt"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// Sentiment action thresholds on the confidence-weighted average score
// in [-1, 1], with escalation points for strength.
const (
	sentimentActionThreshold     = 0.25
	sentimentStrongThreshold     = 0.5
	sentimentVeryStrongThreshold = 0.7
)

// sentimentSignal derives a sub-signal from sentiment records within
// the last 24 hours: the confidence-weighted average score maps to an
// action at +/-0.25 and escalates in strength at 0.5 and 0.7. Returns
// nil when no recent records exist.
func (e *Evaluator) sentimentSignal(symbol string, records []models.SentimentAnalysis) (*subSignal, []int, error) {
	cutoff := e.now().Add(-recentWindow)

	var ids []int
	var weightedSum, confidenceSum float64
	var count int
	for _, r := range records {
		if r.Symbol != symbol || r.AnalyzedAt.Before(cutoff) {
			continue
		}
		if r.Score < -1 || r.Score > 1 {
			return nil, nil, fmt.Errorf("sentiment score out of range: %f", r.Score)
		}
		conf := r.Confidence
		if conf <= 0 {
			conf = 0.01
		}
		weightedSum += r.Score * conf
		confidenceSum += conf
		ids = append(ids, r.ID)
		count++
	}
	if count == 0 {
		return nil, nil, nil
	}

	avg := weightedSum / confidenceSum
	magnitude := avg
	if magnitude < 0 {
		magnitude = -magnitude
	}

	action := models.ActionHold
	switch {
	case avg >= sentimentActionThreshold:
		action = models.ActionBuy
	case avg <= -sentimentActionThreshold:
		action = models.ActionSell
	}

	strength := models.StrengthWeak
	switch {
	case magnitude >= sentimentVeryStrongThreshold:
		strength = models.StrengthVeryStrong
	case magnitude >= sentimentStrongThreshold:
		strength = models.StrengthStrong
	case magnitude >= sentimentActionThreshold:
		strength = models.StrengthModerate
	}

	note := fmt.Sprintf("sentiment average %.2f across %d recent records", avg, count)
	return &subSignal{
		source:   "sentiment",
		action:   action,
		score:    magnitude,
		strength: strength,
		notes:    []string{note},
	}, ids, nil
}
