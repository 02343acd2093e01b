package evaluator

import (
	"fmt"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// newsVolumeThreshold is the recent article count that flags elevated
// volatility.
const newsVolumeThreshold = 5

// newsSignal is a volume-only heuristic: five or more articles in the
// last 24 hours yields a hold at moderate strength as a volatility
// flag. It never triggers a buy or sell on its own; sentiment-weighted
// news scoring is a future input.
func (e *Evaluator) newsSignal(symbol string, articles []models.NewsArticle) (*subSignal, []int) {
	cutoff := e.now().Add(-recentWindow)

	var ids []int
	for _, a := range articles {
		if a.Symbol != symbol || a.PublishedAt.Before(cutoff) {
			continue
		}
		ids = append(ids, a.ID)
	}
	if len(ids) < newsVolumeThreshold {
		return nil, ids
	}

	return &subSignal{
		source:   "news",
		action:   models.ActionHold,
		score:    0,
		strength: models.StrengthModerate,
		notes:    []string{fmt.Sprintf("elevated news volume (%d articles in 24h), expect volatility", len(ids))},
	}, ids
}
