package evaluator

import (
	"fmt"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// Combination policy constants: agreement between sub-signals is
// rewarded, conflict and missing corroboration are discounted.
const (
	agreementBonus     = 0.2
	conflictDiscount   = 0.8
	loneSignalDiscount = 0.9
)

// combine reconciles the technical and sentiment sub-signals.
//
//   - only one present: used verbatim
//   - agreement on a non-hold action: that action, score raised by the
//     agreement bonus, capped at 1.0
//   - opposite non-hold actions: the higher-scored side wins but its
//     score is discounted, and the notes say so
//   - one hold, one directional: the directional side, mildly
//     discounted for lack of corroboration
//   - both hold: hold
func combine(tech, sent *subSignal) *subSignal {
	if tech == nil && sent == nil {
		return nil
	}
	if sent == nil {
		return tech
	}
	if tech == nil {
		return sent
	}

	techDirectional := tech.action != models.ActionHold
	sentDirectional := sent.action != models.ActionHold

	switch {
	case techDirectional && sentDirectional && tech.action == sent.action:
		score := tech.score
		if sent.score > score {
			score = sent.score
		}
		score += agreementBonus
		if score > 1.0 {
			score = 1.0
		}
		notes := append(append([]string{}, tech.notes...), sent.notes...)
		notes = append(notes, "technical and sentiment signals agree")
		return &subSignal{
			source:   "combined",
			action:   tech.action,
			score:    score,
			strength: models.StrengthFromScore(score),
			notes:    notes,
		}

	case techDirectional && sentDirectional:
		winner, loser := tech, sent
		if sent.score > tech.score {
			winner, loser = sent, tech
		}
		score := winner.score * conflictDiscount
		notes := append(append([]string{}, winner.notes...), loser.notes...)
		notes = append(notes, fmt.Sprintf("%s signal contradicts %s signal, confidence reduced",
			loser.source, winner.source))
		return &subSignal{
			source:   "combined",
			action:   winner.action,
			score:    score,
			strength: models.StrengthFromScore(score),
			notes:    notes,
		}

	case techDirectional || sentDirectional:
		directional := tech
		if sentDirectional {
			directional = sent
		}
		score := directional.score * loneSignalDiscount
		notes := append([]string{}, directional.notes...)
		notes = append(notes, fmt.Sprintf("%s signal lacks corroboration, confidence reduced", directional.source))
		return &subSignal{
			source:   "combined",
			action:   directional.action,
			score:    score,
			strength: models.StrengthFromScore(score),
			notes:    notes,
		}

	default:
		return &subSignal{
			source:   "combined",
			action:   models.ActionHold,
			strength: models.StrengthWeak,
		}
	}
}
