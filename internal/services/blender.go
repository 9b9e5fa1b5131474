package services

import (
	"fmt"
	"math"
	"time"

	"github.com/farecast/farecast-go/internal/models"
)

// Blend caps and adjustments. The short-term heuristic wins when the two
// signals disagree because it reflects the live search.
const (
	agreeBookCap    = 95
	agreeWaitCap    = 90
	agreeBookBoost  = 10
	agreeWaitBoost  = 5
	disagreePenalty = 10
)

// BlendAdvice combines the heuristic and seasonal signals into one
// bounded-confidence recommendation. The explanation carries both
// sub-reasons verbatim for auditability.
func BlendAdvice(heuristic, seasonal models.AdvisorSignal, cheapest *models.FlightOffer) models.AdviceResult {
	var action models.AdviceAction
	var confidence int
	var rationale string

	avg := roundedAvg(heuristic.Confidence, seasonal.Confidence)

	switch {
	case heuristic.Action == models.ActionBook && seasonal.Action == models.ActionBook:
		action = models.ActionBook
		confidence = minInt(agreeBookCap, avg+agreeBookBoost)
		rationale = "Short-term and seasonal signals agree: book now."

	case heuristic.Action == models.ActionWait && seasonal.Action == models.ActionWait:
		action = models.ActionWait
		confidence = minInt(agreeWaitCap, avg+agreeWaitBoost)
		rationale = "Short-term and seasonal signals agree: waiting looks better."

	case heuristic.Action.Opinionated() && seasonal.Action.Opinionated():
		// Disagreement: follow the live search's heuristic, softened.
		action = heuristic.Action
		confidence = avg - disagreePenalty
		rationale = fmt.Sprintf(
			"Signals disagree (heuristic says %s, seasonal history says %s); following the live search with reduced confidence.",
			heuristic.Action, seasonal.Action)

	case seasonal.Action.Opinionated():
		action = seasonal.Action
		confidence = seasonal.Confidence
		rationale = "Only the seasonal history is conclusive."

	case heuristic.Action.Opinionated():
		action = heuristic.Action
		confidence = heuristic.Confidence
		rationale = "Only the short-term heuristic is conclusive."

	default:
		action = models.ActionNoSignal
		confidence = 40
		rationale = "Neither signal is conclusive."
	}

	return models.AdviceResult{
		Action:        action,
		Confidence:    clampConfidence(confidence),
		Explanation:   fmt.Sprintf("%s Heuristic: %s Seasonal: %s", rationale, heuristic.Reason, seasonal.Reason),
		Heuristic:     heuristic,
		Seasonal:      seasonal,
		CheapestOffer: cheapest,
		GeneratedAt:   time.Now(),
	}
}

func roundedAvg(a, b int) int {
	return int(math.Round(float64(a+b) / 2))
}

func clampConfidence(confidence int) int {
	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
