package services

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farecast/farecast-go/internal/models"
)

// Heuristic decision thresholds. These constants are deliberately fixed
// in one place; environments must not vary them.
var (
	imminentSpreadFactor = decimal.NewFromFloat(1.10) // avg within 10% of min
	farSpreadFactor      = decimal.NewFromFloat(1.30) // avg more than 30% above min
	clusterFactor        = decimal.NewFromFloat(0.10) // (max-min) under 10% of avg
)

const (
	reasonImminent       = "Departure is imminent; prices rarely fall this close to takeoff."
	reasonFarOverpriced  = "Departure is over a month away and the average fare is well above the cheapest; waiting is likely to pay off."
	reasonFarReasonable  = "Departure is over a month away but fares are close to the cheapest observed; booking now is reasonable."
	reasonMidClustered   = "Fares are tightly clustered; there is little upside to waiting."
	reasonMidWideSpread  = "Fares show a meaningful spread; the price may still improve."
)

// DaysUntilDeparture returns the difference between the departure date
// and now, rounded to the nearest whole day rather than hour-truncated.
func DaysUntilDeparture(departure, now time.Time) int {
	return int(math.Round(departure.Sub(now).Hours() / 24))
}

// HeuristicAdvice is the stateless short-term rule evaluation over
// days-until-departure and the observed price distribution. Branches
// are evaluated in fixed order and every branch yields a bounded
// confidence.
func HeuristicAdvice(daysUntilDeparture int, stats models.PriceStats) models.AdvisorSignal {
	switch {
	case daysUntilDeparture <= 7:
		confidence := 75
		if stats.Avg.LessThanOrEqual(stats.Min.Mul(imminentSpreadFactor)) {
			confidence = 85
		}
		return models.AdvisorSignal{
			Action:     models.ActionBook,
			Confidence: confidence,
			Reason:     reasonImminent,
		}

	case daysUntilDeparture > 30:
		if stats.Avg.GreaterThan(stats.Min.Mul(farSpreadFactor)) {
			return models.AdvisorSignal{
				Action:     models.ActionWait,
				Confidence: 70,
				Reason:     reasonFarOverpriced,
			}
		}
		return models.AdvisorSignal{
			Action:     models.ActionBook,
			Confidence: 60,
			Reason:     reasonFarReasonable,
		}

	default: // 8-30 days out
		if stats.Max.Sub(stats.Min).LessThan(stats.Avg.Mul(clusterFactor)) {
			return models.AdvisorSignal{
				Action:     models.ActionBook,
				Confidence: 65,
				Reason:     reasonMidClustered,
			}
		}
		return models.AdvisorSignal{
			Action:     models.ActionWait,
			Confidence: 55,
			Reason:     reasonMidWideSpread,
		}
	}
}
