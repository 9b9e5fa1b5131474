package models

import "time"

// AdviceAction is the booking recommendation emitted by an advisor.
type AdviceAction string

const (
	ActionBook     AdviceAction = "BOOK"
	ActionWait     AdviceAction = "WAIT"
	ActionNoSignal AdviceAction = "NO_SIGNAL"
)

// Opinionated reports whether the action carries an actual recommendation.
func (a AdviceAction) Opinionated() bool {
	return a == ActionBook || a == ActionWait
}

// PriceTrend classifies the learned seasonal price movement of a route.
type PriceTrend string

const (
	TrendUp   PriceTrend = "UP"
	TrendDown PriceTrend = "DOWN"
	TrendFlat PriceTrend = "FLAT"
)

// AdvisorSignal is the output of a single advisor (heuristic or seasonal).
// Confidence is an integer percentage in [0,100].
type AdvisorSignal struct {
	Action     AdviceAction `json:"action"`
	Confidence int          `json:"confidence"`
	Reason     string       `json:"reason"`
}

// AdviceResult is the blended recommendation returned to the caller.
// Constructed fresh per search, never persisted.
type AdviceResult struct {
	Action        AdviceAction  `json:"action"`
	Confidence    int           `json:"confidence"`
	Explanation   string        `json:"explanation"`
	Heuristic     AdvisorSignal `json:"heuristic"`
	Seasonal      AdvisorSignal `json:"seasonal"`
	CheapestOffer *FlightOffer  `json:"cheapest_offer"`
	GeneratedAt   time.Time     `json:"generated_at"`
}
