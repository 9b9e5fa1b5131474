package services

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/farecast/farecast-go/internal/models"
)

// ErrNoOffers is returned when statistics are requested over an empty
// result set. Callers are expected to special-case the empty path (no
// statistics, no advice, no history write) before getting here.
var ErrNoOffers = errors.New("cannot compute price statistics over empty offer list")

// ComputePriceStats returns min, max, and arithmetic mean price over a
// non-empty deduplicated offer list, plus the best (cheapest) offer.
// Ties on the minimum go to the first occurrence.
func ComputePriceStats(offers []models.FlightOffer) (models.PriceStats, error) {
	if len(offers) == 0 {
		return models.PriceStats{}, ErrNoOffers
	}

	min := offers[0].Price
	max := offers[0].Price
	sum := decimal.Zero
	best := 0

	for i, offer := range offers {
		sum = sum.Add(offer.Price)
		if offer.Price.LessThan(min) {
			min = offer.Price
			best = i
		}
		if offer.Price.GreaterThan(max) {
			max = offer.Price
		}
	}

	bestOffer := offers[best]
	return models.PriceStats{
		Min:  min,
		Avg:  sum.Div(decimal.NewFromInt(int64(len(offers)))),
		Max:  max,
		Best: &bestOffer,
	}, nil
}
