package services

import (
	"github.com/farecast/farecast-go/internal/models"
)

// DeduplicateOffers collapses offers describing the same physical flight
// (same carrier, flight number, departure and arrival times) into one,
// keeping the cheaper offer. On an exact price tie the first-seen offer
// wins, which is why callers concatenate batches in provider-priority
// order. Offers without a finite positive price are filtered out here.
// Output preserves the insertion order of first-seen keys; single pass,
// O(n) in offer count.
func DeduplicateOffers(offers []models.FlightOffer) []models.FlightOffer {
	result := make([]models.FlightOffer, 0, len(offers))
	index := make(map[models.DedupKey]int, len(offers))

	for _, offer := range offers {
		if !offer.Price.IsPositive() {
			continue
		}

		key := offer.Key()
		pos, seen := index[key]
		if !seen {
			index[key] = len(result)
			result = append(result, offer)
			continue
		}
		if offer.Price.LessThan(result[pos].Price) {
			result[pos] = offer
		}
	}

	return result
}
