package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farecast/farecast-go/internal/models"
	"github.com/farecast/farecast-go/internal/providers"
)

// timestampLayouts covers the formats observed across provider schemas.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// NormalizeOffer converts one provider-native offer into the canonical
// FlightOffer shape. Any missing or malformed required field drops the
// single offer, never the batch. Offers with a parseable but
// non-positive price are still constructed; the deduplicator filters
// them, so normalization failures and free/invalid prices stay
// distinguishable in diagnostics.
func NormalizeOffer(raw providers.RawOffer, params models.SearchParams) (*models.FlightOffer, bool) {
	carrier := strings.ToUpper(strings.TrimSpace(raw.CarrierCode))
	flightNumber := strings.TrimSpace(raw.FlightNumber)
	if carrier == "" && len(raw.Segments) > 0 {
		carrier = strings.ToUpper(strings.TrimSpace(raw.Segments[0].CarrierCode))
	}
	if flightNumber == "" && len(raw.Segments) > 0 {
		flightNumber = strings.TrimSpace(raw.Segments[0].FlightNumber)
	}
	if carrier == "" || flightNumber == "" {
		return nil, false
	}

	departRaw := raw.Departure
	if departRaw == "" && len(raw.Segments) > 0 {
		departRaw = raw.Segments[0].Departure
	}
	arriveRaw := raw.Arrival
	if arriveRaw == "" && len(raw.Segments) > 0 {
		arriveRaw = raw.Segments[len(raw.Segments)-1].Arrival
	}

	departure, ok := parseTimestamp(departRaw)
	if !ok {
		return nil, false
	}
	arrival, ok := parseTimestamp(arriveRaw)
	if !ok {
		return nil, false
	}

	price, err := decimal.NewFromString(raw.Price.String())
	if err != nil {
		return nil, false
	}

	stops := 0
	if len(raw.Segments) > 0 {
		stops = len(raw.Segments) - 1
	}

	currency := strings.ToUpper(strings.TrimSpace(raw.Currency))
	if currency == "" {
		currency = strings.ToUpper(params.Currency)
	}

	airline := strings.TrimSpace(raw.Airline)
	if airline == "" {
		airline = carrier
	}

	return &models.FlightOffer{
		CarrierCode:  carrier,
		FlightNumber: flightNumber,
		Airline:      airline,
		DepartureAt:  departure,
		ArrivalAt:    arrival,
		Duration:     normalizeDuration(raw, departure, arrival),
		Stops:        stops,
		Price:        price,
		Currency:     currency,
		BookingURL:   raw.BookingURL,
		Provider:     raw.Provider,
	}, true
}

// NormalizeBatch normalizes every offer in a provider batch, silently
// skipping the unusable ones.
func NormalizeBatch(batch providers.Batch, params models.SearchParams) []models.FlightOffer {
	offers := make([]models.FlightOffer, 0, len(batch.Offers))
	for _, raw := range batch.Offers {
		if offer, ok := NormalizeOffer(raw, params); ok {
			offers = append(offers, *offer)
		}
	}
	return offers
}

func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeDuration renders a human duration string from whatever the
// provider supplied: an ISO-8601-like duration, raw minutes, or nothing
// (in which case it falls back to the scheduled times).
func normalizeDuration(raw providers.RawOffer, departure, arrival time.Time) string {
	if minutes, ok := parseISODuration(raw.Duration); ok {
		return formatMinutes(minutes)
	}
	if raw.DurationMinutes > 0 {
		return formatMinutes(raw.DurationMinutes)
	}
	if arrival.After(departure) {
		return formatMinutes(int(arrival.Sub(departure).Minutes()))
	}
	return ""
}

// parseISODuration handles the PT#H#M subset providers actually send.
func parseISODuration(value string) (int, bool) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if !strings.HasPrefix(value, "PT") {
		return 0, false
	}
	rest := value[2:]
	if rest == "" {
		return 0, false
	}

	minutes := 0
	if idx := strings.Index(rest, "H"); idx >= 0 {
		hours, err := strconv.Atoi(rest[:idx])
		if err != nil {
			return 0, false
		}
		minutes += hours * 60
		rest = rest[idx+1:]
	}
	if idx := strings.Index(rest, "M"); idx >= 0 {
		m, err := strconv.Atoi(rest[:idx])
		if err != nil {
			return 0, false
		}
		minutes += m
		rest = rest[idx+1:]
	}
	if rest != "" || minutes <= 0 {
		return 0, false
	}
	return minutes, true
}

func formatMinutes(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
