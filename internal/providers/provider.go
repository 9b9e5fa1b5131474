package providers

import (
	"context"
	"encoding/json"

	"github.com/farecast/farecast-go/internal/models"
)

// Provider is the contract every fare provider adapter implements. A
// provider either returns its native raw offers or fails; the core never
// inspects provider-specific fields outside the normalizer.
type Provider interface {
	Name() string
	Search(ctx context.Context, params models.SearchParams) ([]RawOffer, error)
}

// RawOffer is one offer in a provider's native shape. Providers disagree
// on which fields they populate: some nest schedule data in segments,
// some send durations as ISO-8601 strings and others as raw minutes,
// and prices arrive as JSON numbers or numeric strings. The normalizer
// is the only consumer of this type.
type RawOffer struct {
	Provider        string       `json:"-"`
	CarrierCode     string       `json:"carrier_code"`
	FlightNumber    string       `json:"flight_number"`
	Airline         string       `json:"airline"`
	Departure       string       `json:"departure"`
	Arrival         string       `json:"arrival"`
	Duration        string       `json:"duration"`
	DurationMinutes int          `json:"duration_minutes"`
	Segments        []RawSegment `json:"segments"`
	Price           json.Number  `json:"price"`
	Currency        string       `json:"currency"`
	BookingURL      string       `json:"booking_url"`
}

// RawSegment is one leg of a multi-segment itinerary.
type RawSegment struct {
	CarrierCode  string `json:"carrier_code"`
	FlightNumber string `json:"flight_number"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
}
